package model

// Ticket is a sold or reserved seat for a session.  A seat number is unique
// within its session.  UserID is nil for box-office sales and is cleared
// when the buyer's account is deleted.
type Ticket struct {
	ID         uint64  `json:"id"`
	SessionID  uint64  `json:"session_id"`
	SeatNumber uint32  `json:"seat_number"`
	UserID     *uint64 `json:"user_id"`
	IsPaid     bool    `json:"is_paid"`
}
