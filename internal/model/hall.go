package model

// Hall is a screening room inside a cinema.
//
// Fields:
//  ID         – primary key identifier.
//  CinemaID   – the containing cinema.
//  Name       – label unique enough for staff ("Hall 1", "IMAX").
//  Seats      – seat count, the denominator of occupancy.
//  CinemaName – joined for listings, not stored.
type Hall struct {
	ID         uint64 `json:"id"`
	CinemaID   uint64 `json:"cinema_id"`
	Name       string `json:"name"`
	Seats      uint32 `json:"seats"`
	CinemaName string `json:"cinema_name,omitempty"`
}
