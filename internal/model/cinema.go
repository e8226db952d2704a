package model

// Cinema is a venue.  A cinema contains halls and, through them, sessions.
// Deleting a cinema removes its halls, sessions and tickets.
type Cinema struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}
