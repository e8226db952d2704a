package model

import "time"

// Favorite links a user to a movie they bookmarked.  The pair is unique.
type Favorite struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	MovieID   uint64    `json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
	Movie     *Movie    `json:"movie,omitempty"`
}
