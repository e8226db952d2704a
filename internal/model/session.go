package model

import "time"

// Session is a scheduled screening of a movie in a hall.  CinemaID is
// denormalized from the hall and must always equal the hall's cinema.
// Prices are kept in cents.
type Session struct {
	ID         uint64    `json:"id"`
	MovieID    uint64    `json:"movie_id"`
	HallID     uint64    `json:"hall_id"`
	CinemaID   uint64    `json:"cinema_id"`
	StartTime  time.Time `json:"start_time"`
	PriceCents uint64    `json:"price_cents"`
}

// Price returns the price in currency units.
func (s Session) Price() float64 { return float64(s.PriceCents) / 100.0 }

// SessionListing is a session joined with the names needed to render it.
type SessionListing struct {
	Session
	MovieTitle  string `json:"movie_title"`
	MoviePoster string `json:"movie_poster"`
	HallName    string `json:"hall_name"`
	HallSeats   uint32 `json:"hall_seats"`
	CinemaName  string `json:"cinema_name"`
	TicketCount int64  `json:"ticket_count"`
}

// Occupancy is sold tickets divided by hall seats, in [0, 1] unless the hall
// was shrunk after tickets were sold.
func (s SessionListing) Occupancy() float64 {
	seats := s.HallSeats
	if seats == 0 {
		seats = 1
	}
	return float64(s.TicketCount) / float64(seats)
}

// CinemaSessions summarizes the sessions of one movie in one cinema.
type CinemaSessions struct {
	CinemaID      uint64 `json:"cinema_id"`
	CinemaName    string `json:"cinema_name"`
	Total         int    `json:"total"`
	MinPriceCents uint64 `json:"min_price_cents"`
}
