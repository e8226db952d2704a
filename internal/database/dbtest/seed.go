package dbtest

import (
	"database/sql"
	"testing"
	"time"
)

// Seeder inserts fixture rows with plain SQL so it can be used by any
// package's tests without import cycles.
type Seeder struct {
	t  testing.TB
	db *sql.DB
}

func NewSeeder(t testing.TB, db *sql.DB) *Seeder { return &Seeder{t: t, db: db} }

func (s *Seeder) insert(q string, args ...any) uint64 {
	s.t.Helper()
	res, err := s.db.Exec(q, args...)
	if err != nil {
		s.t.Fatalf("seed %q: %v", q, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		s.t.Fatalf("seed id: %v", err)
	}
	return uint64(id)
}

// Stamp formats t the way timestamps are stored.
func Stamp(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") }

func (s *Seeder) Genre(name string) uint64 {
	return s.insert("INSERT INTO genres (name) VALUES (?)", name)
}

// Movie inserts a movie with a 120 minute duration.  release may be "".
func (s *Seeder) Movie(title, original, release string, genreIDs ...uint64) uint64 {
	var rd any
	if release != "" {
		rd = release
	}
	id := s.insert("INSERT INTO movies (title, original_title, release_date, duration) VALUES (?, ?, ?, 120)",
		title, original, rd)
	for _, g := range genreIDs {
		s.insert("INSERT INTO movie_genres (movie_id, genre_id) VALUES (?, ?)", id, g)
	}
	return id
}

func (s *Seeder) Cinema(name, address string) uint64 {
	return s.insert("INSERT INTO cinemas (name, address) VALUES (?, ?)", name, address)
}

func (s *Seeder) Hall(cinemaID uint64, name string, seats int) uint64 {
	return s.insert("INSERT INTO halls (cinema_id, name, seats) VALUES (?, ?, ?)", cinemaID, name, seats)
}

// Session schedules movieID in hallID, taking the cinema from the hall.
func (s *Seeder) Session(movieID, hallID uint64, start time.Time, priceCents int) uint64 {
	return s.insert(`INSERT INTO sessions (movie_id, hall_id, cinema_id, start_time, price_cents)
		SELECT ?, id, cinema_id, ?, ? FROM halls WHERE id = ?`, movieID, Stamp(start), priceCents, hallID)
}

func (s *Seeder) Ticket(sessionID uint64, seat int) uint64 {
	return s.insert("INSERT INTO tickets (session_id, seat_number) VALUES (?, ?)", sessionID, seat)
}

// User inserts an account with an unusable password hash.
func (s *Seeder) User(username, role string) uint64 {
	return s.insert("INSERT INTO users (username, email, password_hash, role, created_at) VALUES (?, ?, 'x', ?, ?)",
		username, username+"@example.com", role, Stamp(time.Now()))
}
