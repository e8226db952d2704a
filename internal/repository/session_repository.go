package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/kino/internal/model"
)

// SessionRepo handles CRUD and listing queries for the `sessions` table.
// Times are bound as UTC text and read back through timeScanner.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionListingSelect = `SELECT s.id, s.movie_id, s.hall_id, s.cinema_id, s.start_time, s.price_cents,
	       m.title, m.poster, h.name, h.seats, c.name,
	       (SELECT COUNT(*) FROM tickets t WHERE t.session_id = s.id)
	FROM sessions s
	JOIN movies m  ON m.id = s.movie_id
	JOIN halls h   ON h.id = s.hall_id
	JOIN cinemas c ON c.id = s.cinema_id`

func scanListing(s scanner, l *model.SessionListing) error {
	return s.Scan(&l.ID, &l.MovieID, &l.HallID, &l.CinemaID, timeScanner{&l.StartTime}, &l.PriceCents,
		&l.MovieTitle, &l.MoviePoster, &l.HallName, &l.HallSeats, &l.CinemaName, &l.TicketCount)
}

// Create inserts the session.  The caller is responsible for cinema/hall
// consistency.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = "INSERT INTO sessions (movie_id, hall_id, cinema_id, start_time, price_cents) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.HallID, s.CinemaID, dbTime(s.StartTime), s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

func (r *SessionRepo) Update(ctx context.Context, s *model.Session) error {
	ok, err := rowExists(ctx, r.db, "sessions", s.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionNotFound
	}
	const q = "UPDATE sessions SET movie_id = ?, hall_id = ?, cinema_id = ?, start_time = ?, price_cents = ? WHERE id = ?"
	_, err = r.db.ExecContext(ctx, q, s.MovieID, s.HallID, s.CinemaID, dbTime(s.StartTime), s.PriceCents, s.ID)
	return err
}

// Delete removes the session and its tickets.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE session_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
		if err != nil {
			return err
		}
		return affectedOr(res, ErrSessionNotFound)
	})
}

// GetByID returns the session with its joined names and ticket count.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.SessionListing, error) {
	var l model.SessionListing
	if err := scanListing(r.db.QueryRowContext(ctx, sessionListingSelect+" WHERE s.id = ?", id), &l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns every session, latest start first.
func (r *SessionRepo) List(ctx context.Context) ([]model.SessionListing, error) {
	return r.list(ctx, sessionListingSelect+" ORDER BY s.start_time DESC, s.id DESC")
}

// ListBetween returns sessions starting in [from, to], earliest first, at
// most limit of them.
func (r *SessionRepo) ListBetween(ctx context.Context, from, to time.Time, limit int) ([]model.SessionListing, error) {
	return r.list(ctx, sessionListingSelect+` WHERE s.start_time BETWEEN ? AND ?
		ORDER BY s.start_time, s.id LIMIT ?`, dbTime(from), dbTime(to), limit)
}

// ListForMovie returns the movie's sessions starting in [from, to] grouped
// by cinema name, then start time.
func (r *SessionRepo) ListForMovie(ctx context.Context, movieID uint64, from, to time.Time) ([]model.SessionListing, error) {
	return r.list(ctx, sessionListingSelect+` WHERE s.movie_id = ? AND s.start_time BETWEEN ? AND ?
		ORDER BY c.name, s.start_time, s.id`, movieID, dbTime(from), dbTime(to))
}

func (r *SessionRepo) list(ctx context.Context, q string, args ...any) ([]model.SessionListing, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SessionListing, 0)
	for rows.Next() {
		var l model.SessionListing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
