package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/kino/internal/model"
)

// HallRepo provides methods to create, list and remove halls.  Listings
// join the parent cinema's name.
type HallRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallSelect = `SELECT h.id, h.cinema_id, h.name, h.seats, c.name
	FROM halls h JOIN cinemas c ON c.id = h.cinema_id`

func scanHall(s scanner, h *model.Hall) error {
	return s.Scan(&h.ID, &h.CinemaID, &h.Name, &h.Seats, &h.CinemaName)
}

// Create inserts a new hall.  The parent cinema must exist, otherwise
// ErrCinemaNotFound is returned and nothing is written.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	ok, err := rowExists(ctx, r.db, "cinemas", h.CinemaID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCinemaNotFound
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO halls (cinema_id, name, seats) VALUES (?, ?, ?)",
		h.CinemaID, h.Name, h.Seats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID retrieves a hall by its ID.  Returns ErrHallNotFound if no hall
// exists.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	var h model.Hall
	if err := scanHall(r.db.QueryRowContext(ctx, hallSelect+" WHERE h.id = ?", id), &h); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all halls ordered by cinema name, then hall name.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
	return r.list(ctx, hallSelect+" ORDER BY c.name, h.name, h.id")
}

// ListByCinema returns the halls of one cinema ordered by name.
func (r *HallRepo) ListByCinema(ctx context.Context, cinemaID uint64) ([]model.Hall, error) {
	return r.list(ctx, hallSelect+" WHERE h.cinema_id = ? ORDER BY h.name, h.id", cinemaID)
}

// Update changes name, seats and cinema of a hall.  Sessions already in the
// hall keep their cinema; callers that move a hall must reschedule them.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
	ok, err := rowExists(ctx, r.db, "halls", h.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrHallNotFound
	}
	ok, err = rowExists(ctx, r.db, "cinemas", h.CinemaID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCinemaNotFound
	}
	_, err = r.db.ExecContext(ctx, "UPDATE halls SET cinema_id = ?, name = ?, seats = ? WHERE id = ?",
		h.CinemaID, h.Name, h.Seats, h.ID)
	return err
}

// Delete removes a hall with its sessions and their tickets.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM tickets WHERE session_id IN (SELECT id FROM sessions WHERE hall_id = ?)", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE hall_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM halls WHERE id = ?", id)
		if err != nil {
			return err
		}
		return affectedOr(res, ErrHallNotFound)
	})
}

func (r *HallRepo) list(ctx context.Context, q string, args ...any) ([]model.Hall, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		if err := scanHall(rows, &h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
