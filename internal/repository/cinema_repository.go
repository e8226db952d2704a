// Package repository contains data access logic separated from HTTP handlers.
// This file defines the repository methods for cinemas: CRUD, the cascading
// delete through halls and sessions, and the queries behind cinema search.
package repository

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"slices"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/search"
)

// CinemaRepo encapsulates all database queries related to cinemas.  It
// depends on a sql.DB connection which should be configured elsewhere.
type CinemaRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

const cinemaColumns = "id, name, address, phone, description"

func scanCinema(s scanner, c *model.Cinema) error {
	return s.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Description)
}

// Create inserts a new cinema.  On success the cinema's ID field will be
// populated with the auto-generated value.
func (r *CinemaRepo) Create(ctx context.Context, c *model.Cinema) error {
	const q = "INSERT INTO cinemas (name, address, phone, description) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Address, c.Phone, c.Description)
	if err != nil {
		return err // propagate DB errors to the caller
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a cinema by its ID.  It returns ErrCinemaNotFound if no
// row is found.
func (r *CinemaRepo) GetByID(ctx context.Context, id uint64) (*model.Cinema, error) {
	var c model.Cinema
	if err := scanCinema(r.db.QueryRowContext(ctx, "SELECT "+cinemaColumns+" FROM cinemas WHERE id = ?", id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCinemaNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all cinemas ordered by name.
func (r *CinemaRepo) List(ctx context.Context) ([]model.Cinema, error) {
	return r.list(ctx, "SELECT "+cinemaColumns+" FROM cinemas ORDER BY name, id")
}

// ListByIDs returns the cinemas in ids ordered by name, at most limit of
// them (limit <= 0 means all).
func (r *CinemaRepo) ListByIDs(ctx context.Context, ids []uint64, limit int) ([]model.Cinema, error) {
	out := make([]model.Cinema, 0)
	if len(ids) == 0 {
		return out, nil
	}
	for _, part := range chunk(ids, 500) {
		got, err := r.list(ctx, "SELECT "+cinemaColumns+" FROM cinemas WHERE id IN ("+placeholders(len(part))+")", idArgs(part)...)
		if err != nil {
			return nil, err
		}
		out = append(out, got...)
	}
	sortCinemas(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Update overwrites the cinema's editable fields.  It returns
// ErrCinemaNotFound when the row does not exist.
func (r *CinemaRepo) Update(ctx context.Context, c *model.Cinema) error {
	ok, err := rowExists(ctx, r.db, "cinemas", c.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCinemaNotFound
	}
	const q = "UPDATE cinemas SET name = ?, address = ?, phone = ?, description = ? WHERE id = ?"
	_, err = r.db.ExecContext(ctx, q, c.Name, c.Address, c.Phone, c.Description, c.ID)
	return err
}

// Delete removes a cinema and everything scheduled in it.  The statements
// run in one transaction so a failure leaves the catalog untouched.
func (r *CinemaRepo) Delete(ctx context.Context, id uint64) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		const sessionsOfCinema = "SELECT id FROM sessions WHERE cinema_id = ? OR hall_id IN (SELECT id FROM halls WHERE cinema_id = ?)"
		if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE session_id IN ("+sessionsOfCinema+")", id, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE cinema_id = ? OR hall_id IN (SELECT id FROM halls WHERE cinema_id = ?)", id, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM halls WHERE cinema_id = ?", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM cinemas WHERE id = ?", id)
		if err != nil {
			return err
		}
		return affectedOr(res, ErrCinemaNotFound)
	})
}

// SearchCandidates loads the searchable projection (name, address) of every
// cinema.
func (r *CinemaRepo) SearchCandidates(ctx context.Context) ([]search.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, address FROM cinemas")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]search.Candidate, 0)
	for rows.Next() {
		var (
			id            uint64
			name, address string
		)
		if err := rows.Scan(&id, &name, &address); err != nil {
			return nil, err
		}
		out = append(out, search.Candidate{ID: id, Fields: []string{name, address}})
	}
	return out, rows.Err()
}

// SearchIDs evaluates the term conjunction over name and address in the
// database.
func (r *CinemaRepo) SearchIDs(ctx context.Context, terms []string) ([]uint64, error) {
	cond, args := termConditions(terms, "name", "address")
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM cinemas WHERE "+cond, args...)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (r *CinemaRepo) list(ctx context.Context, q string, args ...any) ([]model.Cinema, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Cinema, 0)
	for rows.Next() {
		var c model.Cinema
		if err := scanCinema(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// sortCinemas orders by name then id, byte-wise, so results do not depend
// on the engine's collation.
func sortCinemas(cs []model.Cinema) {
	slices.SortFunc(cs, func(a, b model.Cinema) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
