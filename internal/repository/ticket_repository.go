package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/kino/internal/model"
)

// TicketRepo reads and writes sold seats.  The (session_id, seat_number)
// unique key is the only guard against double sales; violations surface
// as ErrConflict.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = "id, session_id, seat_number, user_id, is_paid"

func scanTicket(s scanner, t *model.Ticket) error {
	return s.Scan(&t.ID, &t.SessionID, &t.SeatNumber, &t.UserID, &t.IsPaid)
}

func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tickets (session_id, seat_number, user_id, is_paid) VALUES (?, ?, ?, ?)",
		t.SessionID, t.SeatNumber, t.UserID, t.IsPaid)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

func (r *TicketRepo) Update(ctx context.Context, t *model.Ticket) error {
	ok, err := rowExists(ctx, r.db, "tickets", t.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTicketNotFound
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE tickets SET session_id = ?, seat_number = ?, user_id = ?, is_paid = ? WHERE id = ?",
		t.SessionID, t.SeatNumber, t.UserID, t.IsPaid, t.ID)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tickets WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOr(res, ErrTicketNotFound)
}

func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	var t model.Ticket
	if err := scanTicket(r.db.QueryRowContext(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE id = ?", id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all tickets, newest first.
func (r *TicketRepo) List(ctx context.Context) ([]model.Ticket, error) {
	return r.list(ctx, "SELECT "+ticketColumns+" FROM tickets ORDER BY id DESC")
}

// ListBySession returns the tickets of one session ordered by seat.
func (r *TicketRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
	return r.list(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE session_id = ? ORDER BY seat_number", sessionID)
}

func (r *TicketRepo) list(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
