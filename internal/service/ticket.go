package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/queue"
	"github.com/iliyamo/kino/internal/repository"
)

type TicketInput struct {
	SessionID  uint64  `json:"session_id" validate:"required"`
	SeatNumber uint32  `json:"seat_number" validate:"required,min=1"`
	UserID     *uint64 `json:"user_id"`
	IsPaid     bool    `json:"is_paid"`
}

// TicketService sells seats.  A seat must exist in the session's hall and
// can be sold once per session; a second sale yields repository.ErrConflict.
type TicketService struct {
	tickets  *repository.TicketRepo
	sessions *repository.SessionRepo
	users    *repository.UserRepo
	notifier
}

func NewTicketService(tickets *repository.TicketRepo, sessions *repository.SessionRepo, users *repository.UserRepo, pub queue.Publisher) *TicketService {
	return &TicketService{tickets: tickets, sessions: sessions, users: users, notifier: newNotifier(pub)}
}

var _ CRUD[model.Ticket, TicketInput] = (*TicketService)(nil)

func (s *TicketService) List(ctx context.Context) ([]model.Ticket, error) { return s.tickets.List(ctx) }

func (s *TicketService) Get(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return model.Ticket{}, err
	}
	return *t, nil
}

func (s *TicketService) Create(ctx context.Context, in TicketInput) (model.Ticket, error) {
	if err := s.clean(ctx, in); err != nil {
		return model.Ticket{}, err
	}
	t := model.Ticket{SessionID: in.SessionID, SeatNumber: in.SeatNumber, UserID: in.UserID, IsPaid: in.IsPaid}
	if err := s.tickets.Create(ctx, &t); err != nil {
		return model.Ticket{}, err
	}
	s.changed(ctx, EntityTicket, t.ID, queue.ActionCreated)
	return t, nil
}

func (s *TicketService) Update(ctx context.Context, id uint64, in TicketInput) (model.Ticket, error) {
	if err := s.clean(ctx, in); err != nil {
		return model.Ticket{}, err
	}
	t := model.Ticket{ID: id, SessionID: in.SessionID, SeatNumber: in.SeatNumber, UserID: in.UserID, IsPaid: in.IsPaid}
	if err := s.tickets.Update(ctx, &t); err != nil {
		return model.Ticket{}, err
	}
	s.changed(ctx, EntityTicket, id, queue.ActionUpdated)
	return t, nil
}

func (s *TicketService) Delete(ctx context.Context, id uint64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityTicket, id, queue.ActionDeleted)
	return nil
}

func (s *TicketService) clean(ctx context.Context, in TicketInput) error {
	ve := validateStruct(in)
	if in.SessionID != 0 {
		sess, err := s.sessions.GetByID(ctx, in.SessionID)
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			ve.Add("session_id", "select a valid session")
		case err != nil:
			return err
		case in.SeatNumber > sess.HallSeats:
			ve.Add("seat_number", fmt.Sprintf("seat must be between 1 and %d", sess.HallSeats))
		}
	}
	if in.UserID != nil {
		if _, err := s.users.GetByID(ctx, *in.UserID); err != nil {
			if !errors.Is(err, repository.ErrUserNotFound) {
				return err
			}
			ve.Add("user_id", "select a valid user")
		}
	}
	return ve.Err()
}
