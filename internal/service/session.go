package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/queue"
	"github.com/iliyamo/kino/internal/repository"
	"github.com/iliyamo/kino/internal/utils"
)

// SessionInput is the admin payload for a session.  CinemaID may be left
// zero; it is then taken from the hall.
type SessionInput struct {
	MovieID   uint64    `json:"movie_id" validate:"required"`
	HallID    uint64    `json:"hall_id" validate:"required"`
	CinemaID  uint64    `json:"cinema_id"`
	StartTime time.Time `json:"start_time" validate:"required"`
	Price     float64   `json:"price" validate:"gte=0"`
}

// SessionView is a session as shown in listings: joined names, price in
// currency units, occupancy and a safe poster URL.
type SessionView struct {
	model.SessionListing
	Price        float64 `json:"price"`
	OccupancyPct float64 `json:"occupancy_pct"`
	PosterURL    string  `json:"poster_url"`
}

// NewSessionView derives the display fields of l.  Occupancy is rounded to
// one decimal.
func NewSessionView(l model.SessionListing) SessionView {
	return SessionView{
		SessionListing: l,
		Price:          l.Price(),
		OccupancyPct:   math.Round(l.Occupancy()*1000) / 10,
		PosterURL:      utils.PosterURL(l.MoviePoster),
	}
}

func sessionViews(ls []model.SessionListing) []SessionView {
	out := make([]SessionView, len(ls))
	for i, l := range ls {
		out[i] = NewSessionView(l)
	}
	return out
}

// SessionService keeps a session's cinema consistent with its hall.
type SessionService struct {
	sessions *repository.SessionRepo
	halls    *repository.HallRepo
	movies   *repository.MovieRepo
	notifier
}

func NewSessionService(sessions *repository.SessionRepo, halls *repository.HallRepo, movies *repository.MovieRepo, pub queue.Publisher) *SessionService {
	return &SessionService{sessions: sessions, halls: halls, movies: movies, notifier: newNotifier(pub)}
}

var _ CRUD[SessionView, SessionInput] = (*SessionService)(nil)

// List returns all sessions, latest first, with ticket counts.
func (s *SessionService) List(ctx context.Context) ([]SessionView, error) {
	ls, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	return sessionViews(ls), nil
}

func (s *SessionService) Get(ctx context.Context, id uint64) (SessionView, error) {
	l, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return NewSessionView(*l), nil
}

func (s *SessionService) Create(ctx context.Context, in SessionInput) (SessionView, error) {
	sess, err := fromInput(in)
	if err != nil {
		return SessionView{}, err
	}
	if err := s.Save(ctx, &sess); err != nil {
		return SessionView{}, err
	}
	s.changed(ctx, EntitySession, sess.ID, queue.ActionCreated)
	return s.Get(ctx, sess.ID)
}

func (s *SessionService) Update(ctx context.Context, id uint64, in SessionInput) (SessionView, error) {
	sess, err := fromInput(in)
	if err != nil {
		return SessionView{}, err
	}
	sess.ID = id
	if err := s.Save(ctx, &sess); err != nil {
		return SessionView{}, err
	}
	s.changed(ctx, EntitySession, id, queue.ActionUpdated)
	return s.Get(ctx, id)
}

func (s *SessionService) Delete(ctx context.Context, id uint64) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntitySession, id, queue.ActionDeleted)
	return nil
}

// Save fills an unset cinema from the hall, runs Clean and persists the
// session (insert when ID is zero).
func (s *SessionService) Save(ctx context.Context, sess *model.Session) error {
	if sess.CinemaID == 0 && sess.HallID != 0 {
		h, err := s.halls.GetByID(ctx, sess.HallID)
		if err != nil && !errors.Is(err, repository.ErrHallNotFound) {
			return err
		}
		if h != nil {
			sess.CinemaID = h.CinemaID
		}
	}
	if err := s.Clean(ctx, sess); err != nil {
		return err
	}
	if sess.ID == 0 {
		return s.sessions.Create(ctx, sess)
	}
	return s.sessions.Update(ctx, sess)
}

// Clean checks references and rejects a hall that is not in the session's
// cinema with an error on the hall field.
func (s *SessionService) Clean(ctx context.Context, sess *model.Session) error {
	ve := &ValidationError{}

	ok, err := s.movies.Exists(ctx, sess.MovieID)
	if err != nil {
		return err
	}
	if !ok {
		ve.Add("movie", "select a valid movie")
	}

	h, err := s.halls.GetByID(ctx, sess.HallID)
	switch {
	case errors.Is(err, repository.ErrHallNotFound):
		ve.Add("hall", "select a valid hall")
	case err != nil:
		return err
	case sess.CinemaID != 0 && h.CinemaID != sess.CinemaID:
		ve.Add("hall", fmt.Sprintf("hall %q belongs to another cinema", h.Name))
	}
	if sess.CinemaID == 0 {
		ve.Add("cinema", "this field is required")
	}
	if sess.StartTime.IsZero() {
		ve.Add("start_time", "this field is required")
	}
	return ve.Err()
}

func fromInput(in SessionInput) (model.Session, error) {
	if err := validateStruct(in).Err(); err != nil {
		return model.Session{}, err
	}
	return model.Session{
		MovieID:    in.MovieID,
		HallID:     in.HallID,
		CinemaID:   in.CinemaID,
		StartTime:  in.StartTime.UTC(),
		PriceCents: uint64(math.Round(in.Price * 100)),
	}, nil
}
