package service

import (
	"context"
	"strings"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/queue"
	"github.com/iliyamo/kino/internal/repository"
)

type CinemaInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Address     string `json:"address" validate:"max=300"`
	Phone       string `json:"phone" validate:"max=20"`
	Description string `json:"description"`
}

// CinemaService manages cinemas.  Deleting a cinema removes its halls,
// sessions and tickets.
type CinemaService struct {
	repo *repository.CinemaRepo
	notifier
}

func NewCinemaService(repo *repository.CinemaRepo, pub queue.Publisher) *CinemaService {
	return &CinemaService{repo: repo, notifier: newNotifier(pub)}
}

var _ CRUD[model.Cinema, CinemaInput] = (*CinemaService)(nil)

func (s *CinemaService) List(ctx context.Context) ([]model.Cinema, error) { return s.repo.List(ctx) }

func (s *CinemaService) Get(ctx context.Context, id uint64) (model.Cinema, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Cinema{}, err
	}
	return *c, nil
}

func (s *CinemaService) Create(ctx context.Context, in CinemaInput) (model.Cinema, error) {
	c, err := s.build(in)
	if err != nil {
		return c, err
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return model.Cinema{}, err
	}
	s.changed(ctx, EntityCinema, c.ID, queue.ActionCreated)
	return c, nil
}

func (s *CinemaService) Update(ctx context.Context, id uint64, in CinemaInput) (model.Cinema, error) {
	c, err := s.build(in)
	if err != nil {
		return c, err
	}
	c.ID = id
	if err := s.repo.Update(ctx, &c); err != nil {
		return model.Cinema{}, err
	}
	s.changed(ctx, EntityCinema, id, queue.ActionUpdated)
	return c, nil
}

func (s *CinemaService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityCinema, id, queue.ActionDeleted)
	return nil
}

func (s *CinemaService) build(in CinemaInput) (model.Cinema, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(in).Err(); err != nil {
		return model.Cinema{}, err
	}
	return model.Cinema{Name: in.Name, Address: in.Address, Phone: in.Phone, Description: in.Description}, nil
}
