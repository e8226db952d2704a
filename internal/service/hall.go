package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/queue"
	"github.com/iliyamo/kino/internal/repository"
)

type HallInput struct {
	CinemaID uint64 `json:"cinema_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
	Seats    uint32 `json:"seats" validate:"required,min=1"`
}

// HallService manages halls.  Listing is ordered by cinema, then hall
// name.
type HallService struct {
	repo *repository.HallRepo
	notifier
}

func NewHallService(repo *repository.HallRepo, pub queue.Publisher) *HallService {
	return &HallService{repo: repo, notifier: newNotifier(pub)}
}

var _ CRUD[model.Hall, HallInput] = (*HallService)(nil)

func (s *HallService) List(ctx context.Context) ([]model.Hall, error) { return s.repo.List(ctx) }

func (s *HallService) Get(ctx context.Context, id uint64) (model.Hall, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Hall{}, err
	}
	return *h, nil
}

func (s *HallService) Create(ctx context.Context, in HallInput) (model.Hall, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in).Err(); err != nil {
		return model.Hall{}, err
	}
	h := model.Hall{CinemaID: in.CinemaID, Name: in.Name, Seats: in.Seats}
	if err := s.repo.Create(ctx, &h); err != nil {
		return model.Hall{}, unknownCinema(err)
	}
	s.changed(ctx, EntityHall, h.ID, queue.ActionCreated)
	return s.Get(ctx, h.ID)
}

func (s *HallService) Update(ctx context.Context, id uint64, in HallInput) (model.Hall, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in).Err(); err != nil {
		return model.Hall{}, err
	}
	h := model.Hall{ID: id, CinemaID: in.CinemaID, Name: in.Name, Seats: in.Seats}
	if err := s.repo.Update(ctx, &h); err != nil {
		return model.Hall{}, unknownCinema(err)
	}
	s.changed(ctx, EntityHall, id, queue.ActionUpdated)
	return s.Get(ctx, id)
}

func (s *HallService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityHall, id, queue.ActionDeleted)
	return nil
}

func unknownCinema(err error) error {
	if errors.Is(err, repository.ErrCinemaNotFound) {
		return FieldError("cinema_id", "select a valid cinema")
	}
	return err
}
