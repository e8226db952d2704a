package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/queue"
	"github.com/iliyamo/kino/internal/repository"
)

type GenreInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// GenreService manages genres.  Names are unique; a clash wraps
// repository.ErrConflict.
type GenreService struct {
	repo *repository.GenreRepo
	notifier
}

func NewGenreService(repo *repository.GenreRepo, pub queue.Publisher) *GenreService {
	return &GenreService{repo: repo, notifier: newNotifier(pub)}
}

var _ CRUD[model.Genre, GenreInput] = (*GenreService)(nil)

func (s *GenreService) List(ctx context.Context) ([]model.Genre, error) { return s.repo.List(ctx) }

func (s *GenreService) Get(ctx context.Context, id uint64) (model.Genre, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Genre{}, err
	}
	return *g, nil
}

func (s *GenreService) Create(ctx context.Context, in GenreInput) (model.Genre, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in).Err(); err != nil {
		return model.Genre{}, err
	}
	g := model.Genre{Name: in.Name}
	if err := s.repo.Create(ctx, &g); err != nil {
		return model.Genre{}, nameTaken(err, in.Name)
	}
	s.changed(ctx, EntityGenre, g.ID, queue.ActionCreated)
	return g, nil
}

func (s *GenreService) Update(ctx context.Context, id uint64, in GenreInput) (model.Genre, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in).Err(); err != nil {
		return model.Genre{}, err
	}
	g := model.Genre{ID: id, Name: in.Name}
	if err := s.repo.Update(ctx, &g); err != nil {
		return model.Genre{}, nameTaken(err, in.Name)
	}
	s.changed(ctx, EntityGenre, id, queue.ActionUpdated)
	return g, nil
}

func (s *GenreService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityGenre, id, queue.ActionDeleted)
	return nil
}

func nameTaken(err error, name string) error {
	if errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("genre %q already exists: %w", name, repository.ErrConflict)
	}
	return err
}
