package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/queue"
	"github.com/iliyamo/kino/internal/repository"
)

// MovieInput is the movie form.  ReleaseDate is YYYY-MM-DD or empty.
type MovieInput struct {
	Title         string   `json:"title" validate:"required,max=200"`
	OriginalTitle string   `json:"original_title" validate:"max=200"`
	Description   string   `json:"description"`
	ReleaseDate   string   `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Duration      int      `json:"duration" validate:"required,min=1,max=1000"`
	Country       string   `json:"country" validate:"max=100"`
	AgeRating     string   `json:"age_rating" validate:"max=10"`
	Poster        string   `json:"poster" validate:"omitempty,poster"`
	GenreIDs      []uint64 `json:"genres" validate:"dive,gt=0"`
}

// MovieInputFrom returns the form values of a stored movie.
func MovieInputFrom(m *model.Movie) MovieInput {
	in := MovieInput{
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Description:   m.Description,
		Duration:      int(m.Duration),
		Country:       m.Country,
		AgeRating:     m.AgeRating,
		Poster:        m.Poster,
		GenreIDs:      make([]uint64, 0, len(m.Genres)),
	}
	if m.ReleaseDate != nil {
		in.ReleaseDate = m.ReleaseDate.String()
	}
	for _, g := range m.Genres {
		in.GenreIDs = append(in.GenreIDs, g.ID)
	}
	return in
}

// FormField describes one input of the movie form.
type FormField struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	MaxLength int    `json:"max_length,omitempty"`
	Min       int    `json:"min,omitempty"`
	Max       int    `json:"max,omitempty"`
}

// MovieForm lists the fields accepted by movie create and edit.
var MovieForm = []FormField{
	{Name: "title", Type: "text", Required: true, MaxLength: 200},
	{Name: "original_title", Type: "text", MaxLength: 200},
	{Name: "description", Type: "textarea"},
	{Name: "release_date", Type: "date"},
	{Name: "duration", Type: "number", Required: true, Min: 1, Max: 1000},
	{Name: "country", Type: "text", MaxLength: 100},
	{Name: "age_rating", Type: "text", MaxLength: 10},
	{Name: "poster", Type: "url"},
	{Name: "genres", Type: "multiselect"},
}

// MovieService validates and stores movies.  A failed validation writes
// nothing.
type MovieService struct {
	movies *repository.MovieRepo
	genres *repository.GenreRepo
	notifier
}

func NewMovieService(movies *repository.MovieRepo, genres *repository.GenreRepo, pub queue.Publisher) *MovieService {
	return &MovieService{movies: movies, genres: genres, notifier: newNotifier(pub)}
}

var _ CRUD[model.Movie, MovieInput] = (*MovieService)(nil)

// List returns all movies ordered by title.
func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) { return s.movies.ListAll(ctx) }

func (s *MovieService) Get(ctx context.Context, id uint64) (model.Movie, error) {
	m, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return model.Movie{}, err
	}
	return *m, nil
}

func (s *MovieService) Create(ctx context.Context, in MovieInput) (model.Movie, error) {
	m, err := s.clean(ctx, in)
	if err != nil {
		return model.Movie{}, err
	}
	if err := s.movies.Create(ctx, &m, in.GenreIDs); err != nil {
		return model.Movie{}, err
	}
	s.changed(ctx, EntityMovie, m.ID, queue.ActionCreated)
	return s.Get(ctx, m.ID)
}

func (s *MovieService) Update(ctx context.Context, id uint64, in MovieInput) (model.Movie, error) {
	m, err := s.clean(ctx, in)
	if err != nil {
		return model.Movie{}, err
	}
	m.ID = id
	if err := s.movies.Update(ctx, &m, in.GenreIDs); err != nil {
		return model.Movie{}, err
	}
	s.changed(ctx, EntityMovie, id, queue.ActionUpdated)
	return s.Get(ctx, id)
}

func (s *MovieService) Delete(ctx context.Context, id uint64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, EntityMovie, id, queue.ActionDeleted)
	return nil
}

func (s *MovieService) clean(ctx context.Context, in MovieInput) (model.Movie, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.OriginalTitle = strings.TrimSpace(in.OriginalTitle)
	in.Country = strings.TrimSpace(in.Country)
	in.AgeRating = strings.TrimSpace(in.AgeRating)
	in.Poster = strings.TrimSpace(in.Poster)
	in.ReleaseDate = strings.TrimSpace(in.ReleaseDate)

	ve := validateStruct(in)
	if len(in.GenreIDs) > 0 {
		missing, err := s.genres.MissingIDs(ctx, in.GenreIDs)
		if err != nil {
			return model.Movie{}, err
		}
		if len(missing) > 0 {
			ve.Add("genres", fmt.Sprintf("unknown genre id %d", missing[0]))
		}
	}
	if err := ve.Err(); err != nil {
		return model.Movie{}, err
	}

	m := model.Movie{
		Title:         in.Title,
		OriginalTitle: in.OriginalTitle,
		Description:   in.Description,
		Duration:      uint32(in.Duration),
		Country:       in.Country,
		AgeRating:     in.AgeRating,
		Poster:        in.Poster,
	}
	if in.ReleaseDate != "" {
		d, err := model.ParseDate(in.ReleaseDate)
		if err != nil {
			return model.Movie{}, FieldError("release_date", "enter a valid date in YYYY-MM-DD format")
		}
		m.ReleaseDate = &d
	}
	return m, nil
}
