package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/kino/internal/repository"
)

func TestMovieService_CreateValid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	scifi := f.seed.Genre("Sci-Fi")
	svc := NewMovieService(f.movies, f.genres, f.pub)

	m, err := svc.Create(ctx, MovieInput{
		Title:       "  The Matrix ",
		ReleaseDate: "1999-03-31",
		Duration:    136,
		Poster:      "https://img.example.com/matrix.jpg",
		GenreIDs:    []uint64{scifi},
	})
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", m.Title)
	require.NotNil(t, m.ReleaseDate)
	assert.Equal(t, "1999-03-31", m.ReleaseDate.String())
	require.Len(t, m.Genres, 1)
	assert.Equal(t, []string{"movie:created"}, f.pub.actions())

	in := MovieInputFrom(&m)
	assert.Equal(t, []uint64{scifi}, in.GenreIDs)
	in.Title = "The Matrix (1999)"
	updated, err := svc.Update(ctx, m.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix (1999)", updated.Title)

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.ErrorIs(t, svc.Delete(ctx, m.ID), repository.ErrMovieNotFound)
	assert.Equal(t, []string{"movie:created", "movie:updated", "movie:deleted"}, f.pub.actions())
}

func TestMovieService_InvalidInputSavesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewMovieService(f.movies, f.genres, f.pub)

	tests := []struct {
		name  string
		in    MovieInput
		field string
	}{
		{"blank title", MovieInput{Title: "   ", Duration: 90}, "title"},
		{"long title", MovieInput{Title: strings.Repeat("x", 201), Duration: 90}, "title"},
		{"zero duration", MovieInput{Title: "A"}, "duration"},
		{"huge duration", MovieInput{Title: "A", Duration: 1001}, "duration"},
		{"bad date", MovieInput{Title: "A", Duration: 90, ReleaseDate: "31.03.1999"}, "release_date"},
		{"bad poster", MovieInput{Title: "A", Duration: 90, Poster: "javascript:alert(1)"}, "poster"},
		{"long rating", MovieInput{Title: "A", Duration: 90, AgeRating: "eighteen plus"}, "age_rating"},
		{"unknown genre", MovieInput{Title: "A", Duration: 90, GenreIDs: []uint64{12}}, "genres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			ve, ok := AsValidation(err)
			require.True(t, ok, "%v", err)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
	assert.Equal(t, 0, f.count(t, "movies"))
	assert.Empty(t, f.pub.actions())
}

func TestMovieService_UpdateUnknown(t *testing.T) {
	f := newFixture(t)
	svc := NewMovieService(f.movies, f.genres, f.pub)
	_, err := svc.Update(context.Background(), 404, MovieInput{Title: "A", Duration: 10})
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
}
