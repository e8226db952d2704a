package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/repository"
)

func TestSessionService_SaveFillsCinemaFromHall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cinema := f.seed.Cinema("Rex", "")
	hall := f.seed.Hall(cinema, "1", 100)
	movie := f.seed.Movie("Heat", "", "")
	svc := NewSessionService(f.sessions, f.halls, f.movies, f.pub)

	s := &model.Session{MovieID: movie, HallID: hall, StartTime: time.Now().Add(time.Hour), PriceCents: 900}
	require.NoError(t, svc.Save(ctx, s))
	assert.Equal(t, cinema, s.CinemaID)
	assert.NotZero(t, s.ID)

	stored, err := f.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, cinema, stored.CinemaID)
}

func TestSessionService_CleanRejectsHallFromAnotherCinema(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rex := f.seed.Cinema("Rex", "")
	odeon := f.seed.Cinema("Odeon", "")
	hall := f.seed.Hall(rex, "Big", 100)
	movie := f.seed.Movie("Heat", "", "")
	svc := NewSessionService(f.sessions, f.halls, f.movies, f.pub)

	err := svc.Save(ctx, &model.Session{MovieID: movie, HallID: hall, CinemaID: odeon, StartTime: time.Now()})
	ve, ok := AsValidation(err)
	require.True(t, ok, "%v", err)
	assert.Contains(t, ve.Fields, "hall")
	assert.Equal(t, 0, f.count(t, "sessions"))
}

func TestSessionService_CreateFromInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	hall := f.seed.Hall(f.seed.Cinema("Rex", ""), "1", 8)
	movie := f.seed.Movie("Heat", "", "")
	svc := NewSessionService(f.sessions, f.halls, f.movies, f.pub)

	start := time.Date(2031, 3, 1, 20, 0, 0, 0, time.UTC)
	view, err := svc.Create(ctx, SessionInput{MovieID: movie, HallID: hall, StartTime: start, Price: 12.5})
	require.NoError(t, err)
	assert.EqualValues(t, 1250, view.PriceCents)
	assert.InDelta(t, 12.5, view.Price, 1e-9)
	assert.Equal(t, "/static/img/no-poster.png", view.PosterURL)
	assert.Equal(t, []string{"session:created"}, f.pub.actions())

	f.seed.Ticket(view.ID, 1)
	f.seed.Ticket(view.ID, 2)
	f.seed.Ticket(view.ID, 3)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 3, list[0].TicketCount)
	assert.InDelta(t, 37.5, list[0].OccupancyPct, 1e-9)

	_, err = svc.Create(ctx, SessionInput{MovieID: 999, HallID: hall, StartTime: start})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "movie")

	_, err = svc.Create(ctx, SessionInput{MovieID: movie, HallID: hall, Price: -1})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "start_time")
	assert.Contains(t, ve.Fields, "price")

	require.NoError(t, svc.Delete(ctx, view.ID))
	_, err = svc.Get(ctx, view.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestNewSessionViewRoundsOccupancy(t *testing.T) {
	v := NewSessionView(model.SessionListing{HallSeats: 3, TicketCount: 1, MoviePoster: "https://x.example/p.jpg"})
	assert.InDelta(t, 33.3, v.OccupancyPct, 1e-9)
	assert.Equal(t, "https://x.example/p.jpg", v.PosterURL)
}
