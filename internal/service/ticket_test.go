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

func TestTicketService_SeatSoldOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	hall := f.seed.Hall(f.seed.Cinema("Rex", ""), "1", 5)
	session := f.seed.Session(f.seed.Movie("Heat", "", ""), hall, time.Now().Add(time.Hour), 500)
	svc := NewTicketService(f.tickets, f.sessions, f.users, f.pub)

	_, err := svc.Create(ctx, TicketInput{SessionID: session, SeatNumber: 4})
	require.NoError(t, err)
	_, err = svc.Create(ctx, TicketInput{SessionID: session, SeatNumber: 4})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, 1, f.count(t, "tickets"))
}

func TestTicketService_SeatMustExistInHall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	hall := f.seed.Hall(f.seed.Cinema("Rex", ""), "1", 5)
	session := f.seed.Session(f.seed.Movie("Heat", "", ""), hall, time.Now(), 500)
	svc := NewTicketService(f.tickets, f.sessions, f.users, f.pub)

	_, err := svc.Create(ctx, TicketInput{SessionID: session, SeatNumber: 6})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "seat_number")

	_, err = svc.Create(ctx, TicketInput{SessionID: session, SeatNumber: 0})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "seat_number")

	_, err = svc.Create(ctx, TicketInput{SessionID: 404, SeatNumber: 1})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "session_id")

	ghost := uint64(77)
	_, err = svc.Create(ctx, TicketInput{SessionID: session, SeatNumber: 1, UserID: &ghost})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "user_id")

	user := f.seed.User("ann", model.RoleUser)
	tk, err := svc.Create(ctx, TicketInput{SessionID: session, SeatNumber: 5, UserID: &user, IsPaid: true})
	require.NoError(t, err)
	got, err := svc.Get(ctx, tk.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UserID)
	assert.Equal(t, user, *got.UserID)
	assert.True(t, got.IsPaid)
}
