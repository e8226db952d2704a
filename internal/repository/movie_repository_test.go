package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/kino/internal/database/dbtest"
	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/search"
)

func TestMovieRepo_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	drama, scifi := seed.Genre("Drama"), seed.Genre("Sci-Fi")
	repo := NewMovieRepo(db)

	rd, err := model.ParseDate("1999-03-31")
	require.NoError(t, err)
	m := &model.Movie{Title: "The Matrix", Duration: 136, ReleaseDate: &rd, AgeRating: "16+"}
	require.NoError(t, repo.Create(ctx, m, []uint64{scifi, drama, scifi}))
	require.NotZero(t, m.ID)

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.Title)
	require.NotNil(t, got.ReleaseDate)
	assert.Equal(t, "1999-03-31", got.ReleaseDate.String())
	require.Len(t, got.Genres, 2)
	assert.Equal(t, "Drama", got.Genres[0].Name)

	got.Title = "The Matrix (1999)"
	got.ReleaseDate = nil
	require.NoError(t, repo.Update(ctx, got, []uint64{drama}))
	again, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix (1999)", again.Title)
	assert.Nil(t, again.ReleaseDate)
	require.Len(t, again.Genres, 1)

	got.ID = 9999
	assert.ErrorIs(t, repo.Update(ctx, got, nil), ErrMovieNotFound)
	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestMovieRepo_CreateUnknownGenreSavesNothing(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewMovieRepo(db)

	err := repo.Create(ctx, &model.Movie{Title: "Ghost", Duration: 90}, []uint64{42})
	require.ErrorIs(t, err, ErrGenreNotFound)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMovieRepo_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	movie := seed.Movie("Heat", "", "")
	hall := seed.Hall(seed.Cinema("Rex", "Main st"), "1", 10)
	session := seed.Session(movie, hall, time.Now().Add(time.Hour), 500)
	seed.Ticket(session, 1)
	user := seed.User("ann", model.RoleUser)
	_, _, err := NewFavoriteRepo(db).Add(ctx, user, movie, time.Now())
	require.NoError(t, err)

	repo := NewMovieRepo(db)
	require.NoError(t, repo.Delete(ctx, movie))
	assert.ErrorIs(t, repo.Delete(ctx, movie), ErrMovieNotFound)

	for _, table := range []string{"sessions", "tickets", "favorites"} {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}

func TestMovieRepo_SearchStrategiesAgreeOnASCII(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	seed.Movie("The Matrix", "", "")
	seed.Movie("Matrix Reloaded", "", "")
	seed.Movie("Heat", "Matrix of Crime", "")
	seed.Movie("100% Pure", "", "")
	seed.Movie("snake_case", "", "")
	repo := NewMovieRepo(db)

	candidates, err := repo.SearchCandidates(ctx)
	require.NoError(t, err)

	for _, q := range []string{"matrix", "MATRIX the", "crime", "100%", "e_c", "%", "_", "nothing", "!"} {
		terms := search.Terms(q)
		native, err := repo.SearchIDs(ctx, terms)
		require.NoError(t, err)
		memory := search.Filter(candidates, terms)
		assert.ElementsMatch(t, memory, native, "query %q", q)
	}
}

func TestMovieRepo_ListHitsByIDsCountsUpcoming(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	hall := seed.Hall(seed.Cinema("Rex", ""), "1", 10)
	a := seed.Movie("A", "", "")
	b := seed.Movie("B", "", "")
	seed.Session(a, hall, now.Add(time.Hour), 100)
	seed.Session(a, hall, now.Add(2*time.Hour), 100)
	seed.Session(a, hall, now.Add(-time.Hour), 100)
	seed.Session(b, hall, now, 100)

	hits, err := NewMovieRepo(db).ListHitsByIDs(ctx, []uint64{a, b}, now)
	require.NoError(t, err)
	counts := map[uint64]int64{}
	for _, h := range hits {
		counts[h.ID] = h.UpcomingSessions
	}
	assert.Equal(t, map[uint64]int64{a: 2, b: 1}, counts)
}

func TestMovieRepo_HomeQueries(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	now := time.Date(2030, 5, 10, 9, 0, 0, 0, time.UTC)
	g := seed.Genre("Drama")
	other := seed.Genre("Comedy")
	hall := seed.Hall(seed.Cinema("Rex", ""), "1", 10)

	past := seed.Movie("Past", "", "2030-05-01", g)
	soon := seed.Movie("Soon", "", "2030-05-20", g)
	today := seed.Movie("Today", "", "2030-05-10", other)
	undated := seed.Movie("Undated", "", "", g)

	repo := NewMovieRepo(db)
	upcoming, err := repo.ListUpcomingReleases(ctx, model.NewDate(now), 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, []uint64{today, soon}, []uint64{upcoming[0].ID, upcoming[1].ID})

	similar, err := repo.ListSimilar(ctx, past, 8)
	require.NoError(t, err)
	require.Len(t, similar, 2)
	assert.Equal(t, soon, similar[0].ID)
	assert.Equal(t, undated, similar[1].ID)

	s1 := seed.Session(soon, hall, now.Add(24*time.Hour), 1000)
	seed.Session(soon, hall, now.Add(48*time.Hour), 2000)
	s3 := seed.Session(past, hall, now.Add(24*time.Hour), 800)
	seed.Session(today, hall, now.Add(10*24*time.Hour), 800)
	seed.Ticket(s1, 1)
	seed.Ticket(s1, 2)
	seed.Ticket(s3, 1)

	popular, err := repo.ListPopular(ctx, now, now.Add(7*24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, soon, popular[0].ID)
	assert.EqualValues(t, 2, popular[0].Sold)
	assert.InDelta(t, 15.0, popular[0].AvgPrice, 1e-9)
	assert.Equal(t, past, popular[1].ID)
}
