package service

import (
	"context"
	"time"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/repository"
	"github.com/iliyamo/kino/internal/utils"
)

const (
	homeListLimit = 10
	similarLimit  = 8
	scheduleDays  = 7
)

// HomePage is the landing page aggregate.
type HomePage struct {
	UpcomingReleases []model.Movie        `json:"upcoming_releases"`
	PopularMovies    []model.PopularMovie `json:"popular_movies"`
	TodaysSessions   []SessionView        `json:"todays_sessions"`
}

// MovieDetail is a movie with its coming week of sessions.
type MovieDetail struct {
	Movie     model.Movie            `json:"movie"`
	PosterURL string                 `json:"poster_url"`
	Sessions  []SessionView          `json:"sessions"`
	Cinemas   []model.CinemaSessions `json:"cinemas"`
	Similar   []model.Movie          `json:"similar"`
}

// BrowseService builds the read-only public pages.  "Today" is the UTC
// calendar day of now.
type BrowseService struct {
	movies   *repository.MovieRepo
	sessions *repository.SessionRepo
}

func NewBrowseService(movies *repository.MovieRepo, sessions *repository.SessionRepo) *BrowseService {
	return &BrowseService{movies: movies, sessions: sessions}
}

func (s *BrowseService) Home(ctx context.Context, now time.Time) (*HomePage, error) {
	now = now.UTC()
	upcoming, err := s.movies.ListUpcomingReleases(ctx, model.NewDate(now), homeListLimit)
	if err != nil {
		return nil, err
	}
	popular, err := s.movies.ListPopular(ctx, now, now.Add(scheduleDays*24*time.Hour), homeListLimit)
	if err != nil {
		return nil, err
	}
	today, err := s.sessions.ListBetween(ctx, now, endOfDay(now), homeListLimit)
	if err != nil {
		return nil, err
	}
	return &HomePage{UpcomingReleases: upcoming, PopularMovies: popular, TodaysSessions: sessionViews(today)}, nil
}

// Detail returns repository.ErrMovieNotFound for an unknown id.
func (s *BrowseService) Detail(ctx context.Context, id uint64, now time.Time) (*MovieDetail, error) {
	now = now.UTC()
	m, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListForMovie(ctx, id, now, now.Add(scheduleDays*24*time.Hour))
	if err != nil {
		return nil, err
	}
	similar, err := s.movies.ListSimilar(ctx, id, similarLimit)
	if err != nil {
		return nil, err
	}
	return &MovieDetail{
		Movie:     *m,
		PosterURL: utils.PosterURL(m.Poster),
		Sessions:  sessionViews(sessions),
		Cinemas:   summarizeByCinema(sessions),
		Similar:   similar,
	}, nil
}

// summarizeByCinema groups sessions (already ordered by cinema name) into
// per-cinema totals and minimum price.
func summarizeByCinema(ls []model.SessionListing) []model.CinemaSessions {
	out := make([]model.CinemaSessions, 0)
	idx := make(map[uint64]int)
	for _, l := range ls {
		i, ok := idx[l.CinemaID]
		if !ok {
			idx[l.CinemaID] = len(out)
			out = append(out, model.CinemaSessions{CinemaID: l.CinemaID, CinemaName: l.CinemaName, MinPriceCents: l.PriceCents})
			i = len(out) - 1
		}
		out[i].Total++
		out[i].MinPriceCents = min(out[i].MinPriceCents, l.PriceCents)
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
