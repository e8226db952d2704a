package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/kino/internal/logging"
	"github.com/iliyamo/kino/internal/metrics"
	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/search"
	"github.com/iliyamo/kino/internal/utils"
)

// ErrEmptyQuery is returned for a blank search query.
var ErrEmptyQuery = errors.New("empty search query")

// DefaultCinemaLimit caps the cinemas returned next to the movie page.
const DefaultCinemaLimit = 10

// MovieSource is what search needs from movie storage.
type MovieSource interface {
	SearchCandidates(ctx context.Context) ([]search.Candidate, error)
	SearchIDs(ctx context.Context, terms []string) ([]uint64, error)
	ListHitsByIDs(ctx context.Context, ids []uint64, now time.Time) ([]model.MovieHit, error)
}

// CinemaSource is what search needs from cinema storage.
type CinemaSource interface {
	SearchCandidates(ctx context.Context) ([]search.Candidate, error)
	SearchIDs(ctx context.Context, terms []string) ([]uint64, error)
	ListByIDs(ctx context.Context, ids []uint64, limit int) ([]model.Cinema, error)
}

// MovieResult is a ranked search hit.
type MovieResult struct {
	model.MovieHit
	PosterURL string `json:"poster_url"`
}

// SearchResult is one page of movie hits plus the leading cinemas.
type SearchResult struct {
	Query        string                   `json:"q"`
	Page         search.Page[MovieResult] `json:"page"`
	Cinemas      []model.Cinema           `json:"cinemas"`
	TotalMovies  int                      `json:"total_movies"`
	TotalCinemas int                      `json:"total_cinemas"`
	Strategy     search.Strategy          `json:"strategy"`
}

// SearchService runs multi-term search over movie titles and cinema venues.
type SearchService struct {
	movies      MovieSource
	cinemas     CinemaSource
	strategy    search.Strategy
	pageSize    int
	cinemaLimit int
}

// NewSearchService fixes the matching strategy for the lifetime of the
// service.  Non-positive sizes fall back to the defaults.
func NewSearchService(movies MovieSource, cinemas CinemaSource, strategy search.Strategy, pageSize, cinemaLimit int) *SearchService {
	if pageSize < 1 {
		pageSize = search.DefaultPageSize
	}
	if cinemaLimit < 1 {
		cinemaLimit = DefaultCinemaLimit
	}
	return &SearchService{movies: movies, cinemas: cinemas, strategy: strategy, pageSize: pageSize, cinemaLimit: cinemaLimit}
}

// Strategy reports the matching strategy in use.
func (s *SearchService) Strategy() search.Strategy { return s.strategy }

// Search matches q against movies (title, original title) and cinemas
// (name, address).  Every whitespace-separated term must occur, case
// insensitively, in at least one field.  Movies are ranked by upcoming
// sessions at now, then title.
func (s *SearchService) Search(ctx context.Context, q, rawPage string, now time.Time) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	terms := search.Terms(q)
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}
	start := time.Now()
	strategy := string(s.strategy)

	movieIDs, err := s.match(ctx, s.movies.SearchCandidates, s.movies.SearchIDs, terms)
	if err != nil {
		return nil, err
	}
	hits, err := s.movies.ListHitsByIDs(ctx, movieIDs, now.UTC())
	if err != nil {
		return nil, err
	}
	search.Rank(hits, func(h model.MovieHit) search.RankKey {
		return search.RankKey{Upcoming: h.UpcomingSessions, Title: h.Title, ID: h.ID}
	})
	results := make([]MovieResult, len(hits))
	for i, h := range hits {
		results[i] = MovieResult{MovieHit: h, PosterURL: utils.PosterURL(h.Poster)}
	}

	cinemaIDs, err := s.match(ctx, s.cinemas.SearchCandidates, s.cinemas.SearchIDs, terms)
	if err != nil {
		return nil, err
	}
	cinemas, err := s.cinemas.ListByIDs(ctx, cinemaIDs, s.cinemaLimit)
	if err != nil {
		return nil, err
	}

	metrics.SearchRequests.WithLabelValues(strategy).Inc()
	metrics.SearchDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	metrics.SearchMovieHits.Observe(float64(len(results)))
	logging.Debug().Str("q", q).Int("terms", len(terms)).Int("movies", len(results)).
		Int("cinemas", len(cinemaIDs)).Str("strategy", strategy).Msg("search")

	return &SearchResult{
		Query:        q,
		Page:         search.Paginate(results, rawPage, s.pageSize),
		Cinemas:      cinemas,
		TotalMovies:  len(results),
		TotalCinemas: len(cinemaIDs),
		Strategy:     s.strategy,
	}, nil
}

func (s *SearchService) match(
	ctx context.Context,
	candidates func(context.Context) ([]search.Candidate, error),
	native func(context.Context, []string) ([]uint64, error),
	terms []string,
) ([]uint64, error) {
	if s.strategy == search.StrategyNative {
		return native(ctx, terms)
	}
	cs, err := candidates(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(cs, terms), nil
}
