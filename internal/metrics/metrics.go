// Package metrics holds the Prometheus collectors of the service.  They are
// registered on the default registry at init and exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kino_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kino_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Search
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kino_search_requests_total",
			Help: "Search requests by matching strategy",
		},
		[]string{"strategy"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kino_search_duration_seconds",
			Help:    "Time spent matching, ranking and paginating a search",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"strategy"},
	)

	SearchMovieHits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kino_search_movie_hits",
			Help:    "Number of movies matched per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
		},
	)

	// Response cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kino_cache_lookups_total",
			Help: "Response cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	CachePurgedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kino_cache_purged_keys_total",
			Help: "Cached responses removed after catalog changes",
		},
	)

	// Rate limiting
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kino_rate_limited_total",
			Help: "Requests rejected by the token bucket",
		},
		[]string{"prefix"},
	)

	// Catalog events
	CatalogEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kino_catalog_events_total",
			Help: "catalog.changed events by direction (published, consumed, failed)",
		},
		[]string{"direction", "entity"},
	)
)

// Middleware records request count and latency per registered route.
// The route template is used instead of the raw path to bound cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
