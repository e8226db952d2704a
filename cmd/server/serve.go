package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/iliyamo/kino/internal/config"
	"github.com/iliyamo/kino/internal/database"
	"github.com/iliyamo/kino/internal/handler"
	"github.com/iliyamo/kino/internal/logging"
	"github.com/iliyamo/kino/internal/metrics"
	"github.com/iliyamo/kino/internal/middleware"
	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/queue"
	"github.com/iliyamo/kino/internal/repository"
	"github.com/iliyamo/kino/internal/router"
	"github.com/iliyamo/kino/internal/search"
	"github.com/iliyamo/kino/internal/service"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, _ *cli.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, dialect, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.DBAutoMigrate {
		applied, err := database.Migrate(ctx, db, dialect)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if len(applied) > 0 {
			logging.Info().Ints("applied", applied).Msg("migrations applied")
		}
	}

	// Redis is optional: cache and rate limit become pass-through without it.
	cacheCfg := config.LoadCacheConfig()
	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		logging.Warn().Err(err).Msg("redis unavailable; cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	var pub queue.Publisher = queue.NoopPublisher{}
	if cfg.Broker.Enabled {
		amqpPub := queue.NewAMQPPublisher(cfg.Broker.URL)
		defer amqpPub.Close()
		pub = amqpPub
		if rdb != nil {
			go queue.StartCatalogConsumer(ctx, cfg.Broker.URL, purgeOnChange(rdb, cacheCfg.Prefix))
		}
	}

	strategy := search.ChooseStrategy(cfg.Search.Strategy, dialect.FoldsUnicode())
	e := newEcho(cfg, db, strategy, pub, router.Options{
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.NewRedisCache(cacheCfg, rdb),
		Limit:     middleware.NewTokenBucket(config.LoadRateLimitConfig(""), rdb),
		AuthLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig("AUTH"), rdb),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Str("db", string(dialect)).
			Str("search_strategy", string(strategy)).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logging.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

// purgeOnChange drops every cached public page after a catalog write.
func purgeOnChange(rdb *redis.Client, prefix string) queue.Handler {
	return func(ctx context.Context, ev queue.CatalogChangedEvent) error {
		n, err := middleware.PurgeCache(ctx, rdb, prefix)
		if err != nil {
			return err
		}
		logging.Debug().Str("entity", ev.Entity).Uint64("id", ev.ID).Str("action", ev.Action).
			Int64("purged", n).Msg("cache purged")
		return nil
	}
}

func newEcho(cfg config.Config, db *sql.DB, strategy search.Strategy, pub queue.Publisher, opt router.Options) *echo.Echo {
	movies := repository.NewMovieRepo(db)
	genres := repository.NewGenreRepo(db)
	cinemas := repository.NewCinemaRepo(db)
	halls := repository.NewHallRepo(db)
	sessions := repository.NewSessionRepo(db)
	tickets := repository.NewTicketRepo(db)
	users := repository.NewUserRepo(db)

	movieSvc := service.NewMovieService(movies, genres, pub)
	genreSvc := service.NewGenreService(genres, pub)
	searchSvc := service.NewSearchService(movies, cinemas, strategy, cfg.Search.PageSize, cfg.Search.CinemaLimit)

	h := router.Handlers{
		Health:    handler.NewHealthHandler(db),
		Public:    handler.NewPublicHandler(service.NewBrowseService(movies, sessions), movieSvc, searchSvc),
		Auth:      handler.NewAuthHandler(cfg, users, repository.NewTokenRepo(db)),
		Movies:    handler.NewMovieHandler(movieSvc, genreSvc),
		Favorites: handler.NewFavoriteHandler(repository.NewFavoriteRepo(db)),
		Admin: router.Admin{
			Genres:   handler.NewAdminHandler[model.Genre, service.GenreInput](genreSvc),
			Cinemas:  handler.NewAdminHandler[model.Cinema, service.CinemaInput](service.NewCinemaService(cinemas, pub)),
			Halls:    handler.NewAdminHandler[model.Hall, service.HallInput](service.NewHallService(halls, pub)),
			Sessions: handler.NewAdminHandler[service.SessionView, service.SessionInput](service.NewSessionService(sessions, halls, movies, pub)),
			Tickets:  handler.NewAdminHandler[model.Ticket, service.TicketInput](service.NewTicketService(tickets, sessions, users, pub)),
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(logging.RequestLogger())
	e.Use(metrics.Middleware())
	router.Register(e, h, opt)
	return e
}
