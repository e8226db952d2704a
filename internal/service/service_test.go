package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/iliyamo/kino/internal/database/dbtest"
	"github.com/iliyamo/kino/internal/queue"
	"github.com/iliyamo/kino/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.CatalogChangedEvent
}

func (p *recordingPublisher) PublishCatalogChanged(_ context.Context, ev queue.CatalogChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Entity + ":" + e.Action
	}
	return out
}

type fixture struct {
	db   *sql.DB
	seed *dbtest.Seeder
	pub  *recordingPublisher

	movies   *repository.MovieRepo
	genres   *repository.GenreRepo
	cinemas  *repository.CinemaRepo
	halls    *repository.HallRepo
	sessions *repository.SessionRepo
	tickets  *repository.TicketRepo
	users    *repository.UserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	return &fixture{
		db:       db,
		seed:     dbtest.NewSeeder(t, db),
		pub:      &recordingPublisher{},
		movies:   repository.NewMovieRepo(db),
		genres:   repository.NewGenreRepo(db),
		cinemas:  repository.NewCinemaRepo(db),
		halls:    repository.NewHallRepo(db),
		sessions: repository.NewSessionRepo(db),
		tickets:  repository.NewTicketRepo(db),
		users:    repository.NewUserRepo(db),
	}
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := f.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
