package service

import (
	"context"

	"github.com/iliyamo/kino/internal/queue"
)

// CRUD is the admin surface of one catalog entity.  T is what reads
// return and In is the validated write payload.
type CRUD[T, In any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint64) (T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id uint64, in In) (T, error)
	Delete(ctx context.Context, id uint64) error
}

// Entity names used in catalog events.
const (
	EntityMovie   = "movie"
	EntityGenre   = "genre"
	EntityCinema  = "cinema"
	EntityHall    = "hall"
	EntitySession = "session"
	EntityTicket  = "ticket"
)

// notifier publishes catalog events after committed writes.  Publish
// failures are logged by the publisher and never fail the write.
type notifier struct {
	pub queue.Publisher
}

func newNotifier(pub queue.Publisher) notifier {
	if pub == nil {
		pub = queue.NoopPublisher{}
	}
	return notifier{pub: pub}
}

func (n notifier) changed(ctx context.Context, entity string, id uint64, action string) {
	_ = n.pub.PublishCatalogChanged(context.WithoutCancel(ctx), queue.NewCatalogChanged(entity, id, action))
}
