package view

import (
	"context"
	"log/slog"

	"github.com/jaekwang-park/todo-app/internal/events"
	"github.com/jaekwang-park/todo-app/internal/model"
)

// Lister fetches the confirmed list. Both the service and the HTTP client satisfy it.
type Lister interface {
	GetTodos(ctx context.Context) ([]model.Todo, error)
}

// Loop re-runs the list whenever a mutation resolves and republishes the
// resulting snapshot to its subscribers.
type Loop struct {
	store       *Store
	lister      Lister
	feed        <-chan events.Mutation
	unsubscribe func()
	changed     *events.Signal
	logger      *slog.Logger
}

// NewLoop subscribes to broker immediately so no mutation published before Run
// starts is missed. Run must be called to drain the subscription.
func NewLoop(store *Store, lister Lister, broker *events.Broker, logger *slog.Logger) *Loop {
	feed, unsubscribe := broker.Subscribe()
	return &Loop{
		store:       store,
		lister:      lister,
		feed:        feed,
		unsubscribe: unsubscribe,
		changed:     events.NewSignal(),
		logger:      logger,
	}
}

func (l *Loop) Store() *Store {
	return l.store
}

// Subscribe notifies on every snapshot change. Notifications coalesce; read
// Store().Snapshot() after each one.
func (l *Loop) Subscribe() (<-chan struct{}, func()) {
	return l.changed.Subscribe()
}

// Refresh fetches the list keyed on the current versions and installs it.
func (l *Loop) Refresh(ctx context.Context) {
	v := l.store.Versions()
	todos, err := l.lister.GetTodos(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "list refresh failed", "error", err, "add_version", v.Add, "delete_version", v.Delete)
	}
	if l.store.Apply(v, todos, err) {
		l.changed.Notify()
	}
}

// Run loads the initial list, then follows mutations until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer l.unsubscribe()

	l.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-l.feed:
			refetch := l.store.Observe(m)
			// fold whatever else is queued into one fetch
		drain:
			for {
				select {
				case next := <-l.feed:
					if l.store.Observe(next) {
						refetch = true
					}
				default:
					break drain
				}
			}
			if refetch {
				l.Refresh(ctx)
			} else {
				l.changed.Notify()
			}
		}
	}
}
