package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/todo-app/internal/events"
	"github.com/jaekwang-park/todo-app/internal/model"
	"github.com/jaekwang-park/todo-app/internal/repository"
)

// DefaultAddDelay is the artificial latency AddTodo injects before persisting.
const DefaultAddDelay = 1250 * time.Millisecond

type Option func(*TodoService)

// WithAddDelay overrides DefaultAddDelay. Zero disables the delay.
func WithAddDelay(d time.Duration) Option {
	return func(s *TodoService) { s.addDelay = d }
}

// WithPublisher announces every add and delete submission to pub.
func WithPublisher(pub events.Publisher) Option {
	return func(s *TodoService) { s.pub = pub }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *TodoService) { s.logger = logger }
}

// TodoService implements the GetTodos, AddTodo and DeleteTodo remote operations.
type TodoService struct {
	gw       repository.Gateway
	pub      events.Publisher
	addDelay time.Duration
	sleep    func(time.Duration)
	logger   *slog.Logger
}

func NewTodoService(gw repository.Gateway, opts ...Option) *TodoService {
	s := &TodoService{
		gw:       gw,
		addDelay: DefaultAddDelay,
		sleep:    time.Sleep,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TodoService) db() (repository.Gateway, error) {
	if s.gw == nil {
		return nil, serverError(ErrDatabaseMissing)
	}
	return s.gw, nil
}

func (s *TodoService) GetTodos(ctx context.Context) ([]model.Todo, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	records, err := db.Select(ctx, model.TodoResource)
	if err != nil {
		return nil, serverError(err)
	}
	return model.ToTodos(records), nil
}

// AddTodo stores a new, not completed todo. Any title is accepted, including "".
// The handling goroutine is held for the configured delay first.
func (s *TodoService) AddTodo(ctx context.Context, title string) error {
	db, err := s.db()
	if err != nil {
		return err
	}

	m := events.Mutation{Action: events.ActionAdd, Token: uuid.NewString(), Input: title}
	return events.Track(ctx, s.pub, m, func() error {
		// once submitted, the add completes even if the caller goes away
		ctx := context.WithoutCancel(ctx)
		s.sleep(s.addDelay)

		created, err := db.Create(ctx, model.TodoResource, model.NewTodoRecord(title))
		if err != nil {
			return serverError(err)
		}
		s.logger.DebugContext(ctx, "todo created", "id", model.ToTodo(created).IDString())
		return nil
	})
}

// DeleteTodo removes the todo with the given id. Unknown ids succeed.
func (s *TodoService) DeleteTodo(ctx context.Context, id string) error {
	db, err := s.db()
	if err != nil {
		return err
	}

	m := events.Mutation{Action: events.ActionDelete, Token: uuid.NewString(), Input: id}
	return events.Track(ctx, s.pub, m, func() error {
		ctx := context.WithoutCancel(ctx)
		thing, ok := model.ParseThing(model.TodoResource, id)
		if !ok {
			s.logger.DebugContext(ctx, "delete of unknown id", "id", id)
			return nil
		}
		if err := db.Delete(ctx, thing); err != nil {
			return serverError(err)
		}
		return nil
	})
}
