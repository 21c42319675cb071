package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jaekwang-park/todo-app/internal/config"
	"github.com/jaekwang-park/todo-app/internal/events"
	todohttp "github.com/jaekwang-park/todo-app/internal/http"
	"github.com/jaekwang-park/todo-app/internal/http/handler"
	"github.com/jaekwang-park/todo-app/internal/repository"
	"github.com/jaekwang-park/todo-app/internal/service"
	"github.com/jaekwang-park/todo-app/internal/view"
)

const connectTimeout = 10 * time.Second

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

// store is an opened persistence backend.
type store struct {
	gw    repository.Gateway
	ready handler.ReadyCheck
	close func()
}

// openStore connects to the configured backend and fails if it cannot be reached.
func openStore(ctx context.Context, cfg config.Config) (store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverSurreal:
		db, err := repository.ConnectSurreal(cfg.DB.SurrealURL(), cfg.DB.User, cfg.DB.Password, cfg.DB.Namespace, cfg.DB.Name)
		if err != nil {
			return store{}, err
		}
		gw := repository.NewSurreal(db)
		return store{gw: gw, ready: gw.Ping, close: func() { _ = db.Close() }}, nil

	case config.DriverMongo:
		client, err := repository.ConnectMongo(ctx, cfg.DB.MongoURI())
		if err != nil {
			return store{}, err
		}
		return store{
			gw:    repository.NewMongo(client.Database(cfg.DB.MongoDatabase())),
			ready: func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverPostgres:
		db, err := repository.NewDB(cfg.DB.PostgresDSN())
		if err != nil {
			return store{}, err
		}
		gw := repository.NewPostgres(db, cfg.DB.Namespace)
		if err := gw.Migrate(ctx, cfg.DB.Namespace); err != nil {
			db.Close()
			return store{}, err
		}
		return store{gw: gw, ready: db.PingContext, close: func() { db.Close() }}, nil

	case config.DriverRedis:
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.DB.RedisAddr(),
			Username: cfg.DB.User,
			Password: cfg.DB.Password,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			rc.Close()
			return store{}, fmt.Errorf("failed to ping redis: %w", err)
		}
		return store{
			gw:    repository.NewRedis(rc, cfg.DB.RedisPrefix()),
			ready: func(ctx context.Context) error { return rc.Ping(ctx).Err() },
			close: func() { rc.Close() },
		}, nil

	case config.DriverMemory:
		return store{gw: repository.NewMemory(), close: func() {}}, nil
	}
	return store{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"store", cfg.StoreDriver,
		"add_delay", cfg.AddDelay,
		"log_level", cfg.LogLevel,
	)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	logger.Info("database connected", "driver", cfg.StoreDriver, "namespace", cfg.DB.Namespace, "database", cfg.DB.Name)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mutation events
	broker := events.NewBroker()
	if cfg.Events.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Events.RedisAddr})
		defer rc.Close()
		relay := events.NewRedisRelay(rc, cfg.Events.Channel, broker, logger)
		go relay.Forward(ctx)
		go relay.Run(ctx)
		logger.Info("event relay started", "addr", cfg.Events.RedisAddr, "channel", cfg.Events.Channel, "origin", relay.Origin())
	}

	// Services
	todoSvc := service.NewTodoService(st.gw,
		service.WithAddDelay(cfg.ParseAddDelay()),
		service.WithPublisher(broker),
		service.WithLogger(logger),
	)

	// Server-side view, followed by the page and the event stream
	loop := view.NewLoop(view.NewStore(), todoSvc, broker, logger)
	go loop.Run(ctx)

	// HTTP Server
	srv := todohttp.NewServer(cfg.ServerPort, logger, todoSvc, loop, st.ready)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
