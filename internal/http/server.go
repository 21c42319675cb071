package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jaekwang-park/todo-app/internal/http/handler"
	"github.com/jaekwang-park/todo-app/internal/middleware"
	"github.com/jaekwang-park/todo-app/internal/service"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(port string, logger *slog.Logger, todoSvc *service.TodoService, src handler.ViewSource, ready handler.ReadyCheck) *Server {
	streamsDone := make(chan struct{})
	router := NewRouter(todoSvc, src, ready, logger, streamsDone)

	// Apply middleware chain: recovery -> logging -> router
	chain := middleware.Recovery(logger, handler.InternalError)(middleware.Logging(logger)(router))

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           chain,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// AddTodo holds its request for the add delay; the event stream lifts this per connection
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	// Shutdown waits for active requests; open streams would otherwise never finish
	var once sync.Once
	httpServer.RegisterOnShutdown(func() { once.Do(func() { close(streamsDone) }) })

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
