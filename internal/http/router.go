package http

import (
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/todo-app/internal/http/handler"
	"github.com/jaekwang-park/todo-app/internal/service"
)

// NewRouter wires the routes. Closing done ends every open event stream.
func NewRouter(todoSvc *service.TodoService, src handler.ViewSource, ready handler.ReadyCheck, logger *slog.Logger, done <-chan struct{}) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", handler.NewHealthHandler(ready))

	// Remote procedures; /api/events is matched before the /api/ prefix
	mux.Handle("/api/events", handler.NewStreamHandler(src, logger, done))
	mux.Handle(handler.APIPrefix, handler.NewRPCHandler(todoSvc, logger))

	// Page, embedded static files and the error page
	mux.Handle("/", handler.NewPageHandler(src, logger))

	return mux
}
