package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jaekwang-park/todo-app/internal/view"
)

// StreamFrame is one server-sent event: the snapshot plus the list fragment rendered from it.
type StreamFrame struct {
	Snapshot view.Snapshot `json:"snapshot"`
	HTML     string        `json:"html"`
}

// StreamHandler pushes a frame on connect and after every view change.
// Open streams end when done is closed, so server shutdown is not held by them.
type StreamHandler struct {
	src    ViewSource
	logger *slog.Logger
	done   <-chan struct{}
}

func NewStreamHandler(src ViewSource, logger *slog.Logger, done <-chan struct{}) *StreamHandler {
	return &StreamHandler{src: src, logger: logger, done: done}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}

	rc := http.NewResponseController(w)
	// the server write timeout would otherwise cut the stream
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.WarnContext(r.Context(), "clear write deadline", "error", err)
	}

	changed, unsubscribe := h.src.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	for {
		if err := h.writeFrame(w, h.src.Store().Snapshot()); err != nil {
			h.logger.DebugContext(ctx, "stream closed", "error", err)
			return
		}
		if err := rc.Flush(); err != nil {
			h.logger.WarnContext(ctx, "stream flush", "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-h.done:
			h.logger.DebugContext(ctx, "stream closed by shutdown")
			return
		case <-changed:
		}
	}
}

func (h *StreamHandler) writeFrame(w http.ResponseWriter, snap view.Snapshot) error {
	fragment, err := RenderTodos(snap)
	if err != nil {
		return fmt.Errorf("render todos: %w", err)
	}
	data, err := json.Marshal(StreamFrame{Snapshot: snap, HTML: fragment})
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
