package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ReadyCheck pings the store connection. A nil check always reports ok.
type ReadyCheck func(ctx context.Context) error

const readyTimeout = 2 * time.Second

type HealthHandler struct {
	check ReadyCheck
}

func NewHealthHandler(check ReadyCheck) *HealthHandler {
	return &HealthHandler{check: check}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}

	if h.check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.check(ctx); err != nil {
			slog.WarnContext(ctx, "store not ready", "error", err)
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
