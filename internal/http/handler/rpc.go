package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/jaekwang-park/todo-app/internal/service"
)

// APIPrefix is the path every remote procedure is served under.
const APIPrefix = "/api/"

// RPCHandler serves the remote procedures at /api/{name}.
type RPCHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
	procs  map[string]http.HandlerFunc
}

func NewRPCHandler(svc *service.TodoService, logger *slog.Logger) *RPCHandler {
	h := &RPCHandler{svc: svc, logger: logger}
	h.procs = map[string]http.HandlerFunc{
		"GetTodos":   h.handleGetTodos,
		"AddTodo":    h.handleAddTodo,
		"DeleteTodo": h.handleDeleteTodo,
	}
	return h
}

// ServeHTTP dispatches /api/{name} to the named procedure.
func (h *RPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, APIPrefix)

	proc, ok := h.procs[name]
	if !ok {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown server function: "+name)
		return
	}
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is allowed")
		return
	}
	proc(w, r)
}

func (h *RPCHandler) handleGetTodos(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "get todos", "uri", r.URL.RequestURI())

	todos, err := h.svc.GetTodos(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, todos)
}

type addTodoRequest struct {
	Title string `json:"title"`
}

func (h *RPCHandler) handleAddTodo(w http.ResponseWriter, r *http.Request) {
	var req addTodoRequest
	form, err := decodeArgs(r, &req, func(get func(string) string) {
		req.Title = get("title")
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_ARGS", "invalid request body")
		return
	}

	if err := h.svc.AddTodo(r.Context(), req.Title); err != nil {
		handleServiceError(w, err)
		return
	}
	h.done(w, r, form)
}

type deleteTodoRequest struct {
	ID string `json:"id"`
}

func (h *RPCHandler) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	var req deleteTodoRequest
	form, err := decodeArgs(r, &req, func(get func(string) string) {
		req.ID = get("id")
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_ARGS", "invalid request body")
		return
	}

	if err := h.svc.DeleteTodo(r.Context(), req.ID); err != nil {
		handleServiceError(w, err)
		return
	}
	h.done(w, r, form)
}

// done answers a successful mutation. Plain form posts from a browser are sent
// back to the page they came from.
func (h *RPCHandler) done(w http.ResponseWriter, r *http.Request, form bool) {
	if form && wantsHTML(r) {
		target := r.Referer()
		if target == "" {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, nil)
}

// decodeArgs reads procedure arguments from a JSON body into dst, or from form
// fields through fromForm. It reports whether the arguments came from a form.
// An empty body decodes to zero arguments.
func decodeArgs(r *http.Request, dst any, fromForm func(get func(string) string)) (bool, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return true, err
		}
		fromForm(r.PostFormValue)
		return true, nil
	default:
		err := json.NewDecoder(r.Body).Decode(dst)
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		return false, nil
	}
}
