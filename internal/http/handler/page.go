package handler

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaekwang-park/todo-app/internal/view"
)

//go:embed web/*.tmpl web/static
var webFS embed.FS

var templates = template.Must(template.ParseFS(webFS, "web/*.tmpl"))

// ViewSource is the live view the page and the event stream render.
type ViewSource interface {
	Store() *view.Store
	Subscribe() (<-chan struct{}, func())
}

// RenderTodos renders the list fragment of the page for snap.
func RenderTodos(snap view.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "todos", snap); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PageHandler serves the page at / and falls back to the embedded static
// files, then to an HTML error page, for every other path.
type PageHandler struct {
	src    ViewSource
	static fs.FS
	files  http.Handler
	logger *slog.Logger
}

func NewPageHandler(src ViewSource, logger *slog.Logger) *PageHandler {
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return &PageHandler{
		src:    src,
		static: static,
		files:  http.FileServer(http.FS(static)),
		logger: logger,
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteErrorPage(w, http.StatusMethodNotAllowed, "")
		return
	}

	if r.URL.Path == "/" {
		h.renderPage(w, r)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	if info, err := fs.Stat(h.static, name); err == nil && !info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}
	WriteErrorPage(w, http.StatusNotFound, r.URL.Path)
}

func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page", h.src.Store().Snapshot()); err != nil {
		h.logger.ErrorContext(r.Context(), "render page", "error", err)
		WriteErrorPage(w, http.StatusInternalServerError, "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Status int
	Text   string
	Detail string
}

// WriteErrorPage writes the HTML error page for status.
func WriteErrorPage(w http.ResponseWriter, status int, detail string) {
	var buf bytes.Buffer
	page := errorPage{Status: status, Text: http.StatusText(status), Detail: detail}
	if err := templates.ExecuteTemplate(&buf, "error", page); err != nil {
		slog.Error("render error page", "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// InternalError answers a request that failed mid-flight, as HTML for browsers
// and as a JSON error otherwise.
func InternalError(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, APIPrefix) && wantsHTML(r) {
		WriteErrorPage(w, http.StatusInternalServerError, "")
		return
	}
	WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
