package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaekwang-park/todo-app/internal/events"
	"github.com/jaekwang-park/todo-app/internal/http/handler"
	"github.com/jaekwang-park/todo-app/internal/model"
	"github.com/jaekwang-park/todo-app/internal/view"
)

// fakeView implements handler.ViewSource over a bare store
type fakeView struct {
	store   *view.Store
	changed *events.Signal
}

func newFakeView() *fakeView {
	return &fakeView{store: view.NewStore(), changed: events.NewSignal()}
}

func (f *fakeView) Store() *view.Store                   { return f.store }
func (f *fakeView) Subscribe() (<-chan struct{}, func()) { return f.changed.Subscribe() }

func ptr(s string) *string { return &s }

func getPage(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPageHandler_States(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(s *view.Store)
		want    []string
		notWant []string
	}{
		{
			name:    "loading",
			prepare: func(s *view.Store) {},
			want:    []string{"<title>My Tasks</title>", "Add a Todo", `value="Add"`, "Loading..."},
			notWant: []string{"No tasks were found."},
		},
		{
			name:    "empty",
			prepare: func(s *view.Store) { s.Apply(view.Versions{}, []model.Todo{}, nil) },
			want:    []string{"No tasks were found."},
			notWant: []string{"Loading..."},
		},
		{
			name: "list",
			prepare: func(s *view.Store) {
				s.Apply(view.Versions{}, []model.Todo{{ID: ptr("65f1c0ffee0000000000beef"), Title: "Buy <milk>"}}, nil)
			},
			want:    []string{"Buy &lt;milk&gt;", `name="id" value="65f1c0ffee0000000000beef"`, `value="X"`},
			notWant: []string{"No tasks were found.", "Buy <milk>"},
		},
		{
			name: "pending add",
			prepare: func(s *view.Store) {
				s.Apply(view.Versions{}, []model.Todo{}, nil)
				s.Observe(events.Mutation{Action: events.ActionAdd, Phase: events.PhasePending, Token: "t", Input: "X"})
			},
			want: []string{`<li class="pending">X</li>`},
		},
		{
			name: "list error",
			prepare: func(s *view.Store) {
				s.Apply(view.Versions{}, nil, errString("connection refused"))
			},
			want: []string{"Server Error: connection refused"},
		},
		{
			name: "list error hides the last good rows",
			prepare: func(s *view.Store) {
				s.Apply(view.Versions{}, []model.Todo{{ID: ptr("65f1c0ffee0000000000beef"), Title: "Old row"}}, nil)
				s.Observe(events.Mutation{Action: events.ActionAdd, Phase: events.PhasePending, Token: "t", Input: "X"})
				s.Apply(view.Versions{}, nil, errString("connection refused"))
			},
			want:    []string{"Server Error: connection refused", `<li class="pending">X</li>`},
			notWant: []string{"Old row", "/api/DeleteTodo", "No tasks were found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeView()
			tt.prepare(src.store)
			h := handler.NewPageHandler(src, discardLogger())

			w := getPage(t, h, "/")

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("expected html, got %s", ct)
			}
			body := w.Body.String()
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("expected page to contain %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(body, s) {
					t.Errorf("expected page not to contain %q", s)
				}
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestPageHandler_StaticFallback(t *testing.T) {
	h := handler.NewPageHandler(newFakeView(), discardLogger())

	tests := []struct {
		path       string
		wantStatus int
		wantType   string
	}{
		{"/favicon.ico", http.StatusOK, "image/"},
		{"/pkg/app.css", http.StatusOK, "text/css"},
		{"/pkg/app.js", http.StatusOK, "javascript"},
		{"/missing", http.StatusNotFound, "text/html"},
		{"/pkg", http.StatusNotFound, "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := getPage(t, h, tt.path)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.wantType) {
				t.Errorf("expected Content-Type containing %q, got %q", tt.wantType, ct)
			}
		})
	}
}

func TestPageHandler_ErrorPage(t *testing.T) {
	h := handler.NewPageHandler(newFakeView(), discardLogger())

	w := getPage(t, h, "/nope")

	body := w.Body.String()
	if !strings.Contains(body, "404 Not Found") || !strings.Contains(body, "/nope") {
		t.Errorf("unexpected error page: %s", body)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestInternalError(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		accept   string
		wantType string
	}{
		{"browser page", "/", "text/html", "text/html"},
		{"remote procedure", "/api/GetTodos", "text/html", "application/json"},
		{"script", "/", "application/json", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", tt.accept)
			w := httptest.NewRecorder()

			handler.InternalError(w, req)

			if w.Code != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.wantType) {
				t.Errorf("expected %s, got %s", tt.wantType, ct)
			}
		})
	}
}
