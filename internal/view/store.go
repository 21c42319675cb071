// Package view holds the client-visible todo state: the confirmed list, the
// version counters of the mutating actions and the optimistic placeholders of
// submissions still in flight.
package view

import (
	"sync"

	"github.com/jaekwang-park/todo-app/internal/events"
	"github.com/jaekwang-park/todo-app/internal/model"
)

type State int

const (
	StateIdle State = iota
	StatePending
	StateResolved
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// Versions counts resolved submissions per mutating action.
type Versions struct {
	Add    uint64 `json:"add"`
	Delete uint64 `json:"delete"`
}

// Covers reports whether a list fetched at v reflects every resolution counted in o.
func (v Versions) Covers(o Versions) bool {
	return v.Add >= o.Add && v.Delete >= o.Delete
}

type Placeholder struct {
	Token string `json:"token"`
	Title string `json:"title"`
}

type Snapshot struct {
	Versions Versions     `json:"versions"`
	Loaded   bool         `json:"loaded"`
	Todos    []model.Todo `json:"todos"`
	Err      string       `json:"error,omitempty"`
	// Pending placeholders follow the confirmed list, in submission order.
	Pending []Placeholder `json:"pending"`
}

type submission struct {
	token      string
	action     events.Action
	input      string
	state      State
	resolvedAt Versions
}

type Store struct {
	mu          sync.Mutex
	versions    Versions
	listAt      Versions
	loaded      bool
	todos       []model.Todo
	listErr     string
	submissions []*submission
}

func NewStore() *Store {
	return &Store{todos: []model.Todo{}}
}

// Observe folds a mutation event into the state and reports whether the list
// must be fetched again.
func (s *Store) Observe(m events.Mutation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m.Phase {
	case events.PhasePending:
		if s.find(m.Token) == nil {
			s.submissions = append(s.submissions, &submission{
				token:  m.Token,
				action: m.Action,
				input:  m.Input,
				state:  StatePending,
			})
		}
		return false

	case events.PhaseResolved:
		switch m.Action {
		case events.ActionAdd:
			s.versions.Add++
		case events.ActionDelete:
			s.versions.Delete++
		}
		if sub := s.find(m.Token); sub != nil {
			sub.state = StateResolved
			sub.resolvedAt = s.versions
		}
		return true
	}
	return false
}

// Versions returns the counters a list fetch started now should be keyed on.
func (s *Store) Versions() Versions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions
}

// Apply installs a list result fetched at v. Results older than the one
// already shown are dropped; it reports whether the result was installed.
func (s *Store) Apply(v Versions, todos []model.Todo, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && !v.Covers(s.listAt) {
		return false
	}

	s.loaded = true
	s.listAt = v
	if err != nil {
		s.listErr = err.Error()
	} else {
		s.listErr = ""
		s.todos = todos
		if s.todos == nil {
			s.todos = []model.Todo{}
		}
	}

	kept := s.submissions[:0]
	for _, sub := range s.submissions {
		if sub.state == StateResolved && v.Covers(sub.resolvedAt) {
			continue
		}
		kept = append(kept, sub)
	}
	s.submissions = kept
	return true
}

// State reports where the submission identified by token is. Tokens never
// seen, or already reconciled, are idle.
func (s *Store) State(token string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub := s.find(token); sub != nil {
		return sub.state
	}
	return StateIdle
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Versions: s.versions,
		Loaded:   s.loaded,
		Todos:    append([]model.Todo{}, s.todos...),
		Err:      s.listErr,
		Pending:  []Placeholder{},
	}
	for _, sub := range s.submissions {
		if sub.action == events.ActionAdd {
			snap.Pending = append(snap.Pending, Placeholder{Token: sub.token, Title: sub.input})
		}
	}
	return snap
}

func (s *Store) find(token string) *submission {
	for _, sub := range s.submissions {
		if sub.token == token {
			return sub
		}
	}
	return nil
}
