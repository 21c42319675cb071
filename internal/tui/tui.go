// Package tui is the interactive terminal view of the todo list.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jaekwang-park/todo-app/internal/events"
	"github.com/jaekwang-park/todo-app/internal/model"
	"github.com/jaekwang-park/todo-app/internal/view"
)

// Remote is the set of remote procedures the view drives.
type Remote interface {
	view.Lister
	AddTodo(ctx context.Context, title string) error
	DeleteTodo(ctx context.Context, id string) error
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Delete:  key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x", "delete")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type changedMsg struct{}

type refreshedMsg struct{}

type mutationDoneMsg struct {
	action events.Action
	err    error
}

// Model is the bubbletea model. Every add or delete is tracked on a local
// broker so the view loop shows the placeholder and refreshes on resolution.
type Model struct {
	ctx     context.Context
	loop    *view.Loop
	broker  *events.Broker
	remote  Remote
	changed <-chan struct{}
	// unsubscribe releases changed; see Close
	unsubscribe func()

	snap   view.Snapshot
	cursor int
	adding bool
	input  textinput.Model
	status string
}

func New(ctx context.Context, loop *view.Loop, broker *events.Broker, remote Remote) Model {
	changed, unsubscribe := loop.Subscribe()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New todo title..."
	ti.CharLimit = 200

	return Model{
		ctx:         ctx,
		loop:        loop,
		broker:      broker,
		remote:      remote,
		changed:     changed,
		unsubscribe: unsubscribe,
		snap:        loop.Store().Snapshot(),
		input:       ti,
	}
}

// Close stops the model from following the view loop.
func (m Model) Close() {
	m.unsubscribe()
}

// Run shows the view until the user quits or ctx is done.
func Run(ctx context.Context, remote Remote, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	broker := events.NewBroker()
	loop := view.NewLoop(view.NewStore(), remote, broker, logger)
	go loop.Run(ctx)

	m := New(ctx, loop, broker, remote)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changed:
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) track(action events.Action, input string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		mut := events.Mutation{Action: action, Token: uuid.NewString(), Input: input}
		err := events.Track(m.ctx, m.broker, mut, fn)
		return mutationDoneMsg{action: action, err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		m.loop.Refresh(m.ctx)
		return refreshedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.snap = m.loop.Store().Snapshot()
		m.clampCursor()
		return m, m.waitForChange()

	case refreshedMsg:
		m.snap = m.loop.Store().Snapshot()
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		}
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows())-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Add):
			m.adding = true
			m.input.SetValue("")
			return m, m.input.Focus()
		case key.Matches(msg, keys.Delete):
			rows := m.rows()
			if m.cursor >= len(rows) {
				return m, nil
			}
			id := rows[m.cursor].IDString()
			return m, m.track(events.ActionDelete, id, func() error {
				return m.remote.DeleteTodo(m.ctx, id)
			})
		case key.Matches(msg, keys.Refresh):
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			// any title is accepted, including an empty one
			title := m.input.Value()
			m.adding = false
			m.input.Blur()
			m.input.SetValue("")
			return m, m.track(events.ActionAdd, title, func() error {
				return m.remote.AddTodo(m.ctx, title)
			})
		case tea.KeyEsc:
			m.adding = false
			m.input.Blur()
			m.input.SetValue("")
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// rows are the listed todos on screen. A failed list shows none of the
// last good rows, so none of them can be selected or deleted.
func (m Model) rows() []model.Todo {
	if m.snap.Err != "" {
		return nil
	}
	return m.snap.Todos
}

func (m *Model) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("My Tasks"))
	b.WriteString("\n\n")

	switch {
	case !m.snap.Loaded:
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
	default:
		if m.snap.Err != "" {
			b.WriteString(errorStyle.Render("Server Error: " + m.snap.Err))
			b.WriteString("\n")
		} else if len(m.snap.Todos) == 0 {
			b.WriteString(mutedStyle.Render("No tasks were found."))
			b.WriteString("\n")
		}
		for i, td := range m.rows() {
			prefix := "  "
			if i == m.cursor {
				prefix = selectedStyle.Render("> ")
			}
			b.WriteString(prefix + td.Title + "\n")
		}
		for _, p := range m.snap.Pending {
			b.WriteString("  " + pendingStyle.Render(p.Title+" …") + "\n")
		}
	}

	if m.adding {
		b.WriteString("\n")
		b.WriteString(panelStyle.Render("Add a Todo\n" + m.input.View()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}

	help := []string{}
	for _, k := range []key.Binding{keys.Up, keys.Down, keys.Add, keys.Delete, keys.Refresh, keys.Quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n" + helpStyle.Render(strings.Join(help, " • ")))

	return panelStyle.Render(b.String())
}
