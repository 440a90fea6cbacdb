// Package ui provides the interactive terminal todo list.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nibzard/taskpad/internal/config"
	"github.com/nibzard/taskpad/internal/logging"
	"github.com/nibzard/taskpad/internal/notify"
	"github.com/nibzard/taskpad/internal/task"
)

// Store is the remote side of the board. Deletion is deliberately absent:
// delete is a local-only action.
type Store interface {
	List(ctx context.Context, limit int) ([]task.Task, error)
	Create(ctx context.Context, title string, completed bool) (task.Task, error)
	Replace(ctx context.Context, id int, title string, completed bool) (task.Task, error)
}

// Run starts the TUI against the given store.
func Run(ctx context.Context, cfg *config.Config, st Store, log *zap.SugaredLogger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model, err := NewModel(ctx, cfg, st, log)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}

// Model is the single-page todo list: one update loop owns every piece of
// state, remote calls run as commands and merge their results via messages.
type Model struct {
	ctx   context.Context
	store Store
	log   *zap.SugaredLogger

	list    *task.List
	filter  task.Filter
	editID  int // id under edit, 0 when the input creates
	loading bool

	cursor int // selection index into the visible projection
	typing bool

	input textinput.Model
	spin  spinner.Model

	toast    *notify.Notification
	toastSeq int
	toastTTL time.Duration

	fetchLimit int
	showHelp   bool
	width      int
	height     int
}

type tasksLoadedMsg struct {
	tasks []task.Task
}

type loadFailedMsg struct {
	err error
}

type taskCreatedMsg struct {
	created task.Task
}

// taskReplacedMsg carries the id the request was addressed to alongside the
// server echo; the local merge targets that id, not whatever the echo claims.
type taskReplacedMsg struct {
	id     int
	echoed task.Task
}

type requestFailedMsg struct {
	action string // "add" or "update"
	err    error
}

type toastExpiredMsg struct {
	seq int
}

// NewModel builds the initial model. A nil logger falls back to a no-op one.
func NewModel(ctx context.Context, cfg *config.Config, st Store, log *zap.SugaredLogger) (*Model, error) {
	filter, err := cfg.Filter()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	return &Model{
		ctx:        ctx,
		store:      st,
		log:        log,
		list:       task.NewList(),
		filter:     filter,
		loading:    true,
		input:      input,
		spin:       spin,
		toastTTL:   cfg.ToastDuration(),
		fetchLimit: cfg.FetchLimit,
	}, nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 6
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateBrowsing(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		m.loading = false
		m.list.Replace(msg.tasks)
		m.clampCursor()
		return m, nil

	case loadFailedMsg:
		// Swallowed: the user sees an empty list, the log keeps the cause.
		m.loading = false
		m.log.Warnw("load failed", "error", msg.err)
		return m, nil

	case taskCreatedMsg:
		m.list.Prepend(msg.created)
		m.input.SetValue("")
		m.leaveInput()
		m.cursor = 0
		m.log.Infow("task created", "id", msg.created.ID, "title", msg.created.Title)
		return m, m.setToast(notify.Success("Task added"))

	case taskReplacedMsg:
		// Title comes from the server echo, completed stays local.
		m.list.SetTitle(msg.id, msg.echoed.Title)
		m.input.SetValue("")
		m.editID = 0
		m.leaveInput()
		m.log.Infow("task updated", "id", msg.id, "title", msg.echoed.Title)
		return m, m.setToast(notify.Success("Task updated"))

	case requestFailedMsg:
		// Buffer and edit cursor stay put so the user can retry.
		m.log.Errorw("request failed", "action", msg.action, "error", msg.err)
		return m, m.setToast(notify.Failure("Failed to %s task", msg.action))

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil
	}

	return m, nil
}

// updateTyping handles keys while the shared input is focused.
func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.SetValue("")
		m.editID = 0
		m.leaveInput()
		return m, nil
	case "enter":
		return m.submit()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// updateBrowsing handles keys while the list has focus.
func (m *Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.list.Visible(m.filter))-1 {
			m.cursor++
		}
		return m, nil

	case " ", "x":
		if t, ok := m.selected(); ok {
			m.list.Toggle(t.ID)
		}
		return m, nil

	case "d":
		if t, ok := m.selected(); ok {
			m.list.Remove(t.ID)
			m.clampCursor()
			// Always a success toast, local delete cannot fail.
			return m, m.setToast(notify.Success("Task deleted"))
		}
		return m, nil

	case "n":
		m.typing = true
		return m, m.input.Focus()

	case "e":
		if t, ok := m.selected(); ok {
			m.beginEdit(t.ID)
			return m, m.input.Focus()
		}
		return m, nil

	case "1":
		m.filter = task.FilterAll
		m.clampCursor()
		return m, nil

	case "2":
		m.filter = task.FilterCompleted
		m.clampCursor()
		return m, nil

	case "3":
		m.filter = task.FilterUncompleted
		m.clampCursor()
		return m, nil

	case "A":
		m.list.CompleteAll()
		m.clampCursor()
		return m, nil

	case "C":
		m.list.ClearCompleted()
		m.clampCursor()
		return m, nil

	case "r":
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.loadCmd())

	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m, nil
}

// beginEdit points the edit cursor at id and seeds the buffer from the first
// matching task. A missing match leaves the buffer alone; the cursor then
// addresses a task the store knows but the list does not.
func (m *Model) beginEdit(id int) {
	m.editID = id
	if t := m.list.Get(id); t != nil {
		m.input.SetValue(t.Title)
		m.input.CursorEnd()
	}
	m.typing = true
}

// submit routes the shared input: edit cursor set means update, otherwise
// create. A trimmed-empty buffer is a no-op either way, no call goes out.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		return m, nil
	}
	if m.editID != 0 {
		return m, m.replaceCmd(m.editID, title)
	}
	return m, m.createCmd(title)
}

func (m *Model) leaveInput() {
	m.typing = false
	m.input.Blur()
}

func (m *Model) setToast(n notify.Notification) tea.Cmd {
	m.toast = &n
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *Model) selected() (task.Task, bool) {
	visible := m.list.Visible(m.filter)
	if m.cursor < 0 || m.cursor >= len(visible) {
		return task.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.list.Visible(m.filter))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.List(m.ctx, m.fetchLimit)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (m *Model) createCmd(title string) tea.Cmd {
	return func() tea.Msg {
		created, err := m.store.Create(m.ctx, title, false)
		if err != nil {
			return requestFailedMsg{action: "add", err: err}
		}
		return taskCreatedMsg{created: created}
	}
}

// replaceCmd always sends completed=false; the local merge keeps the local
// completed value regardless of what the request or echo carries.
func (m *Model) replaceCmd(id int, title string) tea.Cmd {
	return func() tea.Msg {
		echoed, err := m.store.Replace(m.ctx, id, title, false)
		if err != nil {
			return requestFailedMsg{action: "update", err: err}
		}
		return taskReplacedMsg{id: id, echoed: echoed}
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
