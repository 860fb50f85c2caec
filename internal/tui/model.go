// Package tui implements the interactive task list.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/eventbus"
	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/core/task"
)

// UIState is the input mode of the model.
type UIState int

const (
	stateList UIState = iota
	stateForm
	stateConfirmDelete
)

// maxNotices is how many recent notifications stay on screen.
const maxNotices = 3

// Deps are the services the model drives.
type Deps struct {
	Config *config.Config
	Tasks  *task.Controller
	Bus    *eventbus.EventBus // optional
	Owner  string
}

// Model is the root bubbletea model.
type Model struct {
	ctx   context.Context
	cfg   *config.Config
	tasks *task.Controller
	owner string

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	state     UIState
	cursor    int
	form      taskForm
	pendingID string

	loading       bool
	err           error
	notices       []notify.Notification
	notifications *NotificationBuffer

	width  int
	height int
	now    func() time.Time
}

type tasksLoadedMsg struct {
	err error
}

type taskSavedMsg struct {
	task task.Task
	err  error
}

type taskToggledMsg struct {
	task task.Task
	err  error
}

type taskDeletedMsg struct {
	id  string
	err error
}

type drainNotificationsMsg struct{}

// New creates the model. Notifications published on deps.Bus are shown
// below the list.
func New(ctx context.Context, deps Deps) Model {
	buf := NewNotificationBuffer()
	if deps.Bus != nil {
		deps.Bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
			buf.Push(notify.Notification{Level: p.Level, Message: p.Message})
		})
	}

	return Model{
		ctx:           ctx,
		cfg:           deps.Config,
		tasks:         deps.Tasks,
		owner:         deps.Owner,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading:       true,
		notifications: buf,
		now:           time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadTasks(),
		m.spinner.Tick,
		m.notifications.WaitForSignal(),
	)
}

func (m Model) loadTasks() tea.Cmd {
	ctx, owner, tasks := m.ctx, m.owner, m.tasks
	return func() tea.Msg {
		_, err := tasks.Load(ctx, owner)
		return tasksLoadedMsg{err: err}
	}
}

func (m Model) saveTask(editID string, in task.Input) tea.Cmd {
	ctx, tasks := m.ctx, m.tasks
	return func() tea.Msg {
		var (
			t   task.Task
			err error
		)
		if editID == "" {
			t, err = tasks.Create(ctx, in)
		} else {
			t, err = tasks.Edit(ctx, editID, in)
		}
		return taskSavedMsg{task: t, err: err}
	}
}

func (m Model) toggleTask(id string) tea.Cmd {
	ctx, tasks := m.ctx, m.tasks
	return func() tea.Msg {
		t, err := tasks.ToggleComplete(ctx, id)
		return taskToggledMsg{task: t, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	ctx, tasks := m.ctx, m.tasks
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: tasks.ConfirmDelete(ctx, id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tasksLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("tui: load tasks failed")
		}
		m.clampCursor()
		return m, nil

	case taskSavedMsg:
		return m.handleSaved(msg)

	case taskToggledMsg:
		m.err = msg.err
		m.clampCursor()
		return m, nil

	case taskDeletedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.pendingID = ""
			m.state = stateList
		}
		m.clampCursor()
		return m, nil

	case drainNotificationsMsg:
		m.notices = append(m.notices, m.notifications.Drain()...)
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
		return m, m.notifications.WaitForSignal()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var verr *task.ValidationError
		if errors.As(msg.err, &verr) && m.state == stateForm {
			m.form.err = verr.Err.Error()
			return m, nil
		}
		m.err = msg.err
		if m.state == stateForm {
			m.form.err = msg.err.Error()
		}
		return m, nil
	}

	m.err = nil
	m.state = stateList
	m.selectID(msg.task.ID)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateForm:
		return m.handleFormKey(msg)
	case stateConfirmDelete:
		return m.handleConfirmKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, cmd, result := m.form.Update(msg)
	m.form = form

	switch result {
	case formCancelled:
		m.state = stateList
		return m, nil
	case formSubmitted:
		m.form.err = ""
		return m, m.saveTask(m.form.editID, m.form.Input())
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m, m.deleteTask(m.pendingID)
	case "n", "N", "esc":
		if err := m.tasks.CancelDelete(m.pendingID); err != nil && !errors.Is(err, task.ErrNotFound) {
			m.err = err
		}
		m.pendingID = ""
		m.state = stateList
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.tasks.Current()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(view)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.NextFilter):
		m.setFilter(m.tasks.Filter().Next())
	case key.Matches(msg, m.keys.All):
		m.setFilter(task.FilterAll)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(task.FilterCompleted)
	case key.Matches(msg, m.keys.Pending):
		m.setFilter(task.FilterPending)
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, tea.Batch(m.loadTasks(), m.spinner.Tick)
	case key.Matches(msg, m.keys.Add):
		return m.openForm("New task", "", task.Input{
			Priority: m.cfg.DefaultPriority(),
			DueDate:  m.now().Format(task.DateLayout),
		})
	}

	t, ok := m.selected(view)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleTask(t.ID)
	case key.Matches(msg, m.keys.Edit):
		return m.openForm("Edit task", t.ID, task.Input{
			Text:     t.Text,
			Priority: t.Priority,
			DueDate:  t.DueDate,
			DueTime:  t.DueTime,
		})
	case key.Matches(msg, m.keys.Delete):
		// A reload in flight would drop the pending flag.
		if m.loading {
			return m, nil
		}
		if err := m.tasks.RequestDelete(t.ID); err != nil {
			m.err = err
			return m, nil
		}
		m.pendingID = t.ID
		if !m.cfg.Tasks.ConfirmDelete {
			return m, m.deleteTask(t.ID)
		}
		m.state = stateConfirmDelete
	}

	return m, nil
}

func (m Model) openForm(title, editID string, in task.Input) (tea.Model, tea.Cmd) {
	form, cmd := newTaskForm(title, editID, in)
	m.form = form
	m.state = stateForm
	m.err = nil
	return m, cmd
}

func (m *Model) setFilter(f task.Filter) {
	if err := m.tasks.SetFilter(f); err != nil {
		m.err = err
		return
	}
	m.cursor = 0
}

func (m Model) selected(view []task.Task) (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(view) {
		return task.Task{}, false
	}
	return view[m.cursor], true
}

// selectID moves the cursor to the task with id when it is visible.
func (m *Model) selectID(id string) {
	for i, t := range m.tasks.Current() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.tasks.Current())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// State returns the current input mode.
func (m Model) State() UIState {
	return m.state
}

// Err returns the last operation error shown in the status line.
func (m Model) Err() error {
	return m.err
}
