package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/internal/core/task"
)

// Form fields in focus order.
const (
	fieldText = iota
	fieldPriority
	fieldDate
	fieldTime
	fieldCount
)

var priorities = []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow}

type formResult int

const (
	formActive formResult = iota
	formSubmitted
	formCancelled
)

// taskForm edits the user-editable fields of a task. An empty editID means
// the form creates a new task.
type taskForm struct {
	title    string
	editID   string
	text     textinput.Model
	date     textinput.Model
	time     textinput.Model
	priority task.Priority
	focus    int
	err      string
}

func newTaskForm(title, editID string, in task.Input) (taskForm, tea.Cmd) {
	text := textinput.New()
	text.Prompt = ""
	text.Placeholder = "What needs doing?"
	text.CharLimit = 500
	text.Width = 48
	text.SetValue(in.Text)

	date := textinput.New()
	date.Prompt = ""
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = len(task.DateLayout)
	date.SetValue(in.DueDate)

	clock := textinput.New()
	clock.Prompt = ""
	clock.Placeholder = "HH:MM"
	clock.CharLimit = len(task.TimeLayout)
	clock.SetValue(in.DueTime)

	priority := in.Priority
	if !priority.IsValid() {
		priority = task.PriorityMedium
	}

	f := taskForm{
		title:    title,
		editID:   editID,
		text:     text,
		date:     date,
		time:     clock,
		priority: priority,
	}
	return f.setFocus(fieldText)
}

// Input returns the form values.
func (f taskForm) Input() task.Input {
	return task.Input{
		Text:     f.text.Value(),
		Priority: f.priority,
		DueDate:  strings.TrimSpace(f.date.Value()),
		DueTime:  strings.TrimSpace(f.time.Value()),
	}
}

// Editing reports whether the form edits an existing task.
func (f taskForm) Editing() bool {
	return f.editID != ""
}

func (f taskForm) setFocus(field int) (taskForm, tea.Cmd) {
	f.focus = (field + fieldCount) % fieldCount

	f.text.Blur()
	f.date.Blur()
	f.time.Blur()

	switch f.focus {
	case fieldText:
		return f, f.text.Focus()
	case fieldDate:
		return f, f.date.Focus()
	case fieldTime:
		return f, f.time.Focus()
	}
	return f, nil
}

func (f taskForm) Update(msg tea.KeyMsg) (taskForm, tea.Cmd, formResult) {
	switch msg.String() {
	case "esc":
		return f, nil, formCancelled
	case "ctrl+s":
		return f, nil, formSubmitted
	case "enter":
		if f.focus == fieldCount-1 {
			return f, nil, formSubmitted
		}
		f, cmd := f.setFocus(f.focus + 1)
		return f, cmd, formActive
	case "tab", "down":
		f, cmd := f.setFocus(f.focus + 1)
		return f, cmd, formActive
	case "shift+tab", "up":
		f, cmd := f.setFocus(f.focus - 1)
		return f, cmd, formActive
	}

	if f.focus == fieldPriority {
		switch msg.String() {
		case "left", "h":
			f.priority = cyclePriority(f.priority, -1)
		case "right", "l", " ":
			f.priority = cyclePriority(f.priority, 1)
		}
		return f, nil, formActive
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldText:
		f.text, cmd = f.text.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldTime:
		f.time, cmd = f.time.Update(msg)
	}
	return f, cmd, formActive
}

func cyclePriority(p task.Priority, dir int) task.Priority {
	i := 0
	for j, cur := range priorities {
		if cur == p {
			i = j
		}
	}
	n := len(priorities)
	return priorities[((i+dir)%n+n)%n]
}

func (f taskForm) View() string {
	label := func(field int, name string) string {
		s := fmtLabel(name)
		if f.focus == field {
			return styles.HeaderStyle.Render(s)
		}
		return styles.MutedStyle.Render(s)
	}

	var prio []string
	for _, p := range priorities {
		if p == f.priority {
			prio = append(prio, styles.PriorityStyle(p).Underline(true).Render(string(p)))
		} else {
			prio = append(prio, styles.MutedStyle.Render(string(p)))
		}
	}

	rows := []string{
		styles.FormTitleStyle.Render(f.title),
		"",
		label(fieldText, "Task") + f.text.View(),
		label(fieldPriority, "Priority") + strings.Join(prio, " "),
		label(fieldDate, "Due date") + f.date.View(),
		label(fieldTime, "Due time") + f.time.View(),
	}
	if f.err != "" {
		rows = append(rows, "", styles.FormErrorStyle.Render(f.err))
	}
	rows = append(rows, "", styles.MutedStyle.Render("tab next • ←/→ priority • enter/ctrl+s save • esc cancel"))

	return styles.FormStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func fmtLabel(name string) string {
	return name + strings.Repeat(" ", 10-len(name))
}
