package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/core/styles"
	"github.com/colonyops/taskboard/internal/core/task"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.state == stateForm {
		b.WriteString(m.form.View())
	} else {
		b.WriteString(m.renderList())
	}
	b.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
	}

	if m.state == stateList {
		b.WriteString(styles.HelpStyle.Render(m.help.View(m.keys)))
	}

	return b.String()
}

func (m Model) renderHeader() string {
	title := styles.HeaderStyle.Render("taskboard")
	user := lipgloss.NewStyle().Foreground(styles.ColorForString(m.owner)).Render(m.owner)
	return title + styles.MutedStyle.Render(" · ") + user
}

func (m Model) renderTabs() string {
	current := m.tasks.Filter()

	tabs := make([]string, 0, len(task.Filters))
	for _, f := range task.Filters {
		if f == current {
			tabs = append(tabs, styles.TabActiveStyle.Render(string(f)))
		} else {
			tabs = append(tabs, styles.TabInactiveStyle.Render(string(f)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderList() string {
	if m.loading && !m.tasks.Loaded() {
		return m.spinner.View() + " Loading tasks…"
	}
	if !m.tasks.Loaded() && m.err != nil {
		return styles.ErrorStyle.Render("Could not load tasks. Press r to retry.")
	}

	filter := m.tasks.Filter()
	switch m.tasks.State(filter) {
	case task.StateEmpty:
		return styles.EmptyStateStyle.Render("No tasks yet. Press a to add one.")
	case task.StateNoMatches:
		return styles.EmptyStateStyle.Render(fmt.Sprintf("No %s tasks.", strings.ToLower(string(filter))))
	}

	now := m.now()
	view := m.tasks.View(filter)
	rows := make([]string, 0, len(view))
	for i, t := range view {
		rows = append(rows, m.renderRow(t, i == m.cursor, t.Overdue(now)))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(t task.Task, selected, overdue bool) string {
	cursor := "  "
	if selected {
		cursor = styles.HeaderStyle.Render("› ")
	}

	check := "[ ]"
	text := styles.TaskTextStyle.Render(t.Text)
	switch {
	case t.PendingDelete:
		text = styles.TaskPendingDeleteStyle.Render(t.Text + "  (delete? y/n)")
	case t.Completed:
		check = "[x]"
		text = styles.TaskDoneStyle.Render(t.Text)
	case overdue:
		text = styles.TaskOverdueStyle.Render(t.Text)
	}
	if t.Completed && t.PendingDelete {
		check = "[x]"
	}

	priority := styles.PriorityStyle(t.Priority).Render(fmt.Sprintf("%-6s", t.Priority))
	due := styles.MutedStyle.Render(t.DueDate + " " + t.DueTime)

	row := fmt.Sprintf("%s %s  %s  %s", check, priority, text, due)
	if selected {
		row = styles.TaskSelectedStyle.Render(row)
	}
	return cursor + row
}

func (m Model) renderStatus() string {
	lines := make([]string, 0, len(m.notices)+1)
	for _, n := range m.notices {
		lines = append(lines, renderNotice(n))
	}
	if m.err != nil {
		lines = append(lines, styles.ErrorStyle.Render("✘ "+m.err.Error()))
	}
	if len(lines) == 0 {
		return ""
	}
	return styles.StatusBarStyle.Render(strings.Join(lines, "\n"))
}

func renderNotice(n notify.Notification) string {
	switch n.Level {
	case notify.LevelWarning:
		return styles.WarningStyle.Render("! " + n.Message)
	case notify.LevelError:
		return styles.ErrorStyle.Render("✘ " + n.Message)
	default:
		return styles.InfoStyle.Render("• " + n.Message)
	}
}
