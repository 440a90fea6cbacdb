package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskpad/internal/notify"
	"github.com/nibzard/taskpad/internal/task"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle    = lipgloss.NewStyle().Bold(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
)

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b, m.filter)

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	if m.loading {
		b.WriteString("  " + m.spin.View() + " Loading tasks...\n")
		writeFooter(&b, m.list, m.filter)
		return b.String()
	}

	m.writeTasks(&b)
	m.writeInput(&b)
	writeToast(&b, m.toast)
	writeFooter(&b, m.list, m.filter)
	return b.String()
}

func writeTitle(b *strings.Builder, filter task.Filter) {
	b.WriteString(titleStyle.Render("Taskpad"))
	b.WriteString(mutedStyle.Render("  ·  " + string(filter)))
	b.WriteString("\n\n")
}

func (m *Model) writeTasks(b *strings.Builder) {
	visible := m.list.Visible(m.filter)
	if len(visible) == 0 {
		if m.list.Len() == 0 {
			b.WriteString(mutedStyle.Render("  No tasks. Press n to add one.") + "\n")
		} else {
			b.WriteString(mutedStyle.Render("  Nothing matches this filter.") + "\n")
		}
		b.WriteString("\n")
		return
	}

	for i, t := range visible {
		cursor := "  "
		if i == m.cursor && !m.typing {
			cursor = "> "
		}
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, checkbox, t.Title)
		switch {
		case t.Completed:
			line = completedStyle.Render(line)
		case i == m.cursor && !m.typing:
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func (m *Model) writeInput(b *strings.Builder) {
	if !m.typing {
		return
	}
	label := "New task"
	if m.editID != 0 {
		label = fmt.Sprintf("Edit #%d", m.editID)
	}
	b.WriteString(promptStyle.Render("  "+label+": ") + m.input.View() + "\n")
	b.WriteString(mutedStyle.Render("  enter save · esc cancel") + "\n\n")
}

func writeToast(b *strings.Builder, toast *notify.Notification) {
	if toast == nil {
		return
	}
	switch toast.Kind {
	case notify.KindSuccess:
		b.WriteString(successStyle.Render("  ✅ "+toast.Message) + "\n\n")
	case notify.KindFailure:
		b.WriteString(failureStyle.Render("  ❌ "+toast.Message) + "\n\n")
	}
}

func writeFooter(b *strings.Builder, list *task.List, filter task.Filter) {
	total, completed := list.Counts()
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d done · filter: %s · ? help · q quit", completed, total, filter)))
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("  Keyboard Shortcuts\n\n")
	b.WriteString("  ↑/k, ↓/j     Move selection\n")
	b.WriteString("  space, x     Toggle completed\n")
	b.WriteString("  n            New task\n")
	b.WriteString("  e            Edit selected task\n")
	b.WriteString("  d            Delete selected task (local only)\n")
	b.WriteString("  enter        Save input\n")
	b.WriteString("  esc          Cancel input\n")
	b.WriteString("  1 / 2 / 3    Filter all / completed / uncompleted\n")
	b.WriteString("  A            Complete all\n")
	b.WriteString("  C            Clear completed\n")
	b.WriteString("  r            Reload from the store\n")
	b.WriteString("  ?            Toggle this help\n")
	b.WriteString("  q, ctrl+c    Quit\n")
}
