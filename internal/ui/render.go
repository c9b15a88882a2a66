package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/types"
)

// BoardTable renders the board collection as an aligned table.
func BoardTable(boards []types.Board, currentID string) string {
	if len(boards) == 0 {
		return faintStyle.Render("No boards. Create one with `td board create`.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(pad("", 2)+pad("ID", 38)+pad("TITLE", 24)+pad("UPDATED", 12)) + "\n")
	for _, board := range boards {
		marker := "  "
		if board.ID == currentID {
			marker = "* "
		}
		b.WriteString(marker + pad(board.ID, 38) + pad(board.Title, 24) + pad(relTime(board.UpdatedAt), 12) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// BoardDetail renders a single board with its description.
func BoardDetail(board types.Board) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(board.Title) + "\n")
	b.WriteString(faintStyle.Render(board.ID) + "\n")
	if board.Description != "" {
		b.WriteString(board.Description + "\n")
	}
	if board.Color != "" {
		b.WriteString("Color:   " + board.Color + "\n")
	}
	b.WriteString("Created: " + board.CreatedAt.Local().Format("2006-01-02 15:04") + "\n")
	b.WriteString("Updated: " + board.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return b.String()
}

// TaskTable renders tasks as an aligned table.
func TaskTable(tasks []types.Task) string {
	if len(tasks) == 0 {
		return faintStyle.Render("No tasks.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(pad("ID", 38)+pad("TITLE", 28)+pad("STATUS", 13)+pad("PRIORITY", 10)+pad("DUE", 12)) + "\n")
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Local().Format("2006-01-02")
		}
		b.WriteString(pad(t.ID, 38) + pad(t.Title, 28) + pad(renderStatus(string(t.Status)), 13) +
			pad(renderPriority(string(t.Priority)), 10) + pad(due, 12) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Kanban renders tasks as three status columns side by side.
func Kanban(tasks []types.Task) string {
	columns := []types.Status{types.StatusTodo, types.StatusInProgress, types.StatusDone}
	rendered := make([]string, 0, len(columns))

	for _, status := range columns {
		var body strings.Builder
		body.WriteString(titleStyle.Render(strings.ToUpper(string(status))) + "\n")
		count := 0
		for _, t := range tasks {
			if t.Status != status {
				continue
			}
			count++
			body.WriteString("• " + truncate(t.Title, 24) + "\n")
			body.WriteString("  " + faintStyle.Render(renderPriority(string(t.Priority))) + "\n")
		}
		if count == 0 {
			body.WriteString(faintStyle.Render("(empty)") + "\n")
		}
		rendered = append(rendered, columnStyle.Render(strings.TrimRight(body.String(), "\n")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// CategoryTable renders categories as an aligned table.
func CategoryTable(categories []types.Category) string {
	if len(categories) == 0 {
		return faintStyle.Render("No categories.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(pad("ID", 6)+pad("NAME", 24)+pad("PRIORITY", 10)+"DESCRIPTION") + "\n")
	for _, c := range categories {
		b.WriteString(pad(fmt.Sprintf("%d", c.ID), 6) + pad(c.Name, 24) +
			pad(renderPriority(string(c.Priority)), 10) + truncate(c.Description, 40) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// InvitationTable renders invitations as an aligned table.
func InvitationTable(invitations []types.Invitation) string {
	if len(invitations) == 0 {
		return faintStyle.Render("No invitations.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(pad("EMAIL", 30)+pad("STATUS", 10)+pad("EXPIRES", 12)+"TOKEN") + "\n")
	for _, inv := range invitations {
		b.WriteString(pad(inv.Email, 30) + pad(string(inv.Status), 10) +
			pad(inv.ExpiresAt.Local().Format("2006-01-02"), 12) + inv.Token + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// UserSummary renders the signed-in user for `td whoami`.
func UserSummary(user types.User) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(user.Name) + " " + faintStyle.Render("("+user.Initials+")") + "\n")
	b.WriteString(user.Email + "\n")
	b.WriteString(faintStyle.Render("id " + user.ID))
	return b.String()
}

// pad right-pads s to the given display width. lipgloss.Width ignores ANSI
// styling and counts multibyte runes by the cells they occupy, so styled and
// non-ASCII values still line up.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to at most max runes, never slicing mid-rune.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func relTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
