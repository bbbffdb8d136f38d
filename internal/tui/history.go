package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/session"
)

type historyModel struct {
	engine *session.Engine
	width  int
	height int

	offset int // scroll offset from the newest entry
}

func newHistoryModel(e *session.Engine) historyModel {
	return historyModel{engine: e}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

func (h historyModel) visibleRows() int {
	rows := h.height - 10
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		total := h.engine.History()
		switch {
		case key.Matches(msg, keys.Up):
			if h.offset > 0 {
				h.offset--
			}
		case key.Matches(msg, keys.Down):
			if h.offset < max(0, len(total)-h.visibleRows()) {
				h.offset++
			}
		}
	}
	return h, nil
}

func (h historyModel) view() string {
	w := h.width - 4
	items := h.engine.History()

	title := titleStyle.Render("History")

	if len(items) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				title, "", mutedStyle.Render("  No finished phases yet"),
			),
		)
	}

	taskWidth := min(max(w-78, 8), 24)

	var rows []string
	header := mutedStyle.Render(fmt.Sprintf("  %4s  %-6s %-*s %-19s %-19s %8s %8s %-10s",
		"#", "Phase", taskWidth, "Task", "Start", "End", "Planned", "Actual", "Status"))
	rows = append(rows, header)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 90))))

	// Newest first.
	visible := h.visibleRows()
	for i := len(items) - 1 - h.offset; i >= 0 && len(rows) < visible+2; i-- {
		it := items[i]
		rows = append(rows, fmt.Sprintf("  %4d  %-6s %-*s %-19s %-19s %8s %8s %s",
			it.Index,
			it.Phase.String(),
			taskWidth, truncate(it.Task, taskWidth),
			formatStamp(it.Start),
			formatStamp(it.End),
			formatMMSS(it.PlannedSeconds),
			formatMMSS(it.ActualSeconds),
			statusStyle(it.Status).Render(it.Status.String()),
		))
	}

	footer := mutedStyle.Render("  ↑/↓: scroll  o: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", strings.Join(rows, "\n"), "", footer,
		),
	)
}

func statusStyle(s session.Status) lipgloss.Style {
	switch s {
	case session.StatusCompleted:
		return successStyle
	case session.StatusEnded:
		return warningStyle
	case session.StatusSkipped:
		return mutedStyle
	}
	return normalItemStyle
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
