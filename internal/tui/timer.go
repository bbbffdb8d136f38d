package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/session"
)

// timerModel renders the session state and forwards user intents to the
// engine. All decision logic lives in the engine.
type timerModel struct {
	engine *session.Engine
	width  int
	height int

	formActive bool
	form       *huh.Form
	taskValue  *string
}

func newTimerModel(e *session.Engine) timerModel {
	task := ""
	return timerModel{
		engine:    e,
		taskValue: &task,
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		finished, item, err := t.engine.Tick()
		if finished {
			return t, phaseFinishedCmd(item, err)
		}
		return t, nil

	case tea.KeyMsg:
		snap := t.engine.Snapshot()

		switch {
		case key.Matches(msg, keys.Primary):
			t.engine.Toggle()
			return t, nil

		case key.Matches(msg, keys.End):
			// Ending makes sense only once the phase has been started.
			if snap.State == session.Idle {
				return t, nil
			}
			item, err := t.engine.Finish(session.StatusEnded)
			return t, phaseFinishedCmd(item, err)

		case key.Matches(msg, keys.Skip):
			item, ok, err := t.engine.SkipBreak()
			if !ok {
				return t, nil
			}
			return t, phaseFinishedCmd(item, err)

		case key.Matches(msg, keys.EndSession):
			if !snap.CanEndSession {
				return t, nil
			}
			t.engine.ResetSession()
			return t, func() tea.Msg {
				return statusMsg{text: "Session ended, back to work"}
			}

		case key.Matches(msg, keys.AddMinute):
			t.engine.Adjust(60)
			return t, nil
		case key.Matches(msg, keys.SubMinute):
			t.engine.Adjust(-60)
			return t, nil
		case key.Matches(msg, keys.AddTen):
			t.engine.Adjust(10)
			return t, nil
		case key.Matches(msg, keys.SubTen):
			t.engine.Adjust(-10)
			return t, nil

		case key.Matches(msg, keys.Task):
			return t.showTaskForm()
		}
	}
	return t, nil
}

func phaseFinishedCmd(item session.HistoryItem, saveErr error) tea.Cmd {
	return func() tea.Msg {
		return phaseFinishedMsg{item: item, saveErr: saveErr}
	}
}

func (t timerModel) showTaskForm() (timerModel, tea.Cmd) {
	*t.taskValue = t.engine.Snapshot().Task

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What are you working on?").
				Value(t.taskValue),
		),
	).WithShowHelp(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.engine.SetTask(*t.taskValue)
		return t, nil
	}

	return t, cmd
}

func (t timerModel) view() string {
	w := t.width - 4
	snap := t.engine.Snapshot()

	if t.formActive && t.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Task"), "", t.form.View()),
		)
	}

	pills := lipgloss.JoinHorizontal(lipgloss.Center,
		pillStyle.Render("Start: "+formatClock(snap.StartAt)),
		" ",
		pillStyle.Render(t.phaseText(snap)),
		" ",
		pillStyle.Render(fmt.Sprintf("Pomos: %d", snap.Pomodoros)),
		" ",
		pillStyle.Render("End: "+formatClock(snap.EndAt)),
	)

	countdown := t.countdownStyle(snap.State).Width(w - 6).Render(bigTime(formatMMSS(snap.RemainingSeconds)))

	bar := renderBar(snap.ElapsedSeconds, snap.PlannedSeconds, min(w-10, 50))

	task := snap.Task
	if strings.TrimSpace(task) == "" {
		task = mutedStyle.Render("no task · press t to set one")
	} else {
		task = highlightStyle.Render(task)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Pomodoro"),
		"",
		pills,
		"",
		countdown,
		"",
		bar,
		"",
		task,
		"",
		t.controlsHint(snap),
	)

	return panelStyle.Width(w).Render(content)
}

func (t timerModel) phaseText(snap session.Snapshot) string {
	switch {
	case snap.Phase == session.PhaseWork:
		return snap.PhaseLabel
	case snap.LongBreakDue:
		return highlightStyle.Render(snap.PhaseLabel)
	default:
		return successStyle.Render(snap.PhaseLabel)
	}
}

func (t timerModel) countdownStyle(state session.RunState) lipgloss.Style {
	switch state {
	case session.Running:
		return timerRunningStyle
	case session.Paused:
		return timerPausedStyle
	}
	return timerIdleStyle
}

func (t timerModel) controlsHint(snap session.Snapshot) string {
	parts := []string{fmt.Sprintf("space: %s", strings.ToLower(snap.Primary.String()))}
	if snap.CanEnd {
		parts = append(parts, "e: end phase")
	}
	if snap.CanSkip {
		parts = append(parts, "k: skip break")
	}
	if snap.CanEndSession {
		parts = append(parts, "x: end session")
	}
	parts = append(parts, "+/-: ±1m", "]/[: ±10s")
	return mutedStyle.Render(strings.Join(parts, "  "))
}

func renderBar(elapsed, planned, width int) string {
	if width < 10 {
		width = 10
	}
	if planned < 1 {
		planned = 1
	}
	ratio := float64(elapsed) / float64(planned)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar + mutedStyle.Render(fmt.Sprintf(" %s/%s", formatMMSS(elapsed), formatMMSS(planned)))
}

// bigTime spaces out the countdown so it reads as the focal element.
func bigTime(mmss string) string {
	var b strings.Builder
	for i, r := range mmss {
		if i > 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
