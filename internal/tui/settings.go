package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/session"
)

type settingsModel struct {
	engine *session.Engine
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	workMin  *string
	shortMin *string
	longMin  *string
	every    *string
}

func newSettingsModel(e *session.Engine) settingsModel {
	w, s, l, ev := "", "", "", ""
	return settingsModel{
		engine:   e,
		workMin:  &w,
		shortMin: &s,
		longMin:  &l,
		every:    &ev,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cur := s.engine.Settings()
	*s.workMin = strconv.Itoa(cur.WorkMinutes)
	*s.shortMin = strconv.Itoa(cur.ShortBreakMinutes)
	*s.longMin = strconv.Itoa(cur.LongBreakMinutes)
	*s.every = strconv.Itoa(cur.LongBreakEvery)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Value(s.workMin).Validate(validatePositiveInt),
			huh.NewInput().Title("Short break (min)").Value(s.shortMin).Validate(validatePositiveInt),
			huh.NewInput().Title("Long break (min)").Value(s.longMin).Validate(validatePositiveInt),
			huh.NewInput().Title("Long break every (pomos)").Value(s.every).Validate(validatePositiveInt),
		).Title("Settings"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validatePositiveInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.apply()
	}

	return s, cmd
}

// apply parses the validated form values and replaces the settings
// wholesale. The engine rejects anything invalid and keeps the prior value.
func (s settingsModel) apply() tea.Cmd {
	parse := func(v string) int {
		n, _ := strconv.Atoi(v)
		return n
	}
	next := session.Settings{
		WorkMinutes:       parse(*s.workMin),
		ShortBreakMinutes: parse(*s.shortMin),
		LongBreakMinutes:  parse(*s.longMin),
		LongBreakEvery:    parse(*s.every),
	}

	if err := next.Validate(); err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Invalid settings: %v", err), isError: true}
		}
	}

	saveErr := s.engine.ApplySettings(next)
	return func() tea.Msg {
		return settingsAppliedMsg{saveErr: saveErr}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	cur := s.engine.Settings()
	rows := []string{
		titleStyle.Render("Settings"),
		"",
		settingRow("Work", fmt.Sprintf("%d min", cur.WorkMinutes)),
		settingRow("Short break", fmt.Sprintf("%d min", cur.ShortBreakMinutes)),
		settingRow("Long break", fmt.Sprintf("%d min", cur.LongBreakMinutes)),
		settingRow("Long break every", fmt.Sprintf("%d pomodoros", cur.LongBreakEvery)),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(20).Render(label),
		highlightStyle.Render(value),
	)
}
