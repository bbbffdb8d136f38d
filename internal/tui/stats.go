package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/session"
)

// statsModel charts focus time per day, derived from the history log.
type statsModel struct {
	engine *session.Engine
	width  int
	height int

	offset int // 7-day blocks back from today (0 = current)
	chart  barchart.Model
}

func newStatsModel(e *session.Engine) statsModel {
	return statsModel{
		engine: e,
		chart:  barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s statsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1-7*s.offset)
	return end.AddDate(0, 0, -7), end
}

// dayTotals aggregates work seconds and pomodoro counts per day.
func (s statsModel) dayTotals(from, to time.Time) (map[string]int, map[string]int) {
	seconds := make(map[string]int)
	pomos := make(map[string]int)
	for _, it := range s.engine.History() {
		if it.Phase != session.PhaseWork {
			continue
		}
		if it.End.Before(from) || !it.End.Before(to) {
			continue
		}
		day := it.End.Format("2006-01-02")
		seconds[day] += it.ActualSeconds
		if it.Status == session.StatusCompleted {
			pomos[day]++
		}
	}
	return seconds, pomos
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			s.offset++
		case "right", "l":
			if s.offset > 0 {
				s.offset--
			}
		default:
			if key.Matches(msg, keys.Back) {
				s.offset = 0
			}
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	from, to := s.dateRange()
	seconds, _ := s.dayTotals(from, to)

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		hours := float64(seconds[day]) / 3600.0

		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "focus", Value: hours, Style: style},
			},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	sCopy := s
	sCopy.buildChart()

	from, to := s.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Focus per day"), "  ", dateLabel,
	)

	seconds, pomos := s.dayTotals(from, to)
	var totalSecs, totalPomos int
	for _, v := range seconds {
		totalSecs += v
	}
	for _, v := range pomos {
		totalPomos += v
	}

	summary := fmt.Sprintf("  %s focus  ·  %d pomodoros completed",
		highlightStyle.Render(formatHours(totalSecs)), totalPomos)

	nav := mutedStyle.Render("  ←/→: navigate weeks  esc: today")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", sCopy.chart.View(), "", summary, "", nav,
		),
	)
}

func formatHours(secs int) string {
	if secs < 3600 {
		return fmt.Sprintf("%dm", secs/60)
	}
	return fmt.Sprintf("%.1fh", float64(secs)/3600)
}
