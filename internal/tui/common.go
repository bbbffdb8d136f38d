package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/pomo/internal/session"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewHistory
	viewStats
	viewSettings
)

var viewNames = []string{"Timer", "History", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type phaseFinishedMsg struct {
	item    session.HistoryItem
	saveErr error
}

type settingsAppliedMsg struct {
	saveErr error
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMMSS(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Format("15:04:05")
}

func formatStamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
