package session

import (
	"fmt"
	"time"
)

// Phase is which interval kind is currently active.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	switch p {
	case PhaseWork:
		return "work"
	case PhaseBreak:
		return "break"
	}
	return "unknown"
}

// ParsePhase maps a stored phase label back to its Phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "work":
		return PhaseWork, nil
	case "break":
		return PhaseBreak, nil
	}
	return PhaseWork, fmt.Errorf("unknown phase %q", s)
}

// RunState is whether the active phase's countdown has been started.
type RunState int

const (
	Idle RunState = iota
	Running
	Paused
)

func (r RunState) String() string {
	switch r {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Status records how a phase was terminated.
type Status int

const (
	StatusCompleted Status = iota // timer ran out
	StatusEnded                   // user ended the phase early
	StatusSkipped                 // break skipped without starting
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusEnded:
		return "ended"
	case StatusSkipped:
		return "skipped"
	}
	return "unknown"
}

// ParseStatus maps a stored status label back to its Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "completed":
		return StatusCompleted, nil
	case "ended":
		return StatusEnded, nil
	case "skipped":
		return StatusSkipped, nil
	}
	return StatusCompleted, fmt.Errorf("unknown status %q", s)
}

// Settings holds the configured interval durations and long break cadence.
// A Settings value is never partially mutated; edits replace it wholesale.
type Settings struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakEvery    int // long break after every N completed pomodoros
}

// DefaultSettings returns the classic 25/5/15 configuration.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakEvery:    4,
	}
}

// Validate rejects non-positive fields.
func (s Settings) Validate() error {
	if s.WorkMinutes < 1 {
		return fmt.Errorf("work minutes must be at least 1, got %d", s.WorkMinutes)
	}
	if s.ShortBreakMinutes < 1 {
		return fmt.Errorf("short break minutes must be at least 1, got %d", s.ShortBreakMinutes)
	}
	if s.LongBreakMinutes < 1 {
		return fmt.Errorf("long break minutes must be at least 1, got %d", s.LongBreakMinutes)
	}
	if s.LongBreakEvery < 1 {
		return fmt.Errorf("long break cadence must be at least 1, got %d", s.LongBreakEvery)
	}
	return nil
}

// minPlannedSeconds is the floor for a phase duration after adjustments.
const minPlannedSeconds = 10

// Session is the mutable timer/phase state. It is owned and mutated
// exclusively by Engine.
type Session struct {
	Settings           Settings
	PomodorosCompleted int
	CurrentPhase       Phase
	TaskName           string

	State            RunState
	PlannedSeconds   int
	RemainingSeconds int // authoritative while Idle/Paused; cached while Running

	StartAt *time.Time
	EndAt   *time.Time // authoritative deadline; non-nil iff State == Running
}

// DefaultPhaseSeconds returns the configured duration for the current phase.
// A due long break substitutes the long break duration.
func (s *Session) DefaultPhaseSeconds() int {
	if s.CurrentPhase == PhaseWork {
		return s.Settings.WorkMinutes * 60
	}
	if s.LongBreakDue() {
		return s.Settings.LongBreakMinutes * 60
	}
	return s.Settings.ShortBreakMinutes * 60
}

// LongBreakDue reports whether the next break should be a long one:
// true exactly when the completed count is a positive multiple of the cadence.
func (s *Session) LongBreakDue() bool {
	every := s.Settings.LongBreakEvery
	if every <= 0 {
		return false
	}
	return s.PomodorosCompleted > 0 && s.PomodorosCompleted%every == 0
}
