package session

import "time"

// PrimaryAction is what the main control does in the current state.
type PrimaryAction int

const (
	ActionStart PrimaryAction = iota
	ActionStartBreak
	ActionPause
	ActionResume
)

func (a PrimaryAction) String() string {
	switch a {
	case ActionStart:
		return "Start"
	case ActionStartBreak:
		return "Start Break"
	case ActionPause:
		return "Pause"
	case ActionResume:
		return "Continue"
	}
	return "unknown"
}

// Snapshot is the read model the presentation layer renders. It is a pure
// projection of the session; nothing in it is written back.
type Snapshot struct {
	Phase        Phase
	PhaseLabel   string
	LongBreakDue bool
	State        RunState

	Pomodoros int
	Task      string

	PlannedSeconds   int
	RemainingSeconds int
	ElapsedSeconds   int

	StartAt *time.Time // nil until the phase has been started
	EndAt   *time.Time // deadline while running, projected end while paused

	Primary       PrimaryAction
	CanEnd        bool // end the phase early
	CanSkip       bool // skip an unstarted break
	CanEndSession bool // abandon the break, back to a fresh work phase
}

// Snapshot projects the current state for display. While running the
// remaining time is recomputed from the deadline on every call, so display
// accuracy does not depend on tick cadence.
func (e *Engine) Snapshot() Snapshot {
	s := &e.sess
	now := e.clock.Now()

	remaining := s.RemainingSeconds
	if s.State == Running && s.EndAt != nil {
		remaining = clampNonNegative(secondsUntil(*s.EndAt, now))
	}

	snap := Snapshot{
		Phase:            s.CurrentPhase,
		LongBreakDue:     s.LongBreakDue(),
		State:            s.State,
		Pomodoros:        s.PomodorosCompleted,
		Task:             s.TaskName,
		PlannedSeconds:   s.PlannedSeconds,
		RemainingSeconds: remaining,
		ElapsedSeconds:   clampNonNegative(s.PlannedSeconds - remaining),
	}

	switch {
	case s.CurrentPhase == PhaseWork:
		snap.PhaseLabel = "Work"
	case snap.LongBreakDue:
		snap.PhaseLabel = "Long Break"
	default:
		snap.PhaseLabel = "Break"
	}

	if s.State != Idle && s.StartAt != nil {
		t := *s.StartAt
		snap.StartAt = &t
	}
	switch s.State {
	case Running:
		if s.EndAt != nil {
			t := *s.EndAt
			snap.EndAt = &t
		}
	case Paused:
		// Projected end if resumed now; display only, never stored.
		t := now.Add(time.Duration(remaining) * time.Second)
		snap.EndAt = &t
	}

	switch s.State {
	case Idle:
		if s.CurrentPhase == PhaseBreak {
			snap.Primary = ActionStartBreak
			snap.CanSkip = true
			snap.CanEndSession = true
		} else {
			snap.Primary = ActionStart
		}
	case Running:
		snap.Primary = ActionPause
	case Paused:
		snap.Primary = ActionResume
		snap.CanEnd = true
	}

	return snap
}
