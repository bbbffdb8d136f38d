package session

import (
	"fmt"
	"strings"
	"time"
)

// placeholderTask stands in for an empty task name in history records.
const placeholderTask = "—"

// Saver persists the settings+history snapshot. Injectable so the engine
// can be tested without touching the filesystem.
type Saver interface {
	Save(settings Settings, history []HistoryItem) error
}

// Engine is the session state machine. It is the single writer of its
// Session and Log; all operations run to completion without blocking, so
// the bubbletea update loop can drive it directly.
type Engine struct {
	clock Clock
	saver Saver

	sess Session
	log  *Log
}

// NewEngine builds an engine from a loaded snapshot. The first phase is a
// fresh idle Work phase sized from settings.
func NewEngine(settings Settings, history []HistoryItem, clock Clock, saver Saver) *Engine {
	if err := settings.Validate(); err != nil {
		settings = DefaultSettings()
	}
	e := &Engine{
		clock: clock,
		saver: saver,
		log:   NewLog(history),
	}
	e.sess.Settings = settings
	e.sess.CurrentPhase = PhaseWork
	e.resetPhaseDefaults()
	return e
}

func (e *Engine) resetPhaseDefaults() {
	secs := e.sess.DefaultPhaseSeconds()
	e.sess.PlannedSeconds = secs
	e.sess.RemainingSeconds = secs
	e.sess.StartAt = nil
	e.sess.EndAt = nil
	e.sess.State = Idle
}

// Start begins the current phase's countdown. No-op unless Idle.
func (e *Engine) Start() {
	if e.sess.State != Idle {
		return
	}
	now := e.clock.Now()
	e.sess.StartAt = &now
	end := now.Add(time.Duration(e.sess.RemainingSeconds) * time.Second)
	e.sess.EndAt = &end
	e.sess.State = Running
}

// Pause freezes the countdown. No-op unless Running.
func (e *Engine) Pause() {
	if e.sess.State != Running || e.sess.EndAt == nil {
		return
	}
	now := e.clock.Now()
	e.sess.RemainingSeconds = clampNonNegative(secondsUntil(*e.sess.EndAt, now))
	e.sess.EndAt = nil
	e.sess.State = Paused
}

// Resume continues a paused countdown. No-op unless Paused.
func (e *Engine) Resume() {
	if e.sess.State != Paused {
		return
	}
	now := e.clock.Now()
	if e.sess.StartAt == nil {
		e.sess.StartAt = &now
	}
	end := now.Add(time.Duration(e.sess.RemainingSeconds) * time.Second)
	e.sess.EndAt = &end
	e.sess.State = Running
}

// Toggle is the primary action: start when idle, pause when running,
// resume when paused.
func (e *Engine) Toggle() {
	switch e.sess.State {
	case Idle:
		e.Start()
	case Running:
		e.Pause()
	case Paused:
		e.Resume()
	}
}

// Finish terminates the current phase with the given status, appends a
// history record, advances the phase, and resets to the next phase's
// defaults. The returned error is a persistence failure only; the
// in-memory transition is never rolled back.
func (e *Engine) Finish(status Status) (HistoryItem, error) {
	s := &e.sess
	now := e.clock.Now()

	// Remaining from the deadline while running, so a late tick cannot
	// skew the recorded actual time.
	remaining := s.RemainingSeconds
	if s.State == Running && s.EndAt != nil {
		remaining = secondsUntil(*s.EndAt, now)
	}
	actual := clampNonNegative(s.PlannedSeconds - clampNonNegative(remaining))

	if s.StartAt == nil {
		s.StartAt = &now
	}

	task := strings.TrimSpace(s.TaskName)
	if task == "" {
		task = placeholderTask
	}

	item := e.log.Append(HistoryItem{
		Phase:          s.CurrentPhase,
		Task:           task,
		Start:          *s.StartAt,
		End:            now,
		PlannedSeconds: s.PlannedSeconds,
		ActualSeconds:  actual,
		Status:         status,
	})

	switch s.CurrentPhase {
	case PhaseWork:
		if status == StatusCompleted || status == StatusEnded {
			s.PomodorosCompleted++
		}
		s.CurrentPhase = PhaseBreak
	case PhaseBreak:
		// Finished or skipped, either way back to work.
		s.CurrentPhase = PhaseWork
	}

	e.resetPhaseDefaults()

	if err := e.save(); err != nil {
		return item, err
	}
	return item, nil
}

// Tick recomputes the cached remaining seconds from the deadline. When the
// deadline has passed it finishes the phase as completed and reports the
// appended record. No-op unless Running.
func (e *Engine) Tick() (finished bool, item HistoryItem, err error) {
	if e.sess.State != Running || e.sess.EndAt == nil {
		return false, HistoryItem{}, nil
	}
	now := e.clock.Now()
	rem := secondsUntil(*e.sess.EndAt, now)
	e.sess.RemainingSeconds = clampNonNegative(rem)
	if rem <= 0 {
		item, err = e.Finish(StatusCompleted)
		return true, item, err
	}
	return false, HistoryItem{}, nil
}

// Adjust grows or shrinks the current phase by delta seconds, clamping the
// planned duration to a 10 second floor. While running the deadline is
// shifted rather than the counter, so the elapsed portion is preserved
// exactly and no drift is introduced.
func (e *Engine) Adjust(delta int) {
	s := &e.sess

	newPlanned := s.PlannedSeconds + delta
	if newPlanned < minPlannedSeconds {
		newPlanned = minPlannedSeconds
	}
	actualDelta := newPlanned - s.PlannedSeconds
	s.PlannedSeconds = newPlanned

	if s.State == Running && s.EndAt != nil {
		end := s.EndAt.Add(time.Duration(actualDelta) * time.Second)
		s.EndAt = &end
		// Cached value refreshed for responsiveness; the deadline stays
		// authoritative until the next tick.
		s.RemainingSeconds = clampNonNegative(secondsUntil(end, e.clock.Now()))
		return
	}

	rem := s.RemainingSeconds + actualDelta
	if rem < 0 {
		rem = 0
	}
	if rem > s.PlannedSeconds {
		rem = s.PlannedSeconds
	}
	s.RemainingSeconds = rem
}

// ApplySettings replaces the configuration wholesale. Invalid settings are
// rejected and the prior value kept. When idle the current phase is resized
// from the new settings; a running or paused phase keeps its timing until
// the next phase boundary. The edit is persisted immediately.
func (e *Engine) ApplySettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.sess.Settings = s
	if e.sess.State == Idle {
		e.resetPhaseDefaults()
	}
	return e.save()
}

// SetTask records the task text. Retained across phase boundaries.
func (e *Engine) SetTask(name string) {
	e.sess.TaskName = name
}

// SkipBreak records a skipped break. No-op unless an idle break phase.
func (e *Engine) SkipBreak() (HistoryItem, bool, error) {
	if e.sess.CurrentPhase != PhaseBreak || e.sess.State != Idle {
		return HistoryItem{}, false, nil
	}
	item, err := e.Finish(StatusSkipped)
	return item, true, err
}

// ResetSession abandons the current phase and returns to a fresh idle Work
// phase. History and the pomodoro count are kept; nothing is recorded.
func (e *Engine) ResetSession() {
	e.sess.CurrentPhase = PhaseWork
	e.resetPhaseDefaults()
}

// Settings returns the current configuration.
func (e *Engine) Settings() Settings {
	return e.sess.Settings
}

// History returns a copy of the recorded history, oldest first.
func (e *Engine) History() []HistoryItem {
	return e.log.Items()
}

func (e *Engine) save() error {
	if e.saver == nil {
		return nil
	}
	if err := e.saver.Save(e.sess.Settings, e.log.Items()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func secondsUntil(deadline, now time.Time) int {
	return int(deadline.Sub(now) / time.Second)
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
