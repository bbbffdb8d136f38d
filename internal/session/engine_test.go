package session

import (
	"errors"
	"testing"
	"time"
)

// fakeClock is a manually advanced wall clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// memorySaver records saves in memory; optionally fails.
type memorySaver struct {
	saves        int
	failWith     error
	lastSettings Settings
	lastHistory  []HistoryItem
}

func (m *memorySaver) Save(settings Settings, history []HistoryItem) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.saves++
	m.lastSettings = settings
	m.lastHistory = history
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeClock, *memorySaver) {
	t.Helper()
	clock := newFakeClock()
	saver := &memorySaver{}
	e := NewEngine(DefaultSettings(), nil, clock, saver)
	return e, clock, saver
}

// ============================================================
// Run state transitions
// ============================================================

func TestStartSetsDeadline(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	if e.sess.State != Running {
		t.Fatal("start should set state to running")
	}
	if e.sess.StartAt == nil || !e.sess.StartAt.Equal(clock.Now()) {
		t.Fatal("start_at should be now")
	}
	want := clock.Now().Add(25 * time.Minute)
	if e.sess.EndAt == nil || !e.sess.EndAt.Equal(want) {
		t.Fatalf("end_at = %v, want %v", e.sess.EndAt, want)
	}
}

func TestStartNoOpUnlessIdle(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	firstEnd := *e.sess.EndAt

	clock.Advance(time.Minute)
	e.Start() // running: no-op
	if !e.sess.EndAt.Equal(firstEnd) {
		t.Fatal("start while running should not move the deadline")
	}

	e.Pause()
	e.Start() // paused: no-op
	if e.sess.State != Paused {
		t.Fatal("start while paused should be a no-op")
	}
}

func TestPausePreservesRemaining(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	before := e.sess.RemainingSeconds
	e.Start()
	e.Pause()
	if e.sess.State != Paused {
		t.Fatal("should be paused")
	}
	if e.sess.EndAt != nil {
		t.Fatal("end_at must be nil while paused")
	}
	// Start then immediately pause: remaining unchanged.
	if e.sess.RemainingSeconds != before {
		t.Fatalf("remaining = %d, want %d", e.sess.RemainingSeconds, before)
	}

	e.Resume()
	clock.Advance(90 * time.Second)
	e.Pause()
	if got := e.sess.RemainingSeconds; got != before-90 {
		t.Fatalf("remaining after 90s = %d, want %d", got, before-90)
	}
}

func TestPauseNoOpUnlessRunning(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.Pause()
	if e.sess.State != Idle {
		t.Fatal("pause while idle should be a no-op")
	}
}

func TestResumeRestoresDeadline(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	clock.Advance(5 * time.Minute)
	e.Pause()
	rem := e.sess.RemainingSeconds

	clock.Advance(time.Hour) // pause gap must not count
	e.Resume()
	if e.sess.State != Running {
		t.Fatal("should be running")
	}
	want := clock.Now().Add(time.Duration(rem) * time.Second)
	if !e.sess.EndAt.Equal(want) {
		t.Fatalf("end_at = %v, want %v", e.sess.EndAt, want)
	}
}

func TestResumeNoOpUnlessPaused(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.Resume()
	if e.sess.State != Idle {
		t.Fatal("resume while idle should be a no-op")
	}

	e.Start()
	end := *e.sess.EndAt
	e.Resume()
	if !e.sess.EndAt.Equal(end) {
		t.Fatal("resume while running should not move the deadline")
	}
}

func TestToggleCycles(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.Toggle()
	if e.sess.State != Running {
		t.Fatal("toggle from idle should start")
	}
	e.Toggle()
	if e.sess.State != Paused {
		t.Fatal("toggle from running should pause")
	}
	e.Toggle()
	if e.sess.State != Running {
		t.Fatal("toggle from paused should resume")
	}
}

// ============================================================
// Tick
// ============================================================

func TestTickRecomputesFromDeadline(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	clock.Advance(10 * time.Second)
	finished, _, err := e.Tick()
	if err != nil || finished {
		t.Fatalf("unexpected finish: %v %v", finished, err)
	}
	if got := e.sess.RemainingSeconds; got != 25*60-10 {
		t.Fatalf("remaining = %d, want %d", got, 25*60-10)
	}
}

func TestTickImmuneToMissedTicks(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	// A single late tick observes the full elapsed delta; no compounding.
	clock.Advance(7 * time.Minute)
	e.Tick()
	if got := e.sess.RemainingSeconds; got != 18*60 {
		t.Fatalf("remaining = %d, want %d", got, 18*60)
	}
}

func TestTickNoOpUnlessRunning(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	clock.Advance(time.Minute)
	finished, _, _ := e.Tick()
	if finished || e.sess.RemainingSeconds != 25*60 {
		t.Fatal("tick while idle should be a no-op")
	}

	e.Start()
	e.Pause()
	rem := e.sess.RemainingSeconds
	clock.Advance(time.Hour)
	e.Tick()
	if e.sess.RemainingSeconds != rem {
		t.Fatal("tick while paused should not touch remaining")
	}
}

func TestTickCompletesPhase(t *testing.T) {
	e, clock, saver := newTestEngine(t)

	e.Start()
	clock.Advance(25 * time.Minute)
	finished, item, err := e.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if !finished {
		t.Fatal("tick at the deadline should finish the phase")
	}

	if item.Index != 1 {
		t.Fatalf("index = %d, want 1", item.Index)
	}
	if item.Phase != PhaseWork || item.Status != StatusCompleted {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.PlannedSeconds != 1500 || item.ActualSeconds != 1500 {
		t.Fatalf("planned/actual = %d/%d, want 1500/1500", item.PlannedSeconds, item.ActualSeconds)
	}

	if e.sess.PomodorosCompleted != 1 {
		t.Fatalf("pomodoros = %d, want 1", e.sess.PomodorosCompleted)
	}
	if e.sess.CurrentPhase != PhaseBreak {
		t.Fatal("should advance to break")
	}
	if e.sess.State != Idle || e.sess.EndAt != nil || e.sess.StartAt != nil {
		t.Fatal("new phase should be a fresh idle phase")
	}
	if e.sess.PlannedSeconds != 5*60 {
		t.Fatalf("break planned = %d, want %d", e.sess.PlannedSeconds, 5*60)
	}
	if saver.saves != 1 {
		t.Fatalf("saves = %d, want 1", saver.saves)
	}
}

// ============================================================
// Finish
// ============================================================

func TestFinishStatusEffects(t *testing.T) {
	tests := []struct {
		name      string
		phase     Phase
		status    Status
		wantPomos int
		wantPhase Phase
	}{
		{"work completed", PhaseWork, StatusCompleted, 1, PhaseBreak},
		{"work ended", PhaseWork, StatusEnded, 1, PhaseBreak},
		{"work skipped", PhaseWork, StatusSkipped, 0, PhaseBreak},
		{"break completed", PhaseBreak, StatusCompleted, 0, PhaseWork},
		{"break ended", PhaseBreak, StatusEnded, 0, PhaseWork},
		{"break skipped", PhaseBreak, StatusSkipped, 0, PhaseWork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(t)
			e.sess.CurrentPhase = tt.phase
			e.resetPhaseDefaults()

			item, err := e.Finish(tt.status)
			if err != nil {
				t.Fatal(err)
			}
			if item.Status != tt.status || item.Phase != tt.phase {
				t.Fatalf("unexpected item: %+v", item)
			}
			if e.sess.PomodorosCompleted != tt.wantPomos {
				t.Fatalf("pomodoros = %d, want %d", e.sess.PomodorosCompleted, tt.wantPomos)
			}
			if e.sess.CurrentPhase != tt.wantPhase {
				t.Fatalf("phase = %v, want %v", e.sess.CurrentPhase, tt.wantPhase)
			}
		})
	}
}

func TestFinishAppendsSequentialIndices(t *testing.T) {
	e, _, _ := newTestEngine(t)

	for want := 1; want <= 5; want++ {
		item, err := e.Finish(StatusEnded)
		if err != nil {
			t.Fatal(err)
		}
		if item.Index != want {
			t.Fatalf("index = %d, want %d", item.Index, want)
		}
	}
	if e.log.Len() != 5 {
		t.Fatalf("history length = %d, want 5", e.log.Len())
	}
}

func TestFinishDerivesActualFromDeadline(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	clock.Advance(10 * time.Minute)
	// No tick since start: the cached remaining is stale on purpose.
	item, err := e.Finish(StatusEnded)
	if err != nil {
		t.Fatal(err)
	}
	if item.ActualSeconds != 600 {
		t.Fatalf("actual = %d, want 600", item.ActualSeconds)
	}
}

func TestFinishNeverStartedPhase(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	item, err := e.Finish(StatusEnded)
	if err != nil {
		t.Fatal(err)
	}
	if item.ActualSeconds != 0 {
		t.Fatalf("actual = %d, want 0", item.ActualSeconds)
	}
	if !item.Start.Equal(clock.Now()) || !item.End.Equal(clock.Now()) {
		t.Fatal("start/end should both be now for a never-started phase")
	}
}

func TestFinishTaskPlaceholder(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.SetTask("   ")
	item, _ := e.Finish(StatusEnded)
	if item.Task != "—" {
		t.Fatalf("task = %q, want placeholder", item.Task)
	}
	// The session's own task text is not rewritten.
	if e.sess.TaskName != "   " {
		t.Fatal("task_name should be untouched")
	}

	e.SetTask("  write tests  ")
	item, _ = e.Finish(StatusEnded)
	if item.Task != "write tests" {
		t.Fatalf("task = %q, want trimmed text", item.Task)
	}
}

func TestTaskRetainedAcrossPhases(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.SetTask("deep work")
	e.Finish(StatusCompleted) // work -> break
	if e.sess.TaskName != "deep work" {
		t.Fatal("task should survive the phase boundary")
	}
	e.Finish(StatusCompleted) // break -> work
	if e.sess.TaskName != "deep work" {
		t.Fatal("task should survive the break too")
	}
}

func TestFinishSaveFailureKeepsTransition(t *testing.T) {
	e, _, saver := newTestEngine(t)
	saver.failWith = errors.New("disk full")

	item, err := e.Finish(StatusCompleted)
	if err == nil {
		t.Fatal("expected save error")
	}
	if item.Index != 1 {
		t.Fatal("history entry should still be appended")
	}
	if e.sess.PomodorosCompleted != 1 || e.sess.CurrentPhase != PhaseBreak {
		t.Fatal("in-memory transition must not be rolled back")
	}
}

// ============================================================
// Adjust
// ============================================================

func TestAdjustFloor(t *testing.T) {
	e, _, _ := newTestEngine(t)

	for i := 0; i < 50; i++ {
		e.Adjust(-600)
	}
	if e.sess.PlannedSeconds != 10 {
		t.Fatalf("planned = %d, want floor 10", e.sess.PlannedSeconds)
	}
	e.Adjust(-1)
	if e.sess.PlannedSeconds != 10 {
		t.Fatal("planned must never go below 10")
	}
}

func TestAdjustRunningShiftsDeadline(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	clock.Advance(15 * time.Minute) // remaining 600
	e.Tick()

	end := *e.sess.EndAt
	e.Adjust(-60)
	e.Adjust(-60)
	e.Adjust(-60)
	e.Adjust(10)

	if e.sess.PlannedSeconds != 1330 {
		t.Fatalf("planned = %d, want 1330", e.sess.PlannedSeconds)
	}
	wantEnd := end.Add(-170 * time.Second)
	if !e.sess.EndAt.Equal(wantEnd) {
		t.Fatalf("end_at = %v, want %v", e.sess.EndAt, wantEnd)
	}
	if got := e.sess.RemainingSeconds; got != 600-170 {
		t.Fatalf("remaining = %d, want %d", got, 600-170)
	}
}

func TestAdjustRunningPreservesElapsed(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	clock.Advance(5 * time.Minute)
	e.Adjust(120)
	e.Tick()

	elapsed := e.sess.PlannedSeconds - e.sess.RemainingSeconds
	if elapsed != 300 {
		t.Fatalf("elapsed = %d, want 300", elapsed)
	}
}

func TestAdjustIdleClampsRemaining(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.Adjust(60)
	if e.sess.PlannedSeconds != 1560 || e.sess.RemainingSeconds != 1560 {
		t.Fatalf("planned/remaining = %d/%d, want 1560/1560",
			e.sess.PlannedSeconds, e.sess.RemainingSeconds)
	}

	e.Adjust(-1560)
	if e.sess.PlannedSeconds != 10 {
		t.Fatalf("planned = %d, want 10", e.sess.PlannedSeconds)
	}
	if e.sess.RemainingSeconds != 10 {
		t.Fatalf("remaining = %d, want clamp to planned", e.sess.RemainingSeconds)
	}
}

func TestAdjustPausedClampsAtZero(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	clock.Advance(24 * time.Minute)
	e.Pause() // remaining 60

	e.Adjust(-600) // planned 900, delta -600, remaining would be -540
	if e.sess.RemainingSeconds != 0 {
		t.Fatalf("remaining = %d, want 0", e.sess.RemainingSeconds)
	}
	if e.sess.PlannedSeconds != 900 {
		t.Fatalf("planned = %d, want 900", e.sess.PlannedSeconds)
	}
}

// ============================================================
// Long break scheduling
// ============================================================

func TestLongBreakAfterEveryFourth(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	for i := 1; i <= 4; i++ {
		e.Start()
		clock.Advance(25 * time.Minute)
		finished, _, _ := e.Tick()
		if !finished {
			t.Fatalf("work %d should have finished", i)
		}

		wantBreak := 5 * 60
		if i == 4 {
			wantBreak = 15 * 60
		}
		if e.sess.PlannedSeconds != wantBreak {
			t.Fatalf("break %d planned = %d, want %d", i, e.sess.PlannedSeconds, wantBreak)
		}

		e.Finish(StatusCompleted) // take the break
	}

	if e.sess.PomodorosCompleted != 4 {
		t.Fatalf("pomodoros = %d, want 4", e.sess.PomodorosCompleted)
	}
}

// ============================================================
// Settings edit
// ============================================================

func TestApplySettingsWhileIdleResizesPhase(t *testing.T) {
	e, _, saver := newTestEngine(t)

	next := Settings{WorkMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, LongBreakEvery: 2}
	if err := e.ApplySettings(next); err != nil {
		t.Fatal(err)
	}
	if e.sess.PlannedSeconds != 50*60 || e.sess.RemainingSeconds != 50*60 {
		t.Fatal("idle phase should be resized from the new settings")
	}
	if saver.saves != 1 {
		t.Fatal("settings edit should save")
	}
}

func TestApplySettingsWhileRunningDeferred(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	e.Start()
	end := *e.sess.EndAt

	next := Settings{WorkMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, LongBreakEvery: 4}
	if err := e.ApplySettings(next); err != nil {
		t.Fatal(err)
	}
	if !e.sess.EndAt.Equal(end) || e.sess.PlannedSeconds != 25*60 {
		t.Fatal("a running phase must keep its timing")
	}

	// The new settings kick in at the next phase boundary.
	clock.Advance(25 * time.Minute)
	e.Tick()
	e.Finish(StatusEnded) // break over, back to work
	if e.sess.PlannedSeconds != 50*60 {
		t.Fatalf("next work planned = %d, want %d", e.sess.PlannedSeconds, 50*60)
	}
}

func TestApplySettingsRejectsInvalid(t *testing.T) {
	e, _, saver := newTestEngine(t)
	prior := e.Settings()

	bad := Settings{WorkMinutes: 0, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakEvery: 4}
	if err := e.ApplySettings(bad); err == nil {
		t.Fatal("expected validation error")
	}
	if e.Settings() != prior {
		t.Fatal("prior settings must be retained")
	}
	if saver.saves != 0 {
		t.Fatal("rejected edit must not save")
	}
}

// ============================================================
// Skip break and session reset
// ============================================================

func TestSkipBreakOnlyWhenIdleBreak(t *testing.T) {
	e, _, _ := newTestEngine(t)

	if _, ok, _ := e.SkipBreak(); ok {
		t.Fatal("skip during work should be refused")
	}

	e.Finish(StatusCompleted) // -> break
	e.Start()
	if _, ok, _ := e.SkipBreak(); ok {
		t.Fatal("skip during a running break should be refused")
	}
	e.Pause()
	if _, ok, _ := e.SkipBreak(); ok {
		t.Fatal("skip during a paused break should be refused")
	}

	e.ResetSession()
	e.Finish(StatusCompleted) // -> break again, idle
	item, ok, err := e.SkipBreak()
	if err != nil || !ok {
		t.Fatalf("skip should succeed: %v", err)
	}
	if item.Status != StatusSkipped || item.Phase != PhaseBreak {
		t.Fatalf("unexpected item: %+v", item)
	}
	if e.sess.CurrentPhase != PhaseWork {
		t.Fatal("skipping a break should return to work")
	}
}

func TestResetSessionKeepsHistoryAndCount(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.Finish(StatusCompleted) // -> break, pomodoros 1
	e.Start()
	e.ResetSession()

	if e.sess.CurrentPhase != PhaseWork || e.sess.State != Idle {
		t.Fatal("reset should yield a fresh idle work phase")
	}
	if e.sess.PomodorosCompleted != 1 {
		t.Fatal("reset must not touch the pomodoro count")
	}
	if e.log.Len() != 1 {
		t.Fatal("reset must not record history")
	}
}

// ============================================================
// Construction
// ============================================================

func TestNewEngineContinuesIndices(t *testing.T) {
	clock := newFakeClock()
	loaded := []HistoryItem{
		{Index: 7, Phase: PhaseWork, Start: clock.Now(), End: clock.Now(), Status: StatusCompleted},
	}
	e := NewEngine(DefaultSettings(), loaded, clock, &memorySaver{})

	item, _ := e.Finish(StatusEnded)
	if item.Index != 8 {
		t.Fatalf("index = %d, want 8", item.Index)
	}
}

func TestNewEngineInvalidSettingsFallBack(t *testing.T) {
	e := NewEngine(Settings{}, nil, newFakeClock(), &memorySaver{})
	if e.Settings() != DefaultSettings() {
		t.Fatal("zero settings should fall back to defaults")
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Finish(StatusEnded)

	items := e.History()
	items[0].Task = "mutated"
	if e.History()[0].Task == "mutated" {
		t.Fatal("History must return a copy")
	}
}
