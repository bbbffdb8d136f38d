// Package store persists the settings+history snapshot as a single JSON
// file in the user's config directory. The whole snapshot is rewritten
// atomically on every save; an unreadable file falls back to defaults.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/pomo/internal/session"
)

// Store is the persistence gateway. It implements session.Saver.
type Store struct {
	path string
}

// New creates a store writing to the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// DefaultDataPath returns ~/.config/pomo/data.json (per-platform config dir).
func DefaultDataPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pomo", "data.json"), nil
}

// timeLayout is RFC3339: sortable and unambiguous.
const timeLayout = time.RFC3339

type snapshotFile struct {
	Settings settingsRecord  `json:"settings"`
	History  []historyRecord `json:"history"`
}

type settingsRecord struct {
	WorkMinutes       int `json:"work_minutes"`
	ShortBreakMinutes int `json:"short_break_minutes"`
	LongBreakMinutes  int `json:"long_break_minutes"`
	LongBreakEvery    int `json:"long_break_every"`
}

type historyRecord struct {
	Index          int    `json:"index"`
	Phase          string `json:"phase"`
	Task           string `json:"task"`
	Start          string `json:"start"`
	End            string `json:"end"`
	PlannedSeconds int    `json:"planned_seconds"`
	ActualSeconds  int    `json:"actual_seconds"`
	Status         string `json:"status"`
}

// Load reads the snapshot. A missing file yields defaults with no error.
// A file that cannot be parsed or fails validation yields defaults and a
// non-nil error for diagnostics; callers log it and carry on.
func (s *Store) Load() (session.Settings, []session.HistoryItem, error) {
	defaults := session.DefaultSettings()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil, nil
		}
		return defaults, nil, fmt.Errorf("read snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return defaults, nil, fmt.Errorf("parse snapshot: %w", err)
	}

	settings := session.Settings{
		WorkMinutes:       file.Settings.WorkMinutes,
		ShortBreakMinutes: file.Settings.ShortBreakMinutes,
		LongBreakMinutes:  file.Settings.LongBreakMinutes,
		LongBreakEvery:    file.Settings.LongBreakEvery,
	}
	if err := settings.Validate(); err != nil {
		return defaults, nil, fmt.Errorf("snapshot settings: %w", err)
	}

	history := make([]session.HistoryItem, 0, len(file.History))
	for i, rec := range file.History {
		item, err := decodeHistory(rec)
		if err != nil {
			// One bad entry discards the whole file, never a partial load.
			return defaults, nil, fmt.Errorf("snapshot history entry %d: %w", i, err)
		}
		history = append(history, item)
	}

	return settings, history, nil
}

func decodeHistory(rec historyRecord) (session.HistoryItem, error) {
	phase, err := session.ParsePhase(rec.Phase)
	if err != nil {
		return session.HistoryItem{}, err
	}
	status, err := session.ParseStatus(rec.Status)
	if err != nil {
		return session.HistoryItem{}, err
	}
	start, err := time.Parse(timeLayout, rec.Start)
	if err != nil {
		return session.HistoryItem{}, fmt.Errorf("start time: %w", err)
	}
	end, err := time.Parse(timeLayout, rec.End)
	if err != nil {
		return session.HistoryItem{}, fmt.Errorf("end time: %w", err)
	}
	if rec.Index < 1 {
		return session.HistoryItem{}, fmt.Errorf("invalid index %d", rec.Index)
	}
	if rec.ActualSeconds < 0 {
		return session.HistoryItem{}, fmt.Errorf("negative actual seconds %d", rec.ActualSeconds)
	}
	return session.HistoryItem{
		Index:          rec.Index,
		Phase:          phase,
		Task:           rec.Task,
		Start:          start,
		End:            end,
		PlannedSeconds: rec.PlannedSeconds,
		ActualSeconds:  rec.ActualSeconds,
		Status:         status,
	}, nil
}

// Save rewrites the entire snapshot from the in-memory state. The file is
// written to a temp name in the same directory and renamed into place so a
// crash mid-write never leaves a truncated snapshot.
func (s *Store) Save(settings session.Settings, history []session.HistoryItem) error {
	file := snapshotFile{
		Settings: settingsRecord{
			WorkMinutes:       settings.WorkMinutes,
			ShortBreakMinutes: settings.ShortBreakMinutes,
			LongBreakMinutes:  settings.LongBreakMinutes,
			LongBreakEvery:    settings.LongBreakEvery,
		},
		History: make([]historyRecord, 0, len(history)),
	}
	for _, item := range history {
		file.History = append(file.History, historyRecord{
			Index:          item.Index,
			Phase:          item.Phase.String(),
			Task:           item.Task,
			Start:          item.Start.Format(timeLayout),
			End:            item.End.Format(timeLayout),
			PlannedSeconds: item.PlannedSeconds,
			ActualSeconds:  item.ActualSeconds,
			Status:         item.Status.String(),
		})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "data-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
