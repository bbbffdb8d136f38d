package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomo/internal/session"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Items      []jsonEntry `json:"items"`
}

type jsonEntry struct {
	Index          int    `json:"index"`
	Phase          string `json:"phase"`
	Task           string `json:"task,omitempty"`
	Start          string `json:"start"`
	End            string `json:"end"`
	PlannedSeconds int    `json:"planned_seconds"`
	ActualSeconds  int    `json:"actual_seconds"`
	Status         string `json:"status"`
}

func ToJSON(items []session.HistoryItem, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(items),
	}

	for _, it := range items {
		out.Items = append(out.Items, jsonEntry{
			Index:          it.Index,
			Phase:          it.Phase.String(),
			Task:           it.Task,
			Start:          it.Start.Local().Format(time.RFC3339),
			End:            it.End.Local().Format(time.RFC3339),
			PlannedSeconds: it.PlannedSeconds,
			ActualSeconds:  it.ActualSeconds,
			Status:         it.Status.String(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
