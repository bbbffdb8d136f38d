package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomo/internal/session"
)

func ToCSV(items []session.HistoryItem, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Index", "Phase", "Task", "Start", "End", "Planned (s)", "Actual (s)", "Status"}); err != nil {
		return err
	}

	for _, it := range items {
		row := []string{
			fmt.Sprintf("%d", it.Index),
			it.Phase.String(),
			it.Task,
			it.Start.Local().Format(time.RFC3339),
			it.End.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", it.PlannedSeconds),
			fmt.Sprintf("%d", it.ActualSeconds),
			it.Status.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
