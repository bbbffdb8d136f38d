package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/pomo/internal/session"
)

func sampleItems() []session.HistoryItem {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []session.HistoryItem{
		{
			Index:          1,
			Phase:          session.PhaseWork,
			Task:           "write tests",
			Start:          start,
			End:            start.Add(25 * time.Minute),
			PlannedSeconds: 1500,
			ActualSeconds:  1500,
			Status:         session.StatusCompleted,
		},
		{
			Index:          2,
			Phase:          session.PhaseBreak,
			Task:           "—",
			Start:          start.Add(25 * time.Minute),
			End:            start.Add(30 * time.Minute),
			PlannedSeconds: 300,
			ActualSeconds:  300,
			Status:         session.StatusCompleted,
		},
	}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(sampleItems(), path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Index" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "work" || rows[1][7] != "completed" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][1] != "break" {
		t.Fatalf("unexpected second row: %v", rows[2])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ToJSON(sampleItems(), path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out jsonExport
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || len(out.Items) != 2 {
		t.Fatalf("count = %d, items = %d, want 2/2", out.Count, len(out.Items))
	}
	if out.Items[0].Phase != "work" || out.Items[0].Index != 1 {
		t.Fatalf("unexpected first item: %+v", out.Items[0])
	}
	if out.Items[1].Status != "completed" {
		t.Fatalf("unexpected second item: %+v", out.Items[1])
	}
	if _, err := time.Parse(time.RFC3339, out.Items[0].Start); err != nil {
		t.Fatalf("start not RFC3339: %v", err)
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(sampleItems(), filepath.Join(t.TempDir(), "missing", "out.csv"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
