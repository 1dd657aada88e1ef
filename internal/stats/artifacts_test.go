package stats

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zombies/internal/model"
)

func testArtifacts(id string, started time.Time) RunArtifacts {
	return RunArtifacts{
		Run: model.RunRecord{
			ID:           id,
			Seed:         7,
			StartedAt:    started,
			Ticks:        3,
			FinalHumans:  0,
			FinalZombies: 6,
			Extinct:      true,
			Config:       json.RawMessage(`{"seed":7,"width":20}`),
		},
		Ticks: []model.TickStats{
			{Tick: 1, Humans: 4, Zombies: 3, Births: 1, FoodEaten: 2},
			{Tick: 2, Humans: 2, Zombies: 5, Conversions: 2},
			{Tick: 3, Humans: 0, Zombies: 6, Conversions: 2, ZombieDeaths: 1},
		},
	}
}

func TestWriteAndExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")

	runDir, err := WriteRunArtifacts(baseDir, testArtifacts("run-123", time.Now()))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	for _, file := range artifactFiles {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("expected file %s: %v", file, err)
		}
	}

	f, err := os.Open(filepath.Join(runDir, ticksFile))
	if err != nil {
		t.Fatalf("open ticks: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read ticks: %v", err)
	}
	if len(rows) != 4 || rows[0][0] != "tick" || rows[3][2] != "6" {
		t.Fatalf("unexpected ticks csv: %v", rows)
	}

	exportedDir, err := ExportRunArtifacts(baseDir, "run-123", outDir)
	if err != nil {
		t.Fatalf("export artifacts: %v", err)
	}
	for _, file := range artifactFiles {
		if _, err := os.Stat(filepath.Join(exportedDir, file)); err != nil {
			t.Fatalf("expected exported file %s: %v", file, err)
		}
	}
	if _, err := ExportRunArtifacts(baseDir, "missing", outDir); err == nil {
		t.Fatal("expected error exporting unknown run")
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	baseDir := t.TempDir()
	if _, err := WriteRunArtifacts(baseDir, testArtifacts("run-1", time.Now())); err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	summary, ok, err := ReadSummary(baseDir, "run-1")
	if err != nil || !ok {
		t.Fatalf("read summary: ok=%t err=%v", ok, err)
	}
	if summary.PeakZombies != 6 || summary.PeakZombiesTick != 3 {
		t.Fatalf("unexpected peak: %+v", summary)
	}
	if summary.TotalBirths != 1 || summary.TotalConversions != 4 || summary.TotalZombieDeaths != 1 || summary.TotalFoodEaten != 2 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.HumanExtinctAt != 3 {
		t.Fatalf("unexpected extinction tick: %d", summary.HumanExtinctAt)
	}
	if _, ok, err := ReadSummary(baseDir, "missing"); ok || err != nil {
		t.Fatalf("expected missing summary, got ok=%t err=%v", ok, err)
	}
}

func TestRunIndexNewestFirst(t *testing.T) {
	baseDir := t.TempDir()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new", "mid"} {
		started := base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
		if _, err := WriteRunArtifacts(baseDir, testArtifacts(id, started)); err != nil {
			t.Fatalf("write %s: %v", id, err)
		}
	}
	// rewriting a run replaces its entry
	if _, err := WriteRunArtifacts(baseDir, testArtifacts("old", base)); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(index) != 3 || index[0].RunID != "new" || index[1].RunID != "mid" || index[2].RunID != "old" {
		t.Fatalf("unexpected index order: %+v", index)
	}
	if !index[0].Extinct || index[0].FinalZombies != 6 {
		t.Fatalf("unexpected index entry: %+v", index[0])
	}
}
