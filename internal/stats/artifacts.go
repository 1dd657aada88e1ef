package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"zombies/internal/model"
)

const (
	runIndexFile = "run_index.json"
	configFile   = "config.json"
	ticksFile    = "ticks.csv"
	summaryFile  = "summary.json"
)

var artifactFiles = []string{configFile, ticksFile, summaryFile}

var tickHeader = []string{
	"tick", "humans", "zombies", "births", "conversions", "zombie_deaths",
	"food_spawned", "food_eaten", "food_on_grid",
	"mean_human_strength", "mean_zombie_strength", "evolved",
}

type RunArtifacts struct {
	Run   model.RunRecord
	Ticks []model.TickStats
}

type RunIndexEntry struct {
	RunID        string `json:"run_id"`
	Seed         int64  `json:"seed"`
	Ticks        int    `json:"ticks"`
	FinalHumans  int    `json:"final_humans"`
	FinalZombies int    `json:"final_zombies"`
	Extinct      bool   `json:"extinct"`
	CreatedAtUTC string `json:"created_at_utc"`
}

// WriteRunArtifacts writes config.json, ticks.csv and summary.json into
// baseDir/<run id> and records the run in the index.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	run := artifacts.Run
	if run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	cfg := json.RawMessage(run.Config)
	if len(cfg) == 0 {
		cfg = json.RawMessage("{}")
	}
	if err := writeJSON(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeTicksCSV(filepath.Join(runDir, ticksFile), artifacts.Ticks); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, summaryFile), Summarize(run, artifacts.Ticks)); err != nil {
		return "", err
	}

	entry := RunIndexEntry{
		RunID:        run.ID,
		Seed:         run.Seed,
		Ticks:        run.Ticks,
		FinalHumans:  run.FinalHumans,
		FinalZombies: run.FinalZombies,
		Extinct:      run.Extinct,
		CreatedAtUTC: run.StartedAt.UTC().Format("2006-01-02T15:04:05.000000000Z"),
	}
	if err := AppendRunIndex(baseDir, entry); err != nil {
		return "", err
	}
	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns indexed runs newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAtUTC > entries[j].CreatedAtUTC
	})
	return entries, nil
}

// ExportRunArtifacts copies the artifacts of one run into outDir/<run id>.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}
	for _, file := range artifactFiles {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

// ReadSummary loads summary.json of a run.
func ReadSummary(baseDir, runID string) (RunSummary, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, summaryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return RunSummary{}, false, nil
		}
		return RunSummary{}, false, err
	}
	var summary RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return RunSummary{}, false, err
	}
	return summary, true, nil
}

func writeTicksCSV(path string, ticks []model.TickStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tickHeader); err != nil {
		return err
	}
	for _, t := range ticks {
		row := []string{
			strconv.Itoa(t.Tick),
			strconv.Itoa(t.Humans),
			strconv.Itoa(t.Zombies),
			strconv.Itoa(t.Births),
			strconv.Itoa(t.Conversions),
			strconv.Itoa(t.ZombieDeaths),
			strconv.Itoa(t.FoodSpawned),
			strconv.Itoa(t.FoodEaten),
			strconv.Itoa(t.FoodOnGrid),
			strconv.FormatFloat(t.MeanHumanStrength, 'f', 4, 64),
			strconv.FormatFloat(t.MeanZombieStrength, 'f', 4, 64),
			strconv.FormatBool(t.Evolved),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
