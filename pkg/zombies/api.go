package zombies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"zombies/internal/evo"
	"zombies/internal/model"
	"zombies/internal/platform"
	"zombies/internal/scape"
	"zombies/internal/stats"
	"zombies/internal/storage"
)

const (
	defaultRunsDir    = "runs"
	defaultExportsDir = "exports"
	defaultDBPath     = "zombies.db"
)

type (
	Config         = platform.Config
	Rules          = scape.Rules
	OperatorConfig = evo.OperatorConfig
	TickStats      = model.TickStats
	Summary        = stats.RunSummary
)

// DefaultConfig returns the reference world: a 20x20 grid with 30 humans and
// 3 zombies run for 300 ticks.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// LoadConfig reads a JSON config file over DefaultConfig. Fields missing from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

type Options struct {
	StoreKind string
	DBPath    string
	// RunsDir holds one artifact directory per run and the run index.
	RunsDir    string
	ExportsDir string
}

type Client struct {
	store storage.Store
	polis *platform.Polis

	runsDir    string
	exportsDir string
}

type RunRequest struct {
	// Config is taken as is; start from DefaultConfig or LoadConfig.
	Config Config
	// OnTick, when set, is called after every tick.
	OnTick func(TickStats)
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	StopReason   string
	Ticks        int
	Generations  int
	FinalHumans  int
	FinalZombies int
	Extinct      bool
	Summary      Summary
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Seed         int64
	Ticks        int
	FinalHumans  int
	FinalZombies int
	Extinct      bool
}

type TicksRequest struct {
	RunID  string
	Latest bool
	// Limit keeps only the last Limit ticks; 0 keeps all.
	Limit int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	runsDir := opts.RunsDir
	if runsDir == "" {
		runsDir = defaultRunsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		runsDir:    runsDir,
		exportsDir: exportsDir,
	}, nil
}

func (c *Client) Close() error {
	if c.polis != nil {
		c.polis.Stop()
	}
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensurePolis(ctx)
	return err
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	p, err := c.ensurePolis(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	result, err := p.Run(ctx, req.Config, req.OnTick)
	if err != nil {
		return RunSummary{}, err
	}
	return RunSummary{
		RunID:        result.Run.ID,
		ArtifactsDir: result.ArtifactsDir,
		StopReason:   string(result.StopReason),
		Ticks:        result.Run.Ticks,
		Generations:  result.Run.Generations,
		FinalHumans:  result.Run.FinalHumans,
		FinalZombies: result.Run.FinalZombies,
		Extinct:      result.Run.Extinct,
		Summary:      result.Summary,
	}, nil
}

// Runs lists indexed runs newest first.
func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.runsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:        e.RunID,
			CreatedAtUTC: e.CreatedAtUTC,
			Seed:         e.Seed,
			Ticks:        e.Ticks,
			FinalHumans:  e.FinalHumans,
			FinalZombies: e.FinalZombies,
			Extinct:      e.Extinct,
		})
	}
	return out, nil
}

// Ticks returns the per-tick statistics the store holds for a run.
func (c *Client) Ticks(ctx context.Context, req TicksRequest) ([]TickStats, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	p, err := c.ensurePolis(ctx)
	if err != nil {
		return nil, err
	}
	ticks, ok, err := p.Store().GetTickStats(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("tick stats not found for run %s", runID)
	}
	if req.Limit > 0 && len(ticks) > req.Limit {
		ticks = ticks[len(ticks)-req.Limit:]
	}
	return ticks, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}

	exportedDir, err := stats.ExportRunArtifacts(c.runsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if runID == "" && !latest {
		return "", errors.New("run id or latest is required")
	}
	if runID != "" {
		return runID, nil
	}
	entries, err := stats.ListRunIndex(c.runsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}

func (c *Client) ensurePolis(ctx context.Context) (*platform.Polis, error) {
	if c.polis != nil {
		return c.polis, nil
	}
	p := platform.NewPolis(platform.Options{Store: c.store, ArtifactsDir: c.runsDir})
	if err := p.Init(ctx); err != nil {
		return nil, err
	}
	c.polis = p
	return c.polis, nil
}
