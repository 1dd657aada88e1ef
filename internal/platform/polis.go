package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"zombies/internal/model"
	"zombies/internal/rng"
	"zombies/internal/stats"
	"zombies/internal/storage"
)

type Options struct {
	Store storage.Store
	// ArtifactsDir, when set, receives one artifact directory per run.
	ArtifactsDir string
}

type StopReason string

const (
	StopReasonCompleted StopReason = "completed"
	StopReasonExtinct   StopReason = "extinct"
	StopReasonStopped   StopReason = "stopped"
)

type RunResult struct {
	Run        model.RunRecord
	Ticks      []model.TickStats
	Summary    stats.RunSummary
	StopReason StopReason
	// ArtifactsDir is empty when no artifacts were written.
	ArtifactsDir string
}

// Polis owns the store and the set of active runs.
type Polis struct {
	store        storage.Store
	artifactsDir string
	now          func() time.Time

	mu      sync.RWMutex
	started bool
	runs    map[string]context.CancelFunc
}

func NewPolis(opts Options) *Polis {
	return &Polis{
		store:        opts.Store,
		artifactsDir: opts.ArtifactsDir,
		now:          time.Now,
		runs:         make(map[string]context.CancelFunc),
	}
}

func (p *Polis) Init(ctx context.Context) error {
	if p.store == nil {
		return fmt.Errorf("store is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := p.store.Init(ctx); err != nil {
		return err
	}
	p.started = true
	return nil
}

func (p *Polis) Started() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started
}

func (p *Polis) Store() storage.Store {
	return p.store
}

// Stop ends every active run after its current tick.
func (p *Polis) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cancel := range p.runs {
		cancel()
	}
	p.started = false
}

// Run simulates cfg from its seed until the tick limit, extinction of the
// humans when cfg asks for it, or StopRun. The run record, tick statistics and
// optional artifacts are written once the loop ends, including after a stop.
// onTick, when not nil, sees every tick as it completes.
func (p *Polis) Run(ctx context.Context, cfg Config, onTick func(model.TickStats)) (RunResult, error) {
	if !p.Started() {
		return RunResult{}, fmt.Errorf("polis is not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return RunResult{}, err
	}
	if cfg.RunID == "" {
		cfg.RunID = NewRunID()
	}
	rawConfig, err := json.Marshal(cfg)
	if err != nil {
		return RunResult{}, fmt.Errorf("encode config: %w", err)
	}

	sim, err := NewSimulation(cfg, rng.New(cfg.Seed))
	if err != nil {
		return RunResult{}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := p.registerRun(cfg.RunID, cancel); err != nil {
		return RunResult{}, err
	}
	defer p.unregisterRun(cfg.RunID)

	started := p.now()
	ticks := make([]model.TickStats, 0, cfg.Ticks)
	reason := StopReasonCompleted
	for sim.Ticks() < cfg.Ticks {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		if runCtx.Err() != nil {
			reason = StopReasonStopped
			break
		}
		tick, err := sim.Tick()
		if err != nil {
			return RunResult{}, fmt.Errorf("run %s: %w", cfg.RunID, err)
		}
		ticks = append(ticks, tick)
		if onTick != nil {
			onTick(tick)
		}
		if cfg.StopWhenExtinct && sim.Extinct() {
			reason = StopReasonExtinct
			break
		}
	}

	run := model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              cfg.RunID,
		Seed:            cfg.Seed,
		StartedAt:       started.UTC(),
		Ticks:           sim.Ticks(),
		Generations:     sim.Generations(),
		FinalHumans:     sim.Humans().Len(),
		FinalZombies:    sim.Zombies().Len(),
		Extinct:         sim.Extinct(),
		Config:          rawConfig,
	}
	result := RunResult{
		Run:        run,
		Ticks:      ticks,
		Summary:    stats.Summarize(run, ticks),
		StopReason: reason,
	}
	if err := p.persist(ctx, &result); err != nil {
		return RunResult{}, err
	}
	return result, nil
}

func (p *Polis) persist(ctx context.Context, result *RunResult) error {
	if err := p.store.SaveRun(ctx, result.Run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := p.store.SaveTickStats(ctx, result.Run.ID, result.Ticks); err != nil {
		return fmt.Errorf("save tick stats: %w", err)
	}
	if p.artifactsDir == "" {
		return nil
	}
	dir, err := stats.WriteRunArtifacts(p.artifactsDir, stats.RunArtifacts{Run: result.Run, Ticks: result.Ticks})
	if err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}
	result.ArtifactsDir = dir
	return nil
}

var ErrRunNotActive = errors.New("run not active")

// StopRun asks an active run to end before its next tick.
func (p *Polis) StopRun(runID string) error {
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	p.mu.RLock()
	cancel, ok := p.runs[runID]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotActive, runID)
	}
	cancel()
	return nil
}

func (p *Polis) ActiveRuns() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.runs))
	for id := range p.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p *Polis) registerRun(runID string, cancel context.CancelFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return fmt.Errorf("polis is not initialized")
	}
	if _, exists := p.runs[runID]; exists {
		return fmt.Errorf("run already active: %s", runID)
	}
	p.runs[runID] = cancel
	return nil
}

func (p *Polis) unregisterRun(runID string) {
	p.mu.Lock()
	delete(p.runs, runID)
	p.mu.Unlock()
}
