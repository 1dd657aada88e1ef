//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"zombies/internal/model"
)

func TestSQLiteStoreRunAndTickRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "zombies.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"second", "first"} {
		run := model.RunRecord{
			VersionedRecord: CurrentVersion(),
			ID:              id,
			StartedAt:       base.Add(-time.Duration(i) * time.Hour),
			Ticks:           10 + i,
		}
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}

	loaded, ok, err := store.GetRun(ctx, "first")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok || loaded.Ticks != 11 {
		t.Fatalf("unexpected run loaded: ok=%t %+v", ok, loaded)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "first" || runs[1].ID != "second" {
		t.Fatalf("unexpected run order: %+v", runs)
	}

	ticks := []model.TickStats{{Tick: 1, Humans: 30}, {Tick: 2, Humans: 28, Births: 1}}
	if err := store.SaveTickStats(ctx, "first", ticks); err != nil {
		t.Fatalf("save ticks: %v", err)
	}
	loadedTicks, ok, err := store.GetTickStats(ctx, "first")
	if err != nil {
		t.Fatalf("get ticks: %v", err)
	}
	if !ok || len(loadedTicks) != 2 || loadedTicks[1].Births != 1 {
		t.Fatalf("unexpected ticks: ok=%t %+v", ok, loadedTicks)
	}
}

func TestNewStoreSQLite(t *testing.T) {
	store, err := NewStore("sqlite", filepath.Join(t.TempDir(), "zombies.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}
