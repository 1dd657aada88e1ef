package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"zombies/internal/model"
)

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runs := []model.RunRecord{
		{VersionedRecord: CurrentVersion(), ID: "b", StartedAt: base.Add(time.Minute), Ticks: 3},
		{VersionedRecord: CurrentVersion(), ID: "a", StartedAt: base.Add(time.Minute), Ticks: 2},
		{VersionedRecord: CurrentVersion(), ID: "c", StartedAt: base, Ticks: 1, Config: json.RawMessage(`{"seed":1}`)},
	}
	for _, run := range runs {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	got, ok, err := store.GetRun(ctx, "c")
	if err != nil || !ok {
		t.Fatalf("get run: ok=%t err=%v", ok, err)
	}
	if got.Ticks != 1 || string(got.Config) != `{"seed":1}` {
		t.Fatalf("unexpected run: %+v", got)
	}
	if _, ok, _ := store.GetRun(ctx, "missing"); ok {
		t.Fatal("expected missing run")
	}

	listed, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(listed) != 3 || listed[0].ID != "c" || listed[1].ID != "a" || listed[2].ID != "b" {
		t.Fatalf("unexpected run order: %+v", listed)
	}
}

func TestMemoryStoreRejectsInvalidRuns(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.SaveRun(ctx, model.RunRecord{VersionedRecord: CurrentVersion(), ID: "x"}); err == nil {
		t.Fatal("expected error before init")
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SaveRun(ctx, model.RunRecord{VersionedRecord: CurrentVersion()}); err == nil {
		t.Fatal("expected missing id error")
	}
	if err := store.SaveRun(ctx, model.RunRecord{ID: "old"}); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestMemoryStoreTickStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []model.TickStats{{Tick: 1, Humans: 30, Zombies: 3}, {Tick: 2, Humans: 29, Zombies: 4, Conversions: 1}}
	if err := store.SaveTickStats(ctx, "run-1", input); err != nil {
		t.Fatalf("save ticks: %v", err)
	}
	input[0].Humans = 0

	output, ok, err := store.GetTickStats(ctx, "run-1")
	if err != nil {
		t.Fatalf("get ticks: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted tick stats")
	}
	if len(output) != 2 || output[0].Humans != 30 || output[1].Conversions != 1 {
		t.Fatalf("unexpected tick stats: %+v", output)
	}
	if _, ok, _ := store.GetTickStats(ctx, "run-2"); ok {
		t.Fatal("expected no tick stats for unknown run")
	}
}
