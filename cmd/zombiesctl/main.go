package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"zombies/internal/storage"
	zapi "zombies/pkg/zombies"
)

const (
	runsDir    = "runs"
	exportsDir = "exports"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "ticks":
		return runTicks(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type storeFlags struct {
	kind    *string
	dbPath  *string
	runsDir *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		kind:    fs.String("store", storage.DefaultStoreKind, "store backend: memory|sqlite"),
		dbPath:  fs.String("db-path", "zombies.db", "sqlite database path"),
		runsDir: fs.String("runs-dir", runsDir, "run artifacts directory"),
	}
}

func (f storeFlags) client() (*zapi.Client, error) {
	return zapi.New(zapi.Options{
		StoreKind: *f.kind,
		DBPath:    *f.dbPath,
		RunsDir:   *f.runsDir,
	})
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	store := addStoreFlags(fs)
	configPath := fs.String("config", "", "optional run config JSON path")
	overrides := addConfigFlags(fs)
	progress := fs.Bool("progress", isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()), "print one line per tick")
	jsonOut := fs.Bool("json", false, "emit the run summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := zapi.DefaultConfig()
	if *configPath != "" {
		loaded, err := zapi.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	overrides.apply(fs, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := zapi.RunRequest{Config: cfg}
	if *progress && !*jsonOut {
		req.OnTick = printTick
	}
	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Printf("run_id=%s stop=%s ticks=%s humans=%s zombies=%s births=%s conversions=%s zombie_deaths=%s\n",
		summary.RunID,
		summary.StopReason,
		humanize.Comma(int64(summary.Ticks)),
		humanize.Comma(int64(summary.FinalHumans)),
		humanize.Comma(int64(summary.FinalZombies)),
		humanize.Comma(int64(summary.Summary.TotalBirths)),
		humanize.Comma(int64(summary.Summary.TotalConversions)),
		humanize.Comma(int64(summary.Summary.TotalZombieDeaths)),
	)
	if summary.Summary.HumanExtinctAt > 0 {
		fmt.Printf("humans extinct on the %s tick\n", humanize.Ordinal(summary.Summary.HumanExtinctAt))
	}
	if summary.ArtifactsDir != "" {
		fmt.Printf("artifacts=%s\n", summary.ArtifactsDir)
	}
	return nil
}

func printTick(t zapi.TickStats) {
	fmt.Printf("tick=%d humans=%d zombies=%d births=%d conversions=%d food=%d evolved=%t\n",
		t.Tick, t.Humans, t.Zombies, t.Births, t.Conversions, t.FoodOnGrid, t.Evolved)
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	store := addStoreFlags(fs)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, zapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	if len(items) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	for _, item := range items {
		fmt.Printf("run_id=%s created=%s seed=%d ticks=%d humans=%d zombies=%d extinct=%t\n",
			item.RunID,
			createdAgo(item.CreatedAtUTC),
			item.Seed,
			item.Ticks,
			item.FinalHumans,
			item.FinalZombies,
			item.Extinct,
		)
	}
	return nil
}

func createdAgo(stamp string) string {
	created, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return stamp
	}
	return humanize.Time(created)
}

func runTicks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ticks", flag.ContinueOnError)
	store := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run from run index")
	limit := fs.Int("limit", 0, "show only the last N ticks (0 shows all)")
	jsonOut := fs.Bool("json", false, "emit ticks as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("ticks requires --run-id or --latest")
	}
	if *limit < 0 {
		return errors.New("limit must be >= 0")
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	ticks, err := client.Ticks(ctx, zapi.TicksRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ticks)
	}
	for _, t := range ticks {
		fmt.Printf("tick=%d humans=%d zombies=%d births=%d conversions=%d zombie_deaths=%d food_eaten=%d mean_human_strength=%.2f mean_zombie_strength=%.2f\n",
			t.Tick, t.Humans, t.Zombies, t.Births, t.Conversions, t.ZombieDeaths, t.FoodEaten,
			t.MeanHumanStrength, t.MeanZombieStrength)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runsDirFlag := fs.String("runs-dir", runsDir, "run artifacts directory")
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from run index")
	outDir := fs.String("out", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}

	client, err := zapi.New(zapi.Options{RunsDir: *runsDirFlag, ExportsDir: *outDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, zapi.ExportRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to=%s\n", exported.RunID, exported.Directory)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: zombiesctl <run|runs|ticks|export> [flags]", msg)
}
