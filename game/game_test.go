package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/sense"
	"github.com/pthm-cable/sensefield/telemetry"
)

// newTestGame builds a small headless game on the embedded defaults.
func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	config.MustInit("")
	cfg := config.Cfg()
	cfg.World.Width = 48
	cfg.World.Height = 48
	cfg.Actors.Count = 12
	cfg.Telemetry.StatsWindow = 5
	cfg.Telemetry.LogInterval = 0
	cfg.Telemetry.FieldLogInterval = 2

	opts.Headless = true
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return g
}

func TestHeadlessRun(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{
		StepsPerUpdate: 5,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	defer g.Unload()

	if n := g.ActorCount(); n != 12 {
		t.Fatalf("actors: got %d, want 12", n)
	}

	g.UpdateHeadless()
	g.UpdateHeadless()

	if g.Tick() != 10 {
		t.Errorf("tick: got %d, want 10", g.Tick())
	}
	if len(windows) != 2 {
		t.Fatalf("stats windows: got %d, want 2", len(windows))
	}
	last := g.LastStats()
	if last.WindowEndTick != 10 {
		t.Errorf("last window end: got %d, want 10", last.WindowEndTick)
	}
	if last.Sources != 12 || last.Enabled != 12 {
		t.Errorf("sources: got %d/%d enabled, want 12/12", last.Enabled, last.Sources)
	}
	if last.Calculations == 0 || last.CellsLit == 0 {
		t.Errorf("expected computed fields, got %+v", last)
	}
	if g.tickStats.Active != 12 {
		t.Errorf("active sources: got %d, want 12", g.tickStats.Active)
	}
}

func TestSetSourceEnabled(t *testing.T) {
	g := newTestGame(t, Options{})
	defer g.Unload()

	query := g.entityFilter.Query()
	query.Next()
	e := query.Entity()
	query.Close()

	g.SetSourceEnabled(e, false)
	g.UpdateHeadless()

	if g.tickStats.Disabled != 1 || g.tickStats.Active != 11 {
		t.Errorf("after disable: got %d active %d disabled, want 11/1", g.tickStats.Active, g.tickStats.Disabled)
	}
	if src := g.srcMap.Get(e); src.Data != nil && src.Data.Len() != 0 {
		t.Errorf("disabled source kept %d cells", src.Data.Len())
	}

	g.SetSourceEnabled(e, true)
	g.UpdateHeadless()
	if g.tickStats.Disabled != 0 {
		t.Errorf("after enable: got %d disabled, want 0", g.tickStats.Disabled)
	}
}

func TestSnapshotResume(t *testing.T) {
	dir := t.TempDir()
	fieldLog := filepath.Join(dir, "fields.jsonl.zst")

	g := newTestGame(t, Options{
		SnapshotDir:  dir,
		OutputDir:    filepath.Join(dir, "out"),
		FieldLogPath: fieldLog,
	})
	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}
	want := g.createSnapshot()
	g.Unload()

	path := filepath.Join(dir, "snapshot_4.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "telemetry.csv")); err != nil {
		t.Errorf("telemetry.csv not written: %v", err)
	}

	records, err := telemetry.ReadFieldLog(fieldLog)
	if err != nil {
		t.Fatalf("ReadFieldLog: %v", err)
	}
	// ticks 2 and 4, every source enabled
	if len(records) != 24 {
		t.Errorf("field records: got %d, want 24", len(records))
	}

	resumed := newTestGame(t, Options{ResumePath: path})
	defer resumed.Unload()

	if resumed.Tick() != 4 {
		t.Errorf("resumed tick: got %d, want 4", resumed.Tick())
	}
	got := resumed.createSnapshot()
	if len(got.Entities) != len(want.Entities) {
		t.Fatalf("resumed actors: got %d, want %d", len(got.Entities), len(want.Entities))
	}
	for i := range want.Entities {
		if got.Entities[i] != want.Entities[i] {
			t.Errorf("entity %d: got %+v, want %+v", i, got.Entities[i], want.Entities[i])
		}
	}
}

func TestResumeRejectsOtherWorld(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, Options{SnapshotDir: dir})
	g.UpdateHeadless()
	g.Unload()

	config.MustInit("")
	cfg := config.Cfg()
	cfg.World.Width = 32
	cfg.World.Height = 32
	_, err := NewGameWithOptions(Options{Headless: true, Seed: 7, ResumePath: filepath.Join(dir, "snapshot_1.json")})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestHeadingHelpers(t *testing.T) {
	tests := []struct {
		d    sense.Direction
		want float32
	}{
		{sense.None, 0},
		{sense.N, 0},
		{sense.E, 90},
		{sense.SW, 225},
		{sense.NW, 315},
	}
	for _, tt := range tests {
		if got := headingOf(tt.d); got != tt.want {
			t.Errorf("headingOf(%s): got %v, want %v", tt.d, got, tt.want)
		}
	}

	for in, want := range map[float32]float32{-45: 315, 360: 0, 765: 45, 10: 10} {
		if got := wrapDegrees(in); got != want {
			t.Errorf("wrapDegrees(%v): got %v, want %v", in, got, want)
		}
	}
}
