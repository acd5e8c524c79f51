package storage

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRun(scene string, wall time.Duration) RunRecord {
	return RunRecord{
		Scene:      scene,
		Quality:    "normal",
		Seed:       42,
		Nodes:      3,
		Iterations: 80,
		StepTime:   0.01,
		Steps:      500,
		Ticks:      300,
		Snapshots:  250,
		SimSeconds: 5,
		Wall:       wall,
		Positions:  []mgl64.Vec2{{0, 10}, {0.05, 9.9}, {-0.25, 9.8}},
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveRun(testRun("drape", time.Second)); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	// Migrations must be idempotent and data must survive.
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns("drape", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, expected 1", len(runs))
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	want := testRun("swing", 1500*time.Millisecond)
	want.PartialSnapshots = 2
	want.Failures = 1

	id, err := store.SaveRun(want)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}

	if got.ID != id || got.Scene != "swing" || got.Quality != "normal" || got.Seed != 42 {
		t.Errorf("identity = %d %q %q %d", got.ID, got.Scene, got.Quality, got.Seed)
	}
	if got.Nodes != 3 || got.Iterations != 80 || got.StepTime != 0.01 {
		t.Errorf("params = %d nodes, %d iterations, step %v", got.Nodes, got.Iterations, got.StepTime)
	}
	if got.Steps != 500 || got.Ticks != 300 || got.Snapshots != 250 {
		t.Errorf("counters = %d steps, %d ticks, %d snapshots", got.Steps, got.Ticks, got.Snapshots)
	}
	if got.PartialSnapshots != 2 || got.Failures != 1 {
		t.Errorf("partial = %d, failures = %d", got.PartialSnapshots, got.Failures)
	}
	if got.SimSeconds != 5 || got.Wall != 1500*time.Millisecond {
		t.Errorf("sim = %v, wall = %v", got.SimSeconds, got.Wall)
	}
	if !slices.Equal(got.Positions, want.Positions) {
		t.Errorf("positions = %v, expected %v", got.Positions, want.Positions)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.RunByID(99)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("RunByID() = %+v, expected nil", got)
	}
}

func TestStoreNilPositions(t *testing.T) {
	store := openTestStore(t)

	r := testRun("drape", time.Second)
	r.Positions = nil
	id, err := store.SaveRun(r)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if len(got.Positions) != 0 {
		t.Errorf("positions = %v, expected none", got.Positions)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		r := testRun("pegboard", time.Duration(i+1)*time.Second)
		r.Seed = int64(i)
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(testRun("ramps", time.Second)); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	tests := []struct {
		name      string
		scene     string
		limit     int
		wantCount int
		wantSeed  int64 // Seed of the newest run
	}{
		{"scene limited", "pegboard", 3, 3, 4},
		{"scene default limit", "pegboard", 0, 5, 4},
		{"other scene", "ramps", 10, 1, 42},
		{"all scenes", "", 10, 6, 42},
		{"unknown scene", "drape", 10, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			runs, err := store.RecentRuns(tc.scene, tc.limit)
			if err != nil {
				t.Fatalf("RecentRuns() failed: %v", err)
			}
			if len(runs) != tc.wantCount {
				t.Fatalf("got %d runs, expected %d", len(runs), tc.wantCount)
			}
			if len(runs) > 0 && runs[0].Seed != tc.wantSeed {
				t.Errorf("newest run seed = %d, expected %d", runs[0].Seed, tc.wantSeed)
			}
		})
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(testRun("drape", time.Second))
	store.SaveRun(testRun("drape", time.Second))
	store.SaveRun(testRun("swing", time.Second))

	if err := store.ClearRuns("drape"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	drape, _ := store.RecentRuns("drape", 10)
	if len(drape) != 0 {
		t.Errorf("drape has %d runs after clear, expected 0", len(drape))
	}
	swing, _ := store.RecentRuns("swing", 10)
	if len(swing) != 1 {
		t.Errorf("swing has %d runs, expected 1", len(swing))
	}
}

func TestStoreSceneStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetSceneStats("drape")
	if err != nil {
		t.Fatalf("GetSceneStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastRun.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveRun(testRun("drape", 1*time.Second))
	failed := testRun("drape", 3*time.Second)
	failed.Failures = 2
	store.SaveRun(failed)
	store.SaveRun(testRun("swing", 4*time.Second))

	stats, err := store.GetSceneStats("drape")
	if err != nil {
		t.Fatalf("GetSceneStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.TotalSteps != 1000 {
		t.Errorf("runs = %d, steps = %d", stats.Runs, stats.TotalSteps)
	}
	if stats.AvgWall != 2*time.Second || stats.BestWall != time.Second {
		t.Errorf("avg = %v, best = %v", stats.AvgWall, stats.BestWall)
	}
	if stats.TotalFailures != 2 {
		t.Errorf("failures = %d, expected 2", stats.TotalFailures)
	}
	if stats.LastRun.IsZero() {
		t.Error("LastRun should be set")
	}

	all, err := store.GetAllSceneStats()
	if err != nil {
		t.Fatalf("GetAllSceneStats() failed: %v", err)
	}
	if len(all) != 2 || all["swing"] == nil || all["swing"].Runs != 1 {
		t.Errorf("all stats = %v", all)
	}
	if all["drape"].AvgWall != 2*time.Second {
		t.Errorf("drape avg = %v", all["drape"].AvgWall)
	}
}

func TestRunRecordStepsPerSecond(t *testing.T) {
	tests := []struct {
		name string
		run  RunRecord
		want float64
	}{
		{"two seconds", RunRecord{Steps: 500, Wall: 2 * time.Second}, 250},
		{"zero wall", RunRecord{Steps: 500}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.run.StepsPerSecond(); got != tc.want {
				t.Errorf("StepsPerSecond() = %v, expected %v", got, tc.want)
			}
		})
	}
}
