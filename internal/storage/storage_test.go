package storage

import (
	"os"
	"testing"
	"time"
)

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}

func TestRunsForFile(t *testing.T) {
	history := &BenchHistory{Runs: []BenchRun{
		{File: "bench_a", TotalNodes: 10, TotalElapsed: time.Second},
		{File: "bench_b", TotalNodes: 20, TotalElapsed: time.Second},
		{File: "bench_a", TotalNodes: 30, TotalElapsed: time.Second},
	}}
	got := history.RunsForFile("bench_a")
	if len(got) != 2 {
		t.Fatalf("expected 2 runs for bench_a, got %d", len(got))
	}
	if got[0].TotalNodes != 10 || got[1].TotalNodes != 30 {
		t.Fatalf("unexpected runs: %v", got)
	}
}

func TestKnps(t *testing.T) {
	r := BenchRun{TotalNodes: 128_000, TotalElapsed: 2 * time.Second}
	if got := r.Knps(); got != 64 {
		t.Fatalf("Knps() = %d, want 64", got)
	}
	zero := BenchRun{}
	if got := zero.Knps(); got != 0 {
		t.Fatalf("Knps() on zero elapsed = %d, want 0", got)
	}
}

func TestStorageRoundTrip(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	s, err := NewStorage()
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	defer s.Close()

	run := BenchRun{File: "bench_4-6_3-9", Threads: 2, Positions: 12, TotalNodes: 5000, TotalElapsed: time.Second}
	if err := s.RecordBenchRun(run); err != nil {
		t.Fatalf("RecordBenchRun: %v", err)
	}
	history, err := s.LoadBenchHistory()
	if err != nil {
		t.Fatalf("LoadBenchHistory: %v", err)
	}
	if len(history.Runs) != 1 || history.Runs[0].File != run.File {
		t.Fatalf("unexpected history: %+v", history)
	}
}
