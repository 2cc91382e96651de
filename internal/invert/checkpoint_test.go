package invert

import (
	"path/filepath"
	"testing"
)

func TestCheckpointMarkAndFinish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.log")

	cp, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	if cp.IsCompleted("2403") {
		t.Error("fresh checkpoint should have no completed partitions")
	}
	if err := cp.MarkCompleted("2403"); err != nil {
		t.Fatal(err)
	}
	if err := cp.MarkCompleted("cs_9"); err != nil {
		t.Fatal(err)
	}
	if cp.IsFinished() {
		t.Error("checkpoint should not be finished before Finish")
	}
	if err := cp.Finish(); err != nil {
		t.Fatal(err)
	}
	cp.Close()

	reopened, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if !reopened.IsCompleted("2403") || !reopened.IsCompleted("cs_9") {
		t.Error("reopened checkpoint lost completed partitions")
	}
	if !reopened.IsFinished() {
		t.Error("reopened checkpoint should report finished")
	}
}

func TestCheckpointWithoutDoneMarkerIsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.log")

	cp, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cp.MarkCompleted("2403"); err != nil {
		t.Fatal(err)
	}
	cp.Close()

	reopened, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if reopened.IsFinished() {
		t.Error("checkpoint without trailing done marker must report incomplete")
	}
	if !reopened.IsCompleted("2403") {
		t.Error("partial progress before interruption should still be honored")
	}
}

func TestCheckpointMarkCompletedIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.log")
	cp, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	defer cp.Close()

	for i := 0; i < 3; i++ {
		if err := cp.MarkCompleted("2403"); err != nil {
			t.Fatal(err)
		}
	}
	if !cp.IsCompleted("2403") {
		t.Error("expected 2403 marked completed")
	}
}

func TestStatsSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	stats := Stats{PartitionsProcessed: 3, RecordsEmitted: 10, TotalCitations: 25}

	if err := SaveStats(stats, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadStats(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != stats {
		t.Errorf("got %+v, want %+v", loaded, stats)
	}
}

func TestLoadStatsMissingFileReturnsZeroValue(t *testing.T) {
	loaded, err := LoadStats(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded != (Stats{}) {
		t.Errorf("want zero value, got %+v", loaded)
	}
}
