package invert

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
	"github.com/cometadata/crossref-citation-extraction/internal/partition"
)

func TestRunAllInvertsEveryPartition(t *testing.T) {
	dir := t.TempDir()
	partDir := filepath.Join(dir, "partitions")

	w, err := partition.New(partDir, 1000)
	if err != nil {
		t.Fatal(err)
	}
	rows := []partition.Row{
		{CitingID: "10.a/1", CitedID: "2403.11111", RawMatch: "x", RefJSON: "{}", Provenance: citeid.Mined},
		{CitingID: "10.a/2", CitedID: "10.1234/other", RawMatch: "y", RefJSON: "{}", Provenance: citeid.Publisher},
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	cp, err := OpenCheckpoint(filepath.Join(dir, "checkpoint.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer cp.Close()

	records, stats, err := RunAll(context.Background(), RunOptions{PartitionDir: partDir, Checkpoint: cp})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d", len(records))
	}
	if stats.PartitionsProcessed != 2 {
		t.Errorf("partitions_processed = %d, want 2", stats.PartitionsProcessed)
	}
	if !cp.IsFinished() {
		t.Error("checkpoint should be finished after a full run")
	}
}

func TestRunAllSkipsCheckpointedPartitions(t *testing.T) {
	dir := t.TempDir()
	partDir := filepath.Join(dir, "partitions")

	w, err := partition.New(partDir, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(partition.Row{CitingID: "10.a/1", CitedID: "2403.11111", RawMatch: "x", RefJSON: "{}"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(partition.Row{CitingID: "10.a/2", CitedID: "10.1234/other", RawMatch: "y", RefJSON: "{}"}); err != nil {
		t.Fatal(err)
	}
	if err := w.FlushAll(); err != nil {
		t.Fatal(err)
	}

	cp, err := OpenCheckpoint(filepath.Join(dir, "checkpoint.log"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cp.MarkCompleted("2403"); err != nil {
		t.Fatal(err)
	}
	defer cp.Close()

	records, stats, err := RunAll(context.Background(), RunOptions{PartitionDir: partDir, Checkpoint: cp})
	if err != nil {
		t.Fatal(err)
	}
	if stats.PartitionsProcessed != 1 {
		t.Errorf("partitions_processed = %d, want 1 (one already checkpointed)", stats.PartitionsProcessed)
	}
	if len(records) != 1 || records[0].CitedID != "10.1234/other" {
		t.Errorf("got %+v", records)
	}
}
