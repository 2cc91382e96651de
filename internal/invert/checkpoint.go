package invert

import (
	"bufio"
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"
)

const doneMarker = "done"

// Checkpoint is an append-only log of completed partition keys terminated
// by a trailing "done" marker. Correctness depends only on the marker's
// presence: a checkpoint file without it means the run that wrote it was
// interrupted, and the partitions it does list are still trustworthy
// individually but the overall result is incomplete.
type Checkpoint struct {
	path      string
	f         *os.File
	completed map[string]bool
	finished  bool
}

// OpenCheckpoint opens the checkpoint file at path, creating it if absent,
// and replays any existing entries.
func OpenCheckpoint(path string) (*Checkpoint, error) {
	c := &Checkpoint{path: path, completed: make(map[string]bool)}

	if existing, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(existing)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if line == doneMarker {
				c.finished = true
				continue
			}
			c.completed[line] = true
		}
		existing.Close()
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("invert: reading checkpoint %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("invert: opening checkpoint %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("invert: opening checkpoint %s for append: %w", path, err)
	}
	c.f = f
	return c, nil
}

// IsCompleted reports whether the given partition key has already been
// inverted in a prior run.
func (c *Checkpoint) IsCompleted(partitionKey string) bool {
	return c.completed[partitionKey]
}

// IsFinished reports whether the checkpoint carries the trailing "done"
// marker, i.e. the run that wrote it completed every partition.
func (c *Checkpoint) IsFinished() bool {
	return c.finished
}

// MarkCompleted appends partitionKey to the log and fsyncs it. It never
// rewrites or removes a prior entry.
func (c *Checkpoint) MarkCompleted(partitionKey string) error {
	if c.completed[partitionKey] {
		return nil
	}
	if _, err := fmt.Fprintln(c.f, partitionKey); err != nil {
		return fmt.Errorf("invert: appending checkpoint entry: %w", err)
	}
	if err := c.f.Sync(); err != nil {
		return fmt.Errorf("invert: syncing checkpoint: %w", err)
	}
	c.completed[partitionKey] = true
	return nil
}

// Finish appends the trailing "done" marker, signalling that every
// partition in the run was inverted.
func (c *Checkpoint) Finish() error {
	if c.finished {
		return nil
	}
	if _, err := fmt.Fprintln(c.f, doneMarker); err != nil {
		return fmt.Errorf("invert: writing done marker: %w", err)
	}
	if err := c.f.Sync(); err != nil {
		return fmt.Errorf("invert: syncing checkpoint: %w", err)
	}
	c.finished = true
	return nil
}

// Close releases the underlying file handle.
func (c *Checkpoint) Close() error {
	return c.f.Close()
}

// Stats is an informational run-statistics sidecar, written alongside the
// checkpoint but never consulted to decide whether a run is complete;
// only the "done" marker governs that.
type Stats struct {
	PartitionsProcessed int `json:"partitions_processed"`
	RecordsEmitted      int `json:"records_emitted"`
	TotalCitations      int `json:"total_citations"`
}

// SaveStats writes stats as pretty-printed JSON to path, overwriting any
// prior sidecar.
func SaveStats(stats Stats, path string) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("invert: marshal stats: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("invert: writing stats sidecar %s: %w", path, err)
	}
	return nil
}

// LoadStats reads a previously written stats sidecar, returning the zero
// value if it doesn't exist.
func LoadStats(path string) (Stats, error) {
	var stats Stats
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("invert: reading stats sidecar %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("invert: unmarshal stats sidecar %s: %w", path, err)
	}
	return stats, nil
}
