package invert

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cometadata/crossref-citation-extraction/internal/partition"
)

// RunOptions configures an inversion pass over a partition directory.
type RunOptions struct {
	PartitionDir string
	Checkpoint   *Checkpoint
	Mode         OutputMode
	NumWorkers   int
}

// RunAll inverts every partition file under opts.PartitionDir in
// parallel, skipping any already marked completed in opts.Checkpoint, and
// returns the combined, sorted record set along with run statistics.
//
// Each worker inverts exactly one partition file end to end; partitions
// share no cited_id, so no cross-worker merge is needed beyond
// concatenation and a final sort.
func RunAll(ctx context.Context, opts RunOptions) ([]Record, Stats, error) {
	keys, err := partition.ListFiles(opts.PartitionDir)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("invert: listing partitions in %s: %w", opts.PartitionDir, err)
	}

	var pending []string
	for _, k := range keys {
		if opts.Checkpoint == nil || !opts.Checkpoint.IsCompleted(k) {
			pending = append(pending, k)
		}
	}

	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	workChan := make(chan string, len(pending))
	for _, k := range pending {
		workChan <- k
	}
	close(workChan)

	var mu sync.Mutex
	var all []Record
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			for key := range workChan {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				rows, err := partition.ReadAll(partition.PathForKey(opts.PartitionDir, key))
				if err != nil {
					return fmt.Errorf("invert: reading partition %s: %w", key, err)
				}
				records := InvertPartition(rows)

				mu.Lock()
				all = append(all, records...)
				stats.PartitionsProcessed++
				stats.RecordsEmitted += len(records)
				for _, r := range records {
					stats.TotalCitations += r.CitationCount
				}
				mu.Unlock()

				if opts.Checkpoint != nil {
					if err := opts.Checkpoint.MarkCompleted(key); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	SortRecords(all)
	if opts.Checkpoint != nil {
		if err := opts.Checkpoint.Finish(); err != nil {
			return nil, stats, err
		}
	}
	return all, stats, nil
}

// CleanupPartitions removes the partition directory once a completed
// inversion run no longer needs it, unless retain is true.
func CleanupPartitions(partitionDir string, retain bool) error {
	if retain {
		return nil
	}
	if err := os.RemoveAll(partitionDir); err != nil {
		return fmt.Errorf("invert: removing partition directory %s: %w", partitionDir, err)
	}
	return nil
}
