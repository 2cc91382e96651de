// Package pipeline sequences index loading, extraction, inversion, and
// validation into a single run, owning the temporary directory and the
// checkpoint file that make that run resumable and safe to abort.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cometadata/crossref-citation-extraction/internal/citeindex"
	"github.com/cometadata/crossref-citation-extraction/internal/corpus"
	"github.com/cometadata/crossref-citation-extraction/internal/invert"
	"github.com/cometadata/crossref-citation-extraction/internal/partition"
	"github.com/cometadata/crossref-citation-extraction/internal/validate"
)

// Mode mirrors validate.Mode; re-exported so callers need only import
// this package to configure a run.
type Mode = validate.Mode

const (
	ModeAll      = validate.ModeAll
	ModeCrossref = validate.ModeCrossref
	ModeDatacite = validate.ModeDatacite
	ModeArxiv    = validate.ModeArxiv
)

// Options configures one end-to-end pipeline run.
type Options struct {
	Mode Mode

	// ArchivePath is the gzipped tar of citing-work batches. Required by
	// every mode.
	ArchivePath string

	// AuthorityRecordsPath is a gzipped JSON-lines authority stream,
	// used to build the external index if AuthorityIndexPath doesn't
	// already exist. all/datacite/arxiv need either this or an existing
	// AuthorityIndexPath.
	AuthorityRecordsPath string
	// AuthorityIndexPath is the on-disk identifier index. If it exists
	// it is loaded directly; otherwise it is built from
	// AuthorityRecordsPath and persisted here.
	AuthorityIndexPath string

	TempDir           string
	KeepIntermediates bool
	BatchThreshold    int

	HTTPEnabled           bool
	HTTPConcurrency       int
	HTTPTimeout           time.Duration
	HTTPRequestsPerSecond float64

	SplitOutputs bool

	OutputValidPath  string
	OutputFailedPath string
}

// Result summarises a completed run.
type Result struct {
	ExtractStats corpus.Stats
	InvertStats  invert.Stats
	ValidCount   int
	FailedCount  int
	PartitionDir string
}

// validateMode checks the source-mode preconditions before any work
// begins.
func validateMode(opts Options) error {
	if opts.ArchivePath == "" {
		return fmt.Errorf("pipeline: %s mode requires an input archive", modeName(opts.Mode))
	}
	switch opts.Mode {
	case ModeDatacite, ModeArxiv:
		if opts.AuthorityRecordsPath == "" && opts.AuthorityIndexPath == "" {
			return fmt.Errorf("pipeline: %s mode requires authority records or a pre-built index", modeName(opts.Mode))
		}
	case ModeAll:
		if opts.AuthorityRecordsPath == "" && opts.AuthorityIndexPath == "" {
			return fmt.Errorf("pipeline: all mode requires authority records or a pre-built index")
		}
	case ModeCrossref:
		// authority A only; no external index needed.
	default:
		return fmt.Errorf("pipeline: unrecognised source mode %d", opts.Mode)
	}
	return nil
}

func modeName(m Mode) string {
	switch m {
	case ModeAll:
		return "all"
	case ModeCrossref:
		return "crossref"
	case ModeDatacite:
		return "datacite"
	case ModeArxiv:
		return "arxiv"
	default:
		return "unknown"
	}
}

// Run executes {index load/build -> extract -> invert -> validate ->
// write outputs} and releases the temporary directory unless
// opts.KeepIntermediates is set.
func Run(ctx context.Context, opts Options) (Result, error) {
	var result Result

	if err := validateMode(opts); err != nil {
		return result, err
	}

	runID := uuid.NewString()

	tempDir := opts.TempDir
	if tempDir == "" {
		dir := filepath.Join(os.TempDir(), "citation-extraction-"+runID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("pipeline: creating temp dir %s: %w", dir, err)
		}
		tempDir = dir
	} else if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return result, fmt.Errorf("pipeline: creating temp dir %s: %w", tempDir, err)
	}
	result.PartitionDir = filepath.Join(tempDir, "partitions")

	logrus.WithFields(logrus.Fields{"run_id": runID, "temp_dir": tempDir, "mode": modeName(opts.Mode)}).Info("starting pipeline run")

	defer func() {
		if !opts.KeepIntermediates {
			if err := os.RemoveAll(tempDir); err != nil {
				logrus.WithError(err).Warn("failed to remove temporary directory")
			}
		}
	}()

	external, err := loadOrBuildExternalIndex(opts)
	if err != nil {
		return result, err
	}

	writer, err := partition.New(result.PartitionDir, opts.BatchThreshold)
	if err != nil {
		return result, fmt.Errorf("pipeline: creating partition writer: %w", err)
	}

	localIndex := citeindex.New()
	extractMode := corpus.ExtractDOI
	if opts.Mode == ModeArxiv {
		extractMode = corpus.ExtractArxiv
	}
	driver := &corpus.Driver{Writer: writer, LocalIndex: localIndex, Mode: extractMode}

	logrus.Info("extracting identifiers from citing corpus")
	extractStats, err := driver.ProcessArchive(opts.ArchivePath)
	if err != nil {
		return result, fmt.Errorf("pipeline: extraction failed: %w", err)
	}
	result.ExtractStats = extractStats
	if err := writer.FlushAll(); err != nil {
		return result, fmt.Errorf("pipeline: flushing partitions: %w", err)
	}

	checkpoint, err := invert.OpenCheckpoint(filepath.Join(tempDir, "checkpoint.log"))
	if err != nil {
		return result, fmt.Errorf("pipeline: opening checkpoint: %w", err)
	}
	defer checkpoint.Close()

	outputMode := invert.OutputGeneric
	if opts.Mode == ModeArxiv {
		outputMode = invert.OutputArxiv
	}

	logrus.Info("inverting partitions")
	records, invertStats, err := invert.RunAll(ctx, invert.RunOptions{
		PartitionDir: result.PartitionDir,
		Checkpoint:   checkpoint,
		Mode:         outputMode,
	})
	if err != nil {
		return result, fmt.Errorf("pipeline: inversion failed: %w", err)
	}
	result.InvertStats = invertStats
	if err := invert.SaveStats(invertStats, filepath.Join(tempDir, "invert_stats.json")); err != nil {
		logrus.WithError(err).Warn("failed to write informational invert stats sidecar")
	}

	logrus.Info("validating inverted citations")
	var resolver *validate.Resolver
	if opts.HTTPEnabled {
		resolver = validate.NewResolver(opts.HTTPTimeout, opts.HTTPRequestsPerSecond)
	}
	validateResults, err := validate.Validate(ctx, records, validate.Options{
		Indexes:     validate.Indexes{Local: localIndex, External: external},
		Mode:        opts.Mode,
		HTTPEnabled: opts.HTTPEnabled,
		Resolver:    resolver,
		Concurrency: opts.HTTPConcurrency,
	})
	if err != nil {
		return result, fmt.Errorf("pipeline: validation failed: %w", err)
	}
	valid, failed := validate.SplitValidFailed(validateResults)
	result.ValidCount = len(valid)
	result.FailedCount = len(failed)

	if err := validate.WriteOutputs(valid, failed, opts.OutputValidPath, opts.OutputFailedPath, outputMode, opts.SplitOutputs); err != nil {
		return result, fmt.Errorf("pipeline: writing outputs: %w", err)
	}

	return result, nil
}

func loadOrBuildExternalIndex(opts Options) (*citeindex.Index, error) {
	if opts.AuthorityRecordsPath == "" && opts.AuthorityIndexPath == "" {
		return nil, nil
	}

	if opts.AuthorityIndexPath != "" {
		if _, err := os.Stat(opts.AuthorityIndexPath); err == nil {
			logrus.WithField("path", opts.AuthorityIndexPath).Info("loading existing identifier index")
			return citeindex.Load(opts.AuthorityIndexPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("pipeline: checking authority index %s: %w", opts.AuthorityIndexPath, err)
		}
	}

	if opts.AuthorityRecordsPath == "" {
		return nil, fmt.Errorf("pipeline: authority index %s absent and no authority records given to build it", opts.AuthorityIndexPath)
	}

	logrus.WithField("path", opts.AuthorityRecordsPath).Info("building identifier index from authority records")
	idx, failedLines, err := citeindex.BuildFromGzipJSONL(opts.AuthorityRecordsPath, "id")
	if err != nil {
		return nil, fmt.Errorf("pipeline: building authority index: %w", err)
	}
	if failedLines > 0 {
		logrus.WithField("malformed_lines", failedLines).Warn("skipped malformed authority records")
	}

	if opts.AuthorityIndexPath != "" {
		if err := citeindex.Save(idx, opts.AuthorityIndexPath); err != nil {
			return nil, fmt.Errorf("pipeline: persisting authority index: %w", err)
		}
	}
	return idx, nil
}
