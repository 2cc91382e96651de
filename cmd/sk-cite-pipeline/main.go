// sk-cite-pipeline runs the citation extraction pipeline end to end:
// extract identifiers from a citing corpus, invert into per-cited-work
// records, and validate against local and external identifier indexes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"github.com/cometadata/crossref-citation-extraction/internal/pipeline"
)

var defaultAuthorityIndex = path.Join(xdg.CacheHome, "citation-extraction", "authority.idx")

var docs = strings.TrimLeft(`
# sk-cite-pipeline - extract, invert, and validate citations

## source modes

  all       - authority A then authority B
  crossref  - authority A only
  datacite  - authority B only
  arxiv     - authority B only, extracts arXiv identifiers

## examples

$ sk-cite-pipeline -mode crossref -archive corpus.tar.gz -valid valid.jsonl -failed failed.jsonl

$ sk-cite-pipeline -mode arxiv -archive corpus.tar.gz -authority authority.jsonl.gz \
    -valid valid.jsonl -failed failed.jsonl -split -http

## flags

`, "\n")

var (
	mode              = flag.String("mode", "crossref", "source mode: all, crossref, datacite, arxiv")
	archivePath       = flag.String("archive", "", "gzipped tar of citing-work batches")
	authorityRecords  = flag.String("authority", "", "gzipped JSON-lines authority records, for all/datacite/arxiv")
	authorityIndex    = flag.String("authority-index", "", fmt.Sprintf("on-disk authority identifier index; built here if missing; defaults to %s for modes that need one", defaultAuthorityIndex))
	tempDir           = flag.String("tmp", "", "working directory for partitions and the checkpoint; auto-created if empty")
	keepIntermediates = flag.Bool("keep", false, "retain partition and checkpoint files after a successful run")
	batchThreshold    = flag.Int("batch-threshold", 50000, "rows buffered per partition before a flush")
	httpEnabled       = flag.Bool("http", false, "fall back to HTTP resolution for identifiers not found locally")
	httpConcurrency   = flag.Int("http-concurrency", 8, "bounded concurrency for the HTTP resolution pool")
	httpTimeout       = flag.Duration("http-timeout", 10*time.Second, "per-request timeout for HTTP resolution")
	httpRPS           = flag.Float64("http-rps", 0, "requests per second to doi.org; 0 disables throttling")
	split             = flag.Bool("split", false, "also write asserted/mined split output files")
	validOut          = flag.String("valid", "valid.jsonl", "output path for validated records")
	failedOut         = flag.String("failed", "failed.jsonl", "output path for records that failed validation")
)

func parseMode(s string) (pipeline.Mode, error) {
	switch s {
	case "all":
		return pipeline.ModeAll, nil
	case "crossref":
		return pipeline.ModeCrossref, nil
	case "datacite":
		return pipeline.ModeDatacite, nil
	case "arxiv":
		return pipeline.ModeArxiv, nil
	default:
		return 0, fmt.Errorf("unrecognised mode %q", s)
	}
}

func main() {
	flag.Usage = func() {
		io.WriteString(os.Stderr, docs)
		flag.PrintDefaults()
	}
	flag.Parse()

	m, err := parseMode(*mode)
	if err != nil {
		log.Fatal(err)
	}

	idxPath := *authorityIndex
	if idxPath == "" && m != pipeline.ModeCrossref {
		idxPath = defaultAuthorityIndex
	}
	if idxPath != "" {
		if err := os.MkdirAll(path.Dir(idxPath), 0o755); err != nil {
			log.Fatal(err)
		}
	}

	opts := pipeline.Options{
		Mode:                  m,
		ArchivePath:           *archivePath,
		AuthorityRecordsPath:  *authorityRecords,
		AuthorityIndexPath:    idxPath,
		TempDir:               *tempDir,
		KeepIntermediates:     *keepIntermediates,
		BatchThreshold:        *batchThreshold,
		HTTPEnabled:           *httpEnabled,
		HTTPConcurrency:       *httpConcurrency,
		HTTPTimeout:           *httpTimeout,
		HTTPRequestsPerSecond: *httpRPS,
		SplitOutputs:          *split,
		OutputValidPath:       *validOut,
		OutputFailedPath:      *failedOut,
	}

	result, err := pipeline.Run(context.Background(), opts)
	if err != nil {
		log.Fatal(err)
	}

	logrus.WithFields(logrus.Fields{
		"records_written":      opts.OutputValidPath,
		"valid":                result.ValidCount,
		"failed":               result.FailedCount,
		"partitions_processed": result.InvertStats.PartitionsProcessed,
		"records_emitted":      result.InvertStats.RecordsEmitted,
	}).Info("pipeline run complete")
}
