package config

import "time"

// Config for feeds, TODO(martin): move to config file and environment
// variables; also consider breaking up the config into sections.
type Config struct {
	// DataDir is the generic data dir for all scholkit tools.
	DataDir string
	// FeedDir is the directory specifically for raw data feeds only. Can be
	// anything, but recommended to be a subdirectory of the DataDir.
	FeedDir string
	// SnapshotDir is where all the snapshots live
	SnapshotDir string
	// Source is the name of the source to process.
	Source string
	// EndpointURL for OAI-PMH (not used currently)
	EndpointURL        string
	Date               time.Time
	MaxRetries         int
	Timeout            time.Duration
	CrossrefApiEmail   string
	CrossrefUserAgent  string
	CrossrefFeedPrefix string
	CrossrefApiFilter  string
	RcloneTransfers    int
	RcloneCheckers     int
	DataciteSyncStart  string

	// SourceMode selects the citation extraction pipeline's mode (all,
	// crossref, datacite, arxiv); see internal/pipeline.
	SourceMode string
	// PartitionDir is the pipeline-owned directory holding intermediate
	// partition and checkpoint files.
	PartitionDir string
	// BatchThreshold is the number of rows buffered per partition before
	// a flush to disk.
	BatchThreshold int
	// HTTPConcurrency bounds simultaneous DOI-resolution HEAD requests.
	HTTPConcurrency int
	// HTTPTimeout is the per-request deadline for DOI resolution.
	HTTPTimeout time.Duration
	// HTTPRequestsPerSecond throttles the resolution pool; zero disables
	// throttling.
	HTTPRequestsPerSecond float64
	// KeepIntermediates retains partition and checkpoint files after a
	// successful run instead of deleting them.
	KeepIntermediates bool
	// SplitOutputs enables the asserted/mined output split.
	SplitOutputs bool
	// AuthorityIndexPath is the on-disk identifier index built from
	// authority records; empty if the external authority index isn't
	// needed by SourceMode.
	AuthorityIndexPath string
}
