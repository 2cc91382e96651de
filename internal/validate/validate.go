package validate

import (
	"context"
	"fmt"

	"github.com/cometadata/crossref-citation-extraction/internal/invert"
)

// Outcome is the per-record classification the validation algorithm
// produces.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeFound
	OutcomeResolvedOverNetwork
)

// Result pairs an InvertedRecord with the outcome of validating it.
type Result struct {
	Record    invert.Record
	Outcome   Outcome
	Authority Authority
}

// Options configures a validation pass.
type Options struct {
	Indexes     Indexes
	Mode        Mode
	HTTPEnabled bool
	Resolver    *Resolver
	Concurrency int
}

// Validate runs phase 1 (local lookup) over every record and, for
// records left unmatched, phase 2 (bounded HTTP resolution) when
// enabled. Index I/O errors are fatal; HTTP failures are not — they are
// recovered into OutcomeNotFound.
func Validate(ctx context.Context, records []invert.Record, opts Options) ([]Result, error) {
	results := make([]Result, len(records))
	var unmatched []int

	for i, r := range records {
		if a := LocalLookup(r.CitedID, opts.Indexes, opts.Mode); a != AuthorityNone {
			results[i] = Result{Record: r, Outcome: OutcomeFound, Authority: a}
			continue
		}
		results[i] = Result{Record: r, Outcome: OutcomeNotFound}
		unmatched = append(unmatched, i)
	}

	if !opts.HTTPEnabled || len(unmatched) == 0 {
		return results, nil
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf("validate: HTTP fallback enabled without a resolver")
	}

	ids := make([]string, len(unmatched))
	for j, i := range unmatched {
		ids[j] = results[i].Record.CitedID
	}

	resolved, err := ResolveAll(ctx, opts.Resolver, ids, opts.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("validate: HTTP resolution phase: %w", err)
	}

	for _, i := range unmatched {
		if resolved[results[i].Record.CitedID] {
			results[i].Outcome = OutcomeResolvedOverNetwork
		}
	}
	return results, nil
}

// SplitValidFailed routes results into a valid stream (Found or
// ResolvedOverNetwork) and a failed stream (NotFound).
func SplitValidFailed(results []Result) (valid, failed []invert.Record) {
	for _, r := range results {
		if r.Outcome == OutcomeNotFound {
			failed = append(failed, r.Record)
		} else {
			valid = append(valid, r.Record)
		}
	}
	return valid, failed
}
