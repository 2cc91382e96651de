package validate

import (
	"fmt"
	"sort"

	"github.com/cometadata/crossref-citation-extraction/internal/invert"
)

// WriteOutputs writes the valid and failed streams to validPath and
// failedPath, both re-sorted by descending citation count (validation
// itself makes no ordering promise). If split is true, each stream also
// gets its _asserted and _mined siblings.
func WriteOutputs(valid, failed []invert.Record, validPath, failedPath string, mode invert.OutputMode, split bool) error {
	sort.Slice(valid, func(i, j int) bool { return less(valid[i], valid[j]) })
	sort.Slice(failed, func(i, j int) bool { return less(failed[i], failed[j]) })

	write := invert.WriteJSONL
	if split {
		write = invert.WriteSplitJSONL
	}

	if err := write(valid, validPath, mode); err != nil {
		return fmt.Errorf("validate: writing valid stream: %w", err)
	}
	if err := write(failed, failedPath, mode); err != nil {
		return fmt.Errorf("validate: writing failed stream: %w", err)
	}
	return nil
}

func less(a, b invert.Record) bool {
	if a.CitationCount != b.CitationCount {
		return a.CitationCount > b.CitationCount
	}
	return a.CitedID < b.CitedID
}
