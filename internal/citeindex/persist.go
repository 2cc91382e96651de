package citeindex

import (
	"fmt"
	"io"
	"os"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
	"github.com/cometadata/crossref-citation-extraction/internal/colbatch"
)

const persistBatchSize = 500_000

type idBatch struct {
	DOI []string `json:"doi"`
}

type prefixBatch struct {
	Prefix []string `json:"prefix"`
}

// prefixesPath returns the adjacent prefix file path for an identifier
// file at path.
func prefixesPath(path string) string {
	return path + ".prefixes"
}

// Save persists idx as two adjacent columnar files: path carries the
// identifier set, path+".prefixes" carries the prefix set.
func Save(idx *Index, path string) error {
	idw, err := colbatch.Create(path)
	if err != nil {
		return err
	}
	defer idw.Close()

	ids := idx.Identifiers()
	for start := 0; start < len(ids); start += persistBatchSize {
		end := start + persistBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := idw.WriteBatch(idBatch{DOI: ids[start:end]}); err != nil {
			return fmt.Errorf("citeindex: write identifier batch: %w", err)
		}
	}
	if err := idw.Close(); err != nil {
		return err
	}

	pw, err := colbatch.Create(prefixesPath(path))
	if err != nil {
		return err
	}
	prefixes := make([]string, 0, len(idx.prefixes))
	for p := range idx.prefixes {
		prefixes = append(prefixes, p)
	}
	for start := 0; start < len(prefixes); start += persistBatchSize {
		end := start + persistBatchSize
		if end > len(prefixes) {
			end = len(prefixes)
		}
		if err := pw.WriteBatch(prefixBatch{Prefix: prefixes[start:end]}); err != nil {
			pw.Close()
			return fmt.Errorf("citeindex: write prefix batch: %w", err)
		}
	}
	return pw.Close()
}

// Load reads an Index back from path. If the adjacent prefixes file is
// absent, prefixes are rebuilt from the loaded identifiers rather than
// treated as an error.
func Load(path string) (*Index, error) {
	idx := New()

	r, err := colbatch.Open(path)
	if err != nil {
		return nil, fmt.Errorf("citeindex: open %s: %w", path, err)
	}
	defer r.Close()

	for {
		var b idBatch
		err := r.Next(&b)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("citeindex: read %s: %w", path, err)
		}
		for _, id := range b.DOI {
			idx.ids[id] = struct{}{}
		}
	}

	ppath := prefixesPath(path)
	if _, statErr := os.Stat(ppath); statErr != nil {
		for id := range idx.ids {
			if prefix := citeid.DOIPrefix(id); prefix != "" {
				idx.prefixes[prefix] = struct{}{}
			}
		}
		return idx, nil
	}

	pr, err := colbatch.Open(ppath)
	if err != nil {
		return nil, fmt.Errorf("citeindex: open %s: %w", ppath, err)
	}
	defer pr.Close()

	for {
		var b prefixBatch
		err := pr.Next(&b)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("citeindex: read %s: %w", ppath, err)
		}
		for _, p := range b.Prefix {
			idx.prefixes[p] = struct{}{}
		}
	}
	return idx, nil
}
