package partition

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cometadata/crossref-citation-extraction/internal/citeid"
	"github.com/cometadata/crossref-citation-extraction/internal/colbatch"
)

// Row is one ExtractionRow: a single (citing work, reference index,
// extracted identifier) tuple.
type Row struct {
	CitingID   string
	RefIndex   uint32
	RefJSON    string
	RawMatch   string
	CitedID    string
	Provenance citeid.Provenance
}

// batch is the struct-of-arrays columnar encoding of a slice of Rows,
// row-index aligned across fields.
type batch struct {
	CitingID   []string `json:"citing_id"`
	RefIndex   []uint32 `json:"ref_index"`
	RefJSON    []string `json:"ref_json"`
	RawMatch   []string `json:"raw_match"`
	CitedID    []string `json:"cited_id"`
	Provenance []int    `json:"provenance"`
}

func rowsToBatch(rows []Row) batch {
	b := batch{
		CitingID:   make([]string, len(rows)),
		RefIndex:   make([]uint32, len(rows)),
		RefJSON:    make([]string, len(rows)),
		RawMatch:   make([]string, len(rows)),
		CitedID:    make([]string, len(rows)),
		Provenance: make([]int, len(rows)),
	}
	for i, r := range rows {
		b.CitingID[i] = r.CitingID
		b.RefIndex[i] = r.RefIndex
		b.RefJSON[i] = r.RefJSON
		b.RawMatch[i] = r.RawMatch
		b.CitedID[i] = r.CitedID
		b.Provenance[i] = int(r.Provenance)
	}
	return b
}

// buffer accumulates rows for one partition between flushes.
type buffer struct {
	rows         []Row
	path         string
	rowsWritten  int
}

// Writer fans extracted rows out across per-key buffers, flushing each
// to its own file under dir once it reaches the configured row
// threshold. It is single-producer: callers must not call Write
// concurrently without external synchronisation.
type Writer struct {
	dir             string
	flushThreshold  int
	buffers         map[string]*buffer
	totalRows       int
	mu              sync.Mutex
}

// New creates dir if necessary and returns a Writer over it.
func New(dir string, flushThreshold int) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("partition: create dir %s: %w", dir, err)
	}
	if flushThreshold <= 0 {
		flushThreshold = 1_000_000
	}
	return &Writer{dir: dir, flushThreshold: flushThreshold, buffers: make(map[string]*buffer)}, nil
}

// Write routes row to its partition buffer and flushes that partition
// if the threshold is reached.
func (w *Writer) Write(row Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := Key(row.CitedID)
	buf, ok := w.buffers[key]
	if !ok {
		buf = &buffer{path: filepath.Join(w.dir, key+".parquet")}
		w.buffers[key] = buf
	}
	buf.rows = append(buf.rows, row)

	if len(buf.rows) >= w.flushThreshold {
		return w.flushLocked(key)
	}
	return nil
}

// WriteExtractedRef writes one row per (rawMatch, citedID) pair sharing
// a single reference, exploding a reference's multiple matches.
func (w *Writer) WriteExtractedRef(citingID string, refIndex uint32, refJSON string, matches []citeid.Match) (int, error) {
	written := 0
	for _, m := range matches {
		if err := w.Write(Row{
			CitingID:   citingID,
			RefIndex:   refIndex,
			RefJSON:    refJSON,
			RawMatch:   m.RawMatch,
			CitedID:    m.CitedID,
			Provenance: m.Provenance,
		}); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (w *Writer) flushLocked(key string) error {
	buf := w.buffers[key]
	if len(buf.rows) == 0 {
		return nil
	}

	cw, err := colbatch.OpenAppend(buf.path)
	if err != nil {
		return fmt.Errorf("partition: open %s: %w", buf.path, err)
	}
	if err := cw.WriteBatch(rowsToBatch(buf.rows)); err != nil {
		cw.Close()
		return fmt.Errorf("partition: write batch for %s: %w", key, err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("partition: close %s: %w", buf.path, err)
	}

	buf.rowsWritten += len(buf.rows)
	w.totalRows += len(buf.rows)
	buf.rows = nil
	return nil
}

// FlushAll flushes every non-empty buffer.
func (w *Writer) FlushAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for key := range w.buffers {
		if err := w.flushLocked(key); err != nil {
			return err
		}
	}
	return nil
}

// PartitionCount returns the number of distinct partitions seen.
func (w *Writer) PartitionCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buffers)
}

// TotalRowsWritten returns the number of rows flushed to disk so far.
func (w *Writer) TotalRowsWritten() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalRows
}
