// Package colbatch implements the struct-of-arrays columnar batch
// format shared by the partition writer and the identifier index: a
// sequence of independently-decodable, gzip-framed JSON objects, each
// holding one or more equal-length column arrays. No Parquet-writing
// library is available anywhere in this module's dependency stack, so
// this is the "equivalent columnar format" the partition and index
// file contracts call for.
package colbatch

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/encoding/json"
)

// Writer appends length-prefixed, gzip-compressed JSON batches to an
// underlying file. One flush of a buffer produces one batch.
type Writer struct {
	f  *os.File
	bw *bufio.Writer
}

// Create truncates (or creates) path and returns a Writer over it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("colbatch: create %s: %w", path, err)
	}
	return &Writer{f: f, bw: bufio.NewWriter(f)}, nil
}

// OpenAppend opens path for appending further batches, creating it if
// absent.
func OpenAppend(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("colbatch: open %s: %w", path, err)
	}
	return &Writer{f: f, bw: bufio.NewWriter(f)}, nil
}

// WriteBatch gzip-compresses the JSON encoding of batch and appends it
// as one length-prefixed frame.
func (w *Writer) WriteBatch(batch interface{}) error {
	raw, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("colbatch: marshal batch: %w", err)
	}

	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return fmt.Errorf("colbatch: gzip writer: %w", err)
	}
	if _, err := gz.Write(raw); err != nil {
		return fmt.Errorf("colbatch: gzip write: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("colbatch: gzip close: %w", err)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(buf.Len()))
	if _, err := w.bw.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("colbatch: write frame length: %w", err)
	}
	if _, err := w.bw.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("colbatch: write frame: %w", err)
	}
	return nil
}

// Close flushes buffered output and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("colbatch: flush: %w", err)
	}
	return w.f.Close()
}

// Reader reads back the frames written by Writer.
type Reader struct {
	br *bufio.Reader
	f  *os.File
}

// Open opens path for batch-by-batch reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("colbatch: open %s: %w", path, err)
	}
	return &Reader{br: bufio.NewReader(f), f: f}, nil
}

// Next decodes the next batch into dst, a pointer to a struct-of-arrays
// value. It returns io.EOF when no batches remain.
func (r *Reader) Next(dst interface{}) error {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.br, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return io.EOF
		}
		return err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	frame := make([]byte, n)
	if _, err := io.ReadFull(r.br, frame); err != nil {
		return fmt.Errorf("colbatch: read frame: %w", err)
	}
	gz, err := gzip.NewReader(bytes.NewReader(frame))
	if err != nil {
		return fmt.Errorf("colbatch: gzip reader: %w", err)
	}
	defer gz.Close()
	raw, err := io.ReadAll(gz)
	if err != nil {
		return fmt.Errorf("colbatch: gzip read: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("colbatch: unmarshal batch: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
