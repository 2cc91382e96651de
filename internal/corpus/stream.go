// Package corpus streams the gzipped tar archive of JSON batches that
// make up the citing corpus, and drives identifier extraction over
// every reference of every citing work it contains.
package corpus

import (
	"archive/tar"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/pgzip"
	"github.com/sirupsen/logrus"
)

// EntryFunc is invoked once per regular tar entry with its raw bytes.
// A returned error is logged at debug level and the walk continues with
// the next entry.
type EntryFunc func(name string, data []byte) error

// WalkArchive decompresses the gzip stream at path and walks its tar
// entries in order, invoking fn with the full contents of every
// regular file. Gzip and tar framing errors are fatal and returned
// directly; fn is responsible for its own entry-level error recovery.
func WalkArchive(path string, fn EntryFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("corpus: gzip framing error in %s: %w", path, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("corpus: tar framing error in %s: %w", path, err)
		}
		if hdr.Typeflag != tar.TypeReg || hdr.Size == 0 {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("corpus: tar framing error reading %s: %w", hdr.Name, err)
		}

		if err := fn(hdr.Name, data); err != nil {
			logrus.WithFields(logrus.Fields{"entry": hdr.Name, "error": err}).
				Debug("skipping malformed archive entry")
			continue
		}
	}
}
