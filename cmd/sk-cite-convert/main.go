// sk-cite-convert cleans a raw Crossref snapshot tar.gz into the batch
// shape the extraction pipeline consumes, dropping records whose DOI
// doesn't survive cleaning.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"github.com/adrg/xdg"

	"github.com/cometadata/crossref-citation-extraction/convert"
)

var defaultOutPath = path.Join(xdg.CacheHome, "citation-extraction", "corpus.tar.gz")

var docs = strings.TrimLeft(fmt.Sprintf(`
# sk-cite-convert - clean a citing-corpus snapshot

$ sk-cite-convert -in snapshot.tar.gz -out corpus.tar.gz

If -out is omitted, the cleaned archive is cached at %s.

## flags

`, defaultOutPath), "\n")

var (
	inPath  = flag.String("in", "", "raw Crossref snapshot tar.gz")
	outPath = flag.String("out", defaultOutPath, "cleaned tar.gz, ready for sk-cite-pipeline -archive")
)

func main() {
	flag.Usage = func() {
		io.WriteString(os.Stderr, docs)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "-in is required")
		flag.Usage()
		os.Exit(2)
	}
	if err := os.MkdirAll(path.Dir(*outPath), 0o755); err != nil {
		log.Fatal(err)
	}

	stats, err := convert.ConvertCitingCorpus(*inPath, *outPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("processed %d files, kept %d records (%d references, %d with an assertion hint)",
		stats.JSONFilesProcessed, stats.TotalRecords, stats.TotalReferences, stats.ReferencesWithHint)
}
