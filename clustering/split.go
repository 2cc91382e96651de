package clustering

import (
	"bytes"
	"io"
)

// FieldSplitter holds a key func for lines and a split function. The split
// function does not group lines by key; see Split.
type FieldSplitter struct {
	KeyFunc    func(line []byte) []byte
	currentKey []byte
	buf        bytes.Buffer // batch buffer
}

// Split consumes all buffered data without returning a token and returns
// io.EOF at end of input. KeyFunc is never called and no lines are grouped.
func (s *FieldSplitter) Split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF {
		return 0, nil, io.EOF
	}
	nextN := bytes.Index(data, []byte{10}) // newline
	if nextN == -1 {
		return len(data), nil, nil
	}
	return len(data), nil, nil
}
