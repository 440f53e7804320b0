package playlist

import (
	"bufio"
	"bytes"
	"io"
)

// MaxLineLength is the longest physical line a ReaderSource accepts. Longer
// lines fail the read with bufio.ErrTooLong.
const MaxLineLength = 1 << 20

// LineSource supplies raw playlist lines in order. NextLine returns io.EOF
// once the input is exhausted; any other error is a read failure that ends
// the parse. Lines may still carry their \r or \n terminators.
type LineSource interface {
	NextLine() (string, error)
}

// ReaderSource reads lines from an io.Reader, accepting \n, \r\n and bare
// \r line endings.
type ReaderSource struct {
	scanner *bufio.Scanner
}

// NewReaderSource returns a LineSource reading from r. The caller remains
// responsible for closing r.
func NewReaderSource(r io.Reader) *ReaderSource {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	s.Split(scanLines)
	return &ReaderSource{scanner: s}
}

// NextLine implements LineSource.
func (s *ReaderSource) NextLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// scanLines is a bufio.SplitFunc that ends lines at \n, \r\n or a lone \r.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		// A trailing \r may be the first half of \r\n.
		if !atEOF {
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// SliceSource serves lines from memory.
type SliceSource struct {
	lines []string
	pos   int
}

// NewSliceSource returns a LineSource over lines.
func NewSliceSource(lines []string) *SliceSource {
	return &SliceSource{lines: lines}
}

// NextLine implements LineSource.
func (s *SliceSource) NextLine() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}
