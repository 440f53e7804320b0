package playlist

import (
	"errors"
	"fmt"
)

// ErrInvalidTag is returned by Registry.Register for tag definitions that
// cannot be used for matching or parsing.
var ErrInvalidTag = errors.New("invalid tag definition")

// FormatError reports a directive line that matched a tag but does not
// follow that tag's grammar. It is recoverable: the stream skips the line
// and keeps going.
type FormatError struct {
	Tag    string `json:"tag"`
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s format: %s (line: %q)", e.Tag, e.Reason, e.Line)
}

func formatErrorf(tag, line, format string, args ...interface{}) *FormatError {
	return &FormatError{
		Tag:    tag,
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
	}
}

// ParseError records a directive line that was skipped during a parse.
// Line is the 1-based physical line number in the source.
type ParseError struct {
	Line    int    `json:"line"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e ParseError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
