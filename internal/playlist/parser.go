package playlist

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"m3u-parser/internal/logging"
)

const (
	utf8BOM      = "\xEF\xBB\xBF"
	headerMarker = "#EXTM3U"
)

// Parser turns line sources into entry streams using the tags of a
// registry.
type Parser struct {
	registry *Registry
}

// NewParser returns a parser matching lines against reg.
func NewParser(reg *Registry) *Parser {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Parser{registry: reg}
}

// Parse starts a parse of src. No line is read until Stream.Next is called.
func (p *Parser) Parse(src LineSource) *Stream {
	return &Stream{
		defs: p.registry.Tags(),
		src:  src,
	}
}

// ParseReader is Parse over NewReaderSource(r).
func (p *Parser) ParseReader(r io.Reader) *Stream {
	return p.Parse(NewReaderSource(r))
}

// ParseString is Parse over the lines of s.
func (p *Parser) ParseString(s string) *Stream {
	return p.Parse(NewReaderSource(strings.NewReader(s)))
}

// assembler groups directive lines into entries. It is collecting while
// current is non-nil and idle otherwise.
type assembler struct {
	current *Entry
}

func (a *assembler) addTag(tag Tag) {
	if a.current == nil {
		a.current = &Entry{}
	}
	a.current.Tags = append(a.current.Tags, tag)
}

// complete sets the media reference and hands the finished entry over. A
// media line with no preceding directives yields an entry without tags.
func (a *assembler) complete(path string, line int) *Entry {
	e := a.current
	if e == nil {
		e = &Entry{}
	}
	e.Path = path
	e.Line = line
	a.current = nil
	return e
}

// discard drops an entry that never received a media reference and returns
// the number of directives lost.
func (a *assembler) discard() int {
	if a.current == nil {
		return 0
	}
	n := len(a.current.Tags)
	a.current = nil
	return n
}

// Stream is a lazy, forward-only sequence of entries. It is not safe for
// concurrent use.
type Stream struct {
	defs   []TagDef
	src    LineSource
	asm    assembler
	lineNo int
	entry  *Entry
	err    error
	done   bool
	errs   []ParseError
}

// Next advances to the next entry, reading as many lines as needed. It
// returns false when the source is exhausted or fails; Err tells the two
// apart.
func (s *Stream) Next() bool {
	s.entry = nil
	if s.done {
		return false
	}

	for {
		raw, err := s.src.NextLine()
		if err != nil {
			s.finish(err)
			return false
		}
		s.lineNo++

		if e := s.handleLine(raw); e != nil {
			s.entry = e
			if o := observe(); o != nil {
				o.ObserveEntry(len(e.Tags))
			}
			return true
		}
	}
}

// handleLine classifies one raw line and returns the entry it completes, if
// any.
func (s *Stream) handleLine(raw string) *Entry {
	if s.lineNo == 1 {
		raw = strings.TrimPrefix(raw, utf8BOM)
	}
	line := strings.TrimSpace(raw)

	switch {
	case line == "":
		s.skipped(SkippedBlank)
		return nil
	case hasPrefixFold(line, headerMarker):
		s.skipped(SkippedHeader)
		return nil
	}

	def, ok := matchTag(s.defs, line)
	if !ok {
		if strings.HasPrefix(line, "#") {
			s.skipped(SkippedComment)
			return nil
		}
		return s.asm.complete(line, s.lineNo)
	}

	tag, err := def.Parse(line)
	if err != nil {
		s.recordError(def.Name, err)
		return nil
	}
	if tag == nil {
		s.recordError(def.Name, fmt.Errorf("%s parser returned no tag", def.Name))
		return nil
	}
	s.asm.addTag(tag)
	if o := observe(); o != nil {
		o.ObserveTag(def.Name)
	}
	return nil
}

func (s *Stream) finish(err error) {
	s.done = true
	if dropped := s.asm.discard(); dropped > 0 {
		logging.Debug("playlist: dropping %d directive(s) with no media reference at end of input", dropped)
		if o := observe(); o != nil {
			o.ObserveDroppedTags(dropped)
		}
	}
	if errors.Is(err, io.EOF) {
		return
	}
	s.err = fmt.Errorf("read line %d: %w", s.lineNo+1, err)
	if o := observe(); o != nil {
		o.ObserveSourceError()
	}
}

func (s *Stream) recordError(tag string, err error) {
	msg := err.Error()
	var ferr *FormatError
	if errors.As(err, &ferr) {
		msg = ferr.Error()
	}
	s.errs = append(s.errs, ParseError{Line: s.lineNo, Tag: tag, Message: msg})
	logging.Debug("playlist: skipping line %d: %s", s.lineNo, msg)
	if o := observe(); o != nil {
		o.ObserveFormatError(tag)
	}
}

func (s *Stream) skipped(kind string) {
	if o := observe(); o != nil {
		o.ObserveSkippedLine(kind)
	}
}

// Entry returns the entry produced by the last successful call to Next.
func (s *Stream) Entry() *Entry {
	return s.entry
}

// Err returns the read failure that ended the stream, or nil if the source
// ended normally or has not ended yet.
func (s *Stream) Err() error {
	return s.err
}

// Errors returns the directive lines skipped so far, in line order. It may
// be called at any point; the list only grows.
func (s *Stream) Errors() []ParseError {
	out := make([]ParseError, len(s.errs))
	copy(out, s.errs)
	return out
}

// LinesRead returns the number of physical lines consumed so far.
func (s *Stream) LinesRead() int {
	return s.lineNo
}

// All returns an iterator over the remaining entries. Check Err after the
// loop.
func (s *Stream) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for s.Next() {
			if !yield(s.entry) {
				return
			}
		}
	}
}

// Collect reads the remaining entries into a slice. On a read failure it
// returns the entries read before it together with the error.
func (s *Stream) Collect() ([]*Entry, error) {
	var entries []*Entry
	for s.Next() {
		entries = append(entries, s.entry)
	}
	return entries, s.err
}
