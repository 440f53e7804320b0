package playlist

import (
	"encoding/json"
	"io"
	"strings"
)

// Entry is one playlist item: the directives that preceded a media
// reference, in source order, and the reference itself.
type Entry struct {
	Tags []Tag
	Path string
	// Line is the physical line number of the media reference.
	Line int
}

// ExtInf returns the first #EXTINF directive of the entry.
func (e *Entry) ExtInf() (*ExtInf, bool) {
	for _, tag := range e.Tags {
		if inf, ok := tag.(*ExtInf); ok {
			return inf, true
		}
	}
	return nil, false
}

// Title returns the #EXTINF title, or "" when the entry has none.
func (e *Entry) Title() string {
	if inf, ok := e.ExtInf(); ok {
		return inf.Title
	}
	return ""
}

// TagsNamed returns the directives with the given tag name.
func (e *Entry) TagsNamed(name string) []Tag {
	var out []Tag
	for _, tag := range e.Tags {
		if strings.EqualFold(tag.Name(), name) {
			out = append(out, tag)
		}
	}
	return out
}

// Group returns the channel group of the entry, taken from the #EXTINF
// group-title attribute or, failing that, the first #EXTGRP directive.
func (e *Entry) Group() string {
	if inf, ok := e.ExtInf(); ok {
		if g := inf.Attr("group-title"); g != "" {
			return g
		}
	}
	for _, tag := range e.TagsNamed("EXTGRP") {
		if t, ok := tag.(*TextTag); ok {
			return t.Value
		}
	}
	return ""
}

// Lines returns the canonical text of the entry: one line per directive
// followed by the media reference.
func (e *Entry) Lines() []string {
	lines := make([]string, 0, len(e.Tags)+1)
	for _, tag := range e.Tags {
		lines = append(lines, tag.String())
	}
	return append(lines, e.Path)
}

type tagJSON struct {
	Tag  string `json:"tag"`
	Line string `json:"line"`
	Data Tag    `json:"data"`
}

// MarshalJSON encodes the entry with each directive's name, canonical line
// and typed fields.
func (e *Entry) MarshalJSON() ([]byte, error) {
	tags := make([]tagJSON, len(e.Tags))
	for i, tag := range e.Tags {
		tags[i] = tagJSON{Tag: tag.Name(), Line: tag.String(), Data: tag}
	}
	return json.Marshal(struct {
		Path string    `json:"path"`
		Line int       `json:"line"`
		Tags []tagJSON `json:"tags"`
	}{e.Path, e.Line, tags})
}

// Write serializes entries as an extended M3U playlist with a #EXTM3U
// header and canonical directive lines.
func Write(w io.Writer, entries []*Entry) error {
	if _, err := io.WriteString(w, "#EXTM3U\n"); err != nil {
		return err
	}
	for _, e := range entries {
		for _, line := range e.Lines() {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
