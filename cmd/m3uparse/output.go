package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"m3u-parser/internal/mediatypes"
	"m3u-parser/internal/playlist"
)

const (
	formatAuto  = "auto"
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func errInvalidLogLevel(level string) error {
	return fmt.Errorf("invalid log level %q", level)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveFormat validates format and picks a concrete one for auto.
func resolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return format, nil
	case formatAuto, "":
		if isTerminal(w) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, table, json or yaml)", format)
	}
}

type outputEntry struct {
	Line       int      `json:"line" yaml:"line"`
	Path       string   `json:"path" yaml:"path"`
	Kind       string   `json:"kind" yaml:"kind"`
	Duration   *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	Title      string   `json:"title,omitempty" yaml:"title,omitempty"`
	Group      string   `json:"group,omitempty" yaml:"group,omitempty"`
	Directives []string `json:"directives,omitempty" yaml:"directives,omitempty"`
}

type parseOutput struct {
	Count   int                   `json:"count" yaml:"count"`
	Entries []outputEntry         `json:"entries" yaml:"entries"`
	Errors  []playlist.ParseError `json:"errors" yaml:"errors"`
}

func toOutputEntry(e *playlist.Entry) outputEntry {
	out := outputEntry{
		Line:  e.Line,
		Path:  e.Path,
		Kind:  string(mediatypes.Classify(e.Path)),
		Title: e.Title(),
		Group: e.Group(),
	}
	if inf, ok := e.ExtInf(); ok {
		d := inf.Duration
		out.Duration = &d
	}
	lines := e.Lines()
	out.Directives = lines[:len(lines)-1]
	return out
}

func renderEntries(w io.Writer, format string, entries []*playlist.Entry, parseErrs []playlist.ParseError) error {
	out := parseOutput{
		Count:   len(entries),
		Entries: make([]outputEntry, 0, len(entries)),
		Errors:  parseErrs,
	}
	if out.Errors == nil {
		out.Errors = []playlist.ParseError{}
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, toOutputEntry(e))
	}

	switch format {
	case formatTable:
		rows := make([][]string, 0, len(out.Entries))
		for i, e := range out.Entries {
			duration := ""
			if e.Duration != nil {
				duration = strconv.FormatFloat(*e.Duration, 'f', -1, 64)
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(e.Line), duration, e.Title, e.Group, e.Kind, e.Path})
		}
		_, err := fmt.Fprintln(w, renderTable(
			[]string{"#", "Line", "Duration", "Title", "Group", "Kind", "Media"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignRight},
		))
		if err == nil {
			_, err = fmt.Fprintf(w, "%d entries, %d parse errors\n", out.Count, len(out.Errors))
		}
		return err
	case formatYAML:
		return writeYAML(w, out)
	default:
		return writeJSON(w, out)
	}
}

func renderTags(w io.Writer, format string, names []string) error {
	switch format {
	case formatTable:
		rows := make([][]string, 0, len(names))
		for i, name := range names {
			rows = append(rows, []string{strconv.Itoa(i + 1), name})
		}
		_, err := fmt.Fprintln(w, renderTable([]string{"#", "Tag"}, rows, []columnAlignment{alignRight}))
		return err
	case formatYAML:
		return writeYAML(w, map[string][]string{"tags": names})
	default:
		return writeJSON(w, map[string][]string{"tags": names})
	}
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
