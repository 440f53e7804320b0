package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"m3u-parser/internal/logging"
	"m3u-parser/internal/mediatypes"
	"m3u-parser/internal/playlist"
	"m3u-parser/internal/source"
	"m3u-parser/internal/workers"
)

type scanResult struct {
	File        string `json:"file" yaml:"file"`
	Entries     int    `json:"entries" yaml:"entries"`
	ParseErrors int    `json:"parseErrors" yaml:"parseErrors"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newScanCommand() *cobra.Command {
	var format string
	var numWorkers int
	var includeHidden bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Parse every .m3u and .m3u8 file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			files, err := findPlaylists(args[0], includeHidden)
			if err != nil {
				return err
			}

			if numWorkers <= 0 {
				numWorkers = workers.ForMixed(16)
			}
			results := scanFiles(cmd.Context(), files, numWorkers)

			if err := renderScan(cmd.OutOrStdout(), resolved, results); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d playlists could not be read", failed, len(results))
			}
			return cmd.Context().Err()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatAuto, "Output format (auto, table, json, yaml)")
	cmd.Flags().IntVarP(&numWorkers, "workers", "w", 0, "Files parsed concurrently (0 = auto)")
	cmd.Flags().BoolVar(&includeHidden, "hidden", false, "Include files and directories starting with \".\"")

	return cmd
}

// findPlaylists returns the playlist files under root in lexical order.
func findPlaylists(root string, includeHidden bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logging.Warn("Skipping %s: %v", path, err)
			return nil
		}
		if !includeHidden && path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && mediatypes.IsPlaylistFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// scanFiles parses files concurrently. Results keep the order of files.
func scanFiles(ctx context.Context, files []string, numWorkers int) []scanResult {
	reg := newRegistry()
	results := make([]scanResult, len(files))

	workers.Each(ctx, numWorkers, len(files), func(_ context.Context, i int) {
		results[i] = scanFile(playlist.NewParser(reg), files[i])
	})

	for i := range results {
		if results[i].File == "" {
			results[i] = scanResult{File: files[i], Error: context.Canceled.Error()}
		}
	}
	return results
}

func scanFile(parser *playlist.Parser, path string) scanResult {
	result := scanResult{File: path}

	rc, err := source.OpenFile(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			logging.Warn("failed to close %s: %v", path, closeErr)
		}
	}()

	stream := parser.ParseReader(rc)
	for range stream.All() {
		result.Entries++
	}
	result.ParseErrors = len(stream.Errors())
	if err := stream.Err(); err != nil {
		result.Error = err.Error()
	}
	return result
}

func renderScan(w io.Writer, format string, results []scanResult) error {
	if results == nil {
		results = []scanResult{}
	}

	switch format {
	case formatTable:
		rows := make([][]string, 0, len(results))
		entries := 0
		for _, r := range results {
			entries += r.Entries
			rows = append(rows, []string{r.File, strconv.Itoa(r.Entries), strconv.Itoa(r.ParseErrors), r.Error})
		}
		_, err := fmt.Fprintln(w, renderTable(
			[]string{"File", "Entries", "Parse errors", "Error"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight},
		))
		if err == nil {
			_, err = fmt.Fprintf(w, "%d playlists, %d entries\n", len(results), entries)
		}
		return err
	case formatYAML:
		return writeYAML(w, map[string][]scanResult{"playlists": results})
	default:
		return writeJSON(w, map[string][]scanResult{"playlists": results})
	}
}
