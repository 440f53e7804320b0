package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"m3u-parser/internal/logging"
	"m3u-parser/internal/playlist"
	"m3u-parser/internal/source"
)

type parseOptions struct {
	format     string
	showErrors bool
	timeout    time.Duration
	userAgent  string
}

func newParseCommand() *cobra.Command {
	opts := parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <path|url>",
		Short: "Parse a playlist and print its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatAuto, "Output format (auto, table, json, yaml)")
	cmd.Flags().BoolVar(&opts.showErrors, "errors", false, "Print malformed directives to stderr")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", source.DefaultFetcherConfig().Timeout, "Timeout for remote playlists")
	cmd.Flags().StringVar(&opts.userAgent, "user-agent", "", "User-Agent for remote playlists")

	return cmd
}

func runParse(cmd *cobra.Command, location string, opts parseOptions) error {
	format, err := resolveFormat(opts.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	userAgent := opts.userAgent
	if userAgent == "" {
		userAgent = envOr("FETCH_USER_AGENT", source.DefaultUserAgent)
	}
	opener := source.NewOpener(source.NewFetcher(source.FetcherConfig{
		Timeout:   opts.timeout,
		UserAgent: userAgent,
	}))

	rc, err := opener.Open(cmd.Context(), location)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			logging.Warn("failed to close %s: %v", location, closeErr)
		}
	}()

	stream := playlist.NewParser(newRegistry()).ParseReader(rc)
	entries, readErr := stream.Collect()

	if opts.showErrors {
		for _, pe := range stream.Errors() {
			fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %s: %s\n", pe.Line, pe.Tag, pe.Message)
		}
	}

	if err := renderEntries(cmd.OutOrStdout(), format, entries, stream.Errors()); err != nil {
		return err
	}
	if readErr != nil {
		return fmt.Errorf("%s: %w", location, readErr)
	}
	logging.Debug("Parsed %s: %d entries from %d lines", location, len(entries), stream.LinesRead())
	return nil
}
