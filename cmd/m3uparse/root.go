package main

import (
	"github.com/spf13/cobra"

	"m3u-parser/internal/logging"
	"m3u-parser/internal/playlist"
	"m3u-parser/internal/startup"
)

func newRegistry() *playlist.Registry {
	reg := playlist.NewRegistry()
	playlist.RegisterDefaults(reg)
	return reg
}

func newRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "m3uparse",
		Short:         "Parse extended M3U playlists",
		Version:       startup.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				return nil
			}
			level, ok := logging.ParseLevel(logLevel)
			if !ok {
				return errInvalidLogLevel(logLevel)
			}
			logging.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error)")

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newTagsCommand())
	rootCmd.AddCommand(newScanCommand())

	return rootCmd
}
