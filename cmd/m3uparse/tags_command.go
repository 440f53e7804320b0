package main

import (
	"github.com/spf13/cobra"
)

func newTagsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List recognized directive tags in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveFormat(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return renderTags(cmd.OutOrStdout(), resolved, newRegistry().Names())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatAuto, "Output format (auto, table, json, yaml)")

	return cmd
}
