package main

import (
	"fmt"

	"github.com/better-vibe/repo-slice/internal/pipeline"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), pipeline.ToolVersion)
			return nil
		},
	}
}
