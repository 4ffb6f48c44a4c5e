package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/better-vibe/repo-slice/internal/workspace"
	"github.com/spf13/cobra"
)

func newWorkspacesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "List detected workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, _, err := repoRootAndConfig()
			if err != nil {
				return err
			}
			workspaces, err := workspace.Detect(repoRoot, nil)
			if err != nil {
				return err
			}

			if format == "json" {
				data, err := json.MarshalIndent(workspaces, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			for _, w := range workspaces {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", w.ID, w.Kind, w.Root)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "json|text")
	return cmd
}
