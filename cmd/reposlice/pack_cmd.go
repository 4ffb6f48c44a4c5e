package main

import (
	"os"

	"github.com/better-vibe/repo-slice/internal/pipeline"
	"github.com/better-vibe/repo-slice/internal/render"
	"github.com/spf13/cobra"
)

func newPackCmd() *cobra.Command {
	var (
		entries       []string
		symbols       []string
		fromDiff      string
		fromLog       string
		workspaceFlag string
		allWorkspaces bool
		fallbackAll   bool
		depth         int
		includeTests  string
		budgetChars   int
		budgetTokens  int
		format        string
		out           string
		reason        bool
		redact        bool
		noTimestamp   bool
		symbolStrict  bool
	)

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a size-bounded context bundle from an anchor",
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, cfg, err := repoRootAndConfig()
			if err != nil {
				return err
			}
			if redact {
				cfg.Redact.Enabled = true
			}

			anchorIn, err := buildAnchorInput(cmd.Context(), repoRoot, anchorFlags{
				entries: entries, symbols: symbols, fromDiff: fromDiff, fromLog: fromLog,
			})
			if err != nil {
				return err
			}

			bundle, err := pipeline.Pack(cmd.Context(), repoRoot, cfg, pipeline.PackOptions{
				Anchor:       anchorIn,
				Scope:        pipeline.ScopeOptions{Workspace: workspaceFlag, AllWorkspaces: allWorkspaces},
				Depth:        depth,
				IncludeTests: includeTests,
				BudgetChars:  budgetChars,
				BudgetTokens: budgetTokens,
				FallbackAll:  fallbackAll,
				SymbolStrict: symbolStrict,
				NoTimestamp:  noTimestamp,
			}, log)
			if err != nil {
				return err
			}
			applyRedaction(bundle, cfg)

			var output string
			switch format {
			case "json":
				data, err := render.JSONBundle(*bundle)
				if err != nil {
					return err
				}
				output = string(data)
			default:
				output = render.Markdown(*bundle)
			}

			if out != "" {
				return os.WriteFile(out, []byte(output), 0o644)
			}
			_, err = cmd.OutOrStdout().Write([]byte(output))
			return err
		},
	}

	cmd.Flags().StringArrayVar(&entries, "entry", nil, "entry file path (repeatable)")
	cmd.Flags().StringArrayVar(&symbols, "symbol", nil, "symbol query (repeatable)")
	cmd.Flags().StringVar(&fromDiff, "from-diff", "", "VCS revision range or diff file path")
	cmd.Flags().StringVar(&fromLog, "from-log", "", "path to a structured log file")
	cmd.Flags().StringVar(&workspaceFlag, "workspace", "auto", "auto|name|path")
	cmd.Flags().BoolVar(&allWorkspaces, "all-workspaces", false, "analyze every detected workspace")
	cmd.Flags().BoolVar(&fallbackAll, "fallback-all", false, "retry with every workspace on unresolved anchors")
	cmd.Flags().IntVar(&depth, "depth", 2, "BFS expansion depth")
	cmd.Flags().StringVar(&includeTests, "include-tests", "auto", "auto|true|false")
	cmd.Flags().IntVar(&budgetChars, "budget-chars", 28000, "character budget")
	cmd.Flags().IntVar(&budgetTokens, "budget-tokens", 0, "token budget (0 = unconstrained)")
	cmd.Flags().StringVar(&format, "format", "md", "md|json")
	cmd.Flags().StringVar(&out, "out", "", "output file path (default stdout)")
	cmd.Flags().BoolVar(&reason, "reason", false, "include candidate reasons (always on; retained for CLI parity)")
	cmd.Flags().BoolVar(&redact, "redact", false, "enable secret redaction")
	cmd.Flags().BoolVar(&noTimestamp, "no-timestamp", false, "omit timestamp for deterministic output")
	cmd.Flags().BoolVar(&symbolStrict, "symbol-strict", false, "fail on ambiguous symbol queries")

	return cmd
}
