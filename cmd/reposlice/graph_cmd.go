package main

import (
	"os"

	"github.com/better-vibe/repo-slice/internal/graphbuild"
	"github.com/better-vibe/repo-slice/internal/pipeline"
	"github.com/better-vibe/repo-slice/internal/render"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	var (
		entries         []string
		symbols         []string
		fromDiff        string
		fromLog         string
		workspaceFlag   string
		allWorkspaces   bool
		fallbackAll     bool
		depth           int
		graphType       string
		includeExternal bool
		maxNodes        int
		maxEdges        int
		collapse        string
		format          string
		out             string
		symbolStrict    bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build a typed import/call/combined dependency graph from an anchor",
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, cfg, err := repoRootAndConfig()
			if err != nil {
				return err
			}

			anchorIn, err := buildAnchorInput(cmd.Context(), repoRoot, anchorFlags{
				entries: entries, symbols: symbols, fromDiff: fromDiff, fromLog: fromLog,
			})
			if err != nil {
				return err
			}

			doc, err := pipeline.Graph(cmd.Context(), repoRoot, cfg, pipeline.GraphOptions{
				Anchor:          anchorIn,
				Scope:           pipeline.ScopeOptions{Workspace: workspaceFlag, AllWorkspaces: allWorkspaces},
				Depth:           depth,
				GraphType:       graphbuild.GraphType(graphType),
				IncludeExternal: includeExternal,
				Collapse:        graphbuild.Collapse(collapse),
				MaxNodes:        maxNodes,
				MaxEdges:        maxEdges,
				SymbolStrict:    symbolStrict,
				FallbackAll:     fallbackAll,
			}, log)
			if err != nil {
				return err
			}

			var output string
			switch format {
			case "dot":
				output = render.DOT(*doc)
			default:
				data, err := render.JSONGraph(*doc)
				if err != nil {
					return err
				}
				output = string(data)
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
	cmd.Flags().StringVar(&graphType, "graph-type", "imports", "imports|calls|combined")
	cmd.Flags().BoolVar(&includeExternal, "include-external", false, "include external (non-adapter-owned) nodes")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "node cap (0 = unconstrained)")
	cmd.Flags().IntVar(&maxEdges, "max-edges", 0, "edge cap (0 = unconstrained)")
	cmd.Flags().StringVar(&collapse, "collapse", "none", "none|external|file|class")
	cmd.Flags().StringVar(&format, "format", "json", "json|dot")
	cmd.Flags().StringVar(&out, "out", "", "output file path (default stdout)")
	cmd.Flags().BoolVar(&symbolStrict, "symbol-strict", false, "fail on ambiguous symbol queries")

	return cmd
}
