package pipeline

import (
	"context"
	"fmt"

	"github.com/better-vibe/repo-slice/internal/anchor"
	"github.com/better-vibe/repo-slice/internal/config"
	"github.com/better-vibe/repo-slice/internal/graphbuild"
	"github.com/better-vibe/repo-slice/internal/render"
	"github.com/sirupsen/logrus"
)

// GraphOptions configures one `graph` run.
type GraphOptions struct {
	Anchor          anchor.Input
	Scope           ScopeOptions
	Depth           int
	GraphType       graphbuild.GraphType
	IncludeExternal bool
	Collapse        graphbuild.Collapse
	MaxNodes        int
	MaxEdges        int
	SymbolStrict    bool
	FallbackAll     bool
}

// Graph runs the full graph path: scope → index → anchor → graphbuild →
// render-ready GraphDoc.
func Graph(ctx context.Context, repoRoot string, cfg config.Config, opts GraphOptions, log *logrus.Logger) (*render.GraphDoc, error) {
	scope, err := ResolveScope(repoRoot, cfg, opts.Scope)
	if err != nil {
		return nil, err
	}
	indexes, err := BuildIndexes(ctx, repoRoot, scope, cfg, log)
	if err != nil {
		return nil, err
	}

	opts.Anchor.RepoRoot = repoRoot
	packOpts := PackOptions{Anchor: opts.Anchor, FallbackAll: opts.FallbackAll, SymbolStrict: opts.SymbolStrict}
	res, err := resolveWithFallback(ctx, repoRoot, cfg, indexes, packOpts, log)
	if err != nil {
		return nil, err
	}
	if len(res.AnchorFiles) == 0 || (opts.SymbolStrict && res.Strict()) {
		return nil, fmt.Errorf("%w: unresolved=%v ambiguous=%v", ErrAnchorResolution, res.UnresolvedSymbols, keysOf(res.AmbiguousSymbols))
	}

	built, err := graphbuild.Build(ctx, allAdapters(indexes), res.AnchorFiles, graphbuild.Options{
		RepoRoot:        repoRoot,
		GraphType:       opts.GraphType,
		IncludeExternal: opts.IncludeExternal,
		Depth:           opts.Depth,
		Collapse:        opts.Collapse,
		MaxNodes:        opts.MaxNodes,
		MaxEdges:        opts.MaxEdges,
	})
	if err != nil {
		return nil, err
	}

	return &render.GraphDoc{
		Meta: render.GraphMeta{
			GraphType:         string(opts.GraphType),
			Depth:             opts.Depth,
			MaxNodes:          opts.MaxNodes,
			MaxEdges:          opts.MaxEdges,
			Collapse:          string(opts.Collapse),
			Truncated:         built.Truncated,
			TruncatedNodes:    built.TruncatedNodes,
			TruncatedEdges:    built.TruncatedEdges,
			UnresolvedSymbols: res.UnresolvedSymbols,
		},
		Nodes: built.Nodes,
		Edges: built.Edges,
	}, nil
}
