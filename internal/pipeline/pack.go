package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/better-vibe/repo-slice/internal/anchor"
	"github.com/better-vibe/repo-slice/internal/budget"
	"github.com/better-vibe/repo-slice/internal/config"
	"github.com/better-vibe/repo-slice/internal/expand"
	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/better-vibe/repo-slice/internal/pathutil"
	"github.com/better-vibe/repo-slice/internal/render"
	"github.com/sirupsen/logrus"
)

// ErrAnchorResolution marks an anchor-resolution failure (exit code 2):
// every anchor request failed, or ambiguity under strict mode.
var ErrAnchorResolution = errors.New("pipeline: anchor resolution failed")

// PackOptions configures one `pack` run.
type PackOptions struct {
	Anchor       anchor.Input
	Scope        ScopeOptions
	Depth        int
	IncludeTests string
	BudgetChars  int
	BudgetTokens int
	FallbackAll  bool
	SymbolStrict bool
	NoTimestamp  bool
}

// Pack runs the full bundle path: scope → index → anchor → expand →
// budget → render-ready Bundle.
func Pack(ctx context.Context, repoRoot string, cfg config.Config, opts PackOptions, log *logrus.Logger) (*render.Bundle, error) {
	scope, err := ResolveScope(repoRoot, cfg, opts.Scope)
	if err != nil {
		return nil, err
	}
	indexes, err := BuildIndexes(ctx, repoRoot, scope, cfg, log)
	if err != nil {
		return nil, err
	}

	opts.Anchor.RepoRoot = repoRoot
	res, err := resolveWithFallback(ctx, repoRoot, cfg, indexes, opts, log)
	if err != nil {
		return nil, err
	}

	if len(res.AnchorFiles) == 0 || (opts.SymbolStrict && res.Strict()) {
		return nil, fmt.Errorf("%w: unresolved=%v ambiguous=%v", ErrAnchorResolution, res.UnresolvedSymbols, keysOf(res.AmbiguousSymbols))
	}

	idx := expand.Index{
		Graph:          mergeGraphs(allAdapters(indexes)),
		KnownFiles:     knownFiles(allAdapters(indexes)),
		WorkspaceRoots: rootsOf(scope),
	}
	ranked := expand.Expand(idx, res.AnchorFiles, res.Candidates, expand.Options{Depth: opts.Depth, IncludeTests: opts.IncludeTests})

	adapters := allAdapters(indexes)
	annotateCandidates(ranked, indexes)
	reader := adapterContentReader(adapters)
	sel, err := budget.Select(ctx, ranked, reader, budget.Options{BudgetChars: opts.BudgetChars, BudgetTokens: opts.BudgetTokens})
	if err != nil {
		return nil, err
	}

	bundle := &render.Bundle{
		Meta: render.BundleMeta{
			ToolVersion: ToolVersion,
			Depth:       opts.Depth,
			Budget: render.BudgetMeta{
				BudgetChars: opts.BudgetChars,
				UsedChars:   sel.UsedChars,
				UsedTokens:  sel.UsedTokens,
			},
			Timestamp:         nowTimestamp(opts.NoTimestamp),
			UnresolvedSymbols: res.UnresolvedSymbols,
		},
	}
	for _, it := range sel.Items {
		var r *model.Range
		if it.Candidate.HasRange {
			rr := it.Candidate.Range
			r = &rr
		}
		bundle.Items = append(bundle.Items, render.BundleItem{
			Kind:          it.Candidate.Kind,
			Lang:          it.Candidate.Language,
			WorkspaceRoot: pathutil.ToRepoRelative(repoRoot, it.Candidate.Workspace),
			FilePath:      pathutil.ToRepoRelative(repoRoot, it.Candidate.FilePath),
			Range:         r,
			Reasons:       it.Candidate.Reasons,
			Content:       it.Content,
		})
	}
	for _, o := range sel.Omitted {
		var r *model.Range
		if o.Candidate.HasRange {
			rr := o.Candidate.Range
			r = &rr
		}
		bundle.Omitted = append(bundle.Omitted, render.BundleOmitted{
			FilePath: pathutil.ToRepoRelative(repoRoot, o.Candidate.FilePath),
			Range:    r,
			Reasons:  o.Candidate.Reasons,
			Reason:   o.Reason,
		})
	}

	return bundle, nil
}

func resolveWithFallback(ctx context.Context, repoRoot string, cfg config.Config, indexes []*WorkspaceIndex, opts PackOptions, log *logrus.Logger) (*anchor.Result, error) {
	scopeAdapters := toWorkspaceAdapters(indexes)
	res, err := anchor.Resolve(ctx, scopeAdapters, opts.Anchor)
	if err != nil {
		return nil, err
	}
	if !opts.FallbackAll || (len(res.UnresolvedSymbols) == 0 && !res.Strict()) {
		return res, nil
	}

	log.Debug("fallback-all: retrying with every detected workspace")
	all, err := ResolveScope(repoRoot, cfg, ScopeOptions{AllWorkspaces: true})
	if err != nil {
		return nil, err
	}
	wideIndexes, err := BuildIndexes(ctx, repoRoot, all, cfg, log)
	if err != nil {
		return nil, err
	}
	return anchor.Resolve(ctx, toWorkspaceAdapters(wideIndexes), opts.Anchor)
}

func toWorkspaceAdapters(indexes []*WorkspaceIndex) []anchor.WorkspaceAdapters {
	var out []anchor.WorkspaceAdapters
	for _, idx := range indexes {
		out = append(out, anchor.WorkspaceAdapters{WorkspaceRoot: idx.Workspace.Root, Adapters: idx.Adapters})
	}
	return out
}

func mergeGraphs(adapters []lang.Adapter) model.ImportGraph {
	merged := model.ImportGraph{}
	for _, a := range adapters {
		g := a.ImportGraph()
		for _, from := range g.SortedFroms() {
			for _, to := range g.SortedTargets(from) {
				merged.AddEdge(from, to, g[from][to])
			}
		}
	}
	return merged
}

func rootsOf(scope []model.Workspace) []string {
	out := make([]string, 0, len(scope))
	for _, w := range scope {
		out = append(out, w.Root)
	}
	return out
}

func keysOf(m map[string][]lang.Definition) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func annotateCandidates(candidates []model.Candidate, indexes []*WorkspaceIndex) {
	fileMeta := map[string][2]string{} // file -> [language, workspaceRoot]
	for _, idx := range indexes {
		for _, a := range idx.Adapters {
			for _, f := range a.Files() {
				fileMeta[f] = [2]string{string(a.Language()), idx.Workspace.Root}
			}
		}
	}
	for i, c := range candidates {
		if meta, ok := fileMeta[c.FilePath]; ok {
			candidates[i].Language = model.Language(meta[0])
			candidates[i].Workspace = meta[1]
		}
	}
}

func adapterContentReader(adapters []lang.Adapter) func(ctx context.Context, c model.Candidate) (string, error) {
	byFile := map[string]lang.Adapter{}
	for _, a := range adapters {
		for _, f := range a.Files() {
			byFile[f] = a
		}
	}
	return func(ctx context.Context, c model.Candidate) (string, error) {
		if !c.HasRange {
			return budget.ReadWholeFile(ctx, c)
		}
		if a, ok := byFile[c.FilePath]; ok {
			return a.ExtractSnippet(ctx, c.FilePath, c.Range)
		}
		return readRawSnippet(c.FilePath, c.Range)
	}
}

func readRawSnippet(path string, r model.Range) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(data), "\n")
	start := r.StartLine - 1
	if start < 0 {
		start = 0
	}
	end := r.EndLine
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return "", nil
	}
	return strings.Join(lines[start:end], "\n"), nil
}
