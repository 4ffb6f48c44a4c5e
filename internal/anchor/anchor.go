// Package anchor normalizes entry paths, symbol queries, diff hunks, and
// log lines into a canonical set of anchor files and seed candidates,
// grounded on onedusk-pd's graph.Resolver pattern of building results
// from in-memory indexes; the only filesystem access is an os.Stat for an
// entry path that no adapter in scope knows.
package anchor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/better-vibe/repo-slice/internal/pathutil"
	"github.com/better-vibe/repo-slice/internal/vcsdiff"
)

// LogAnchor is a single parsed structured-log location.
type LogAnchor struct {
	FilePath string
	Line     int
}

// Input gathers every anchor-producing CLI input for one resolution pass.
type Input struct {
	Entries    []string
	Symbols    []string
	DiffHunks  []vcsdiff.Hunk
	LogAnchors []LogAnchor
	RepoRoot   string
}

// Result is the outcome of one resolution pass.
type Result struct {
	AnchorFiles       map[string]bool
	Candidates        []model.Candidate
	UnresolvedSymbols []string
	AmbiguousSymbols  map[string][]lang.Definition
}

// WorkspaceAdapters pairs a workspace root with its language adapters, in
// the scope order symbol resolution should search them.
type WorkspaceAdapters struct {
	WorkspaceRoot string
	Adapters      []lang.Adapter
}

// Resolve normalizes in against scope, in scope order.
func Resolve(ctx context.Context, scope []WorkspaceAdapters, in Input) (*Result, error) {
	res := &Result{
		AnchorFiles:      make(map[string]bool),
		AmbiguousSymbols: make(map[string][]lang.Definition),
	}

	for _, entry := range in.Entries {
		abs, err := pathutil.Canonicalize(filepath.Join(in.RepoRoot, entry))
		if err != nil {
			return nil, err
		}
		if !fileExistsInScope(scope, abs) {
			if _, statErr := os.Stat(abs); statErr != nil {
				return nil, fmt.Errorf("anchor: entry %q does not exist under any workspace", entry)
			}
		}
		res.AnchorFiles[abs] = true
		res.Candidates = append(res.Candidates, model.Candidate{
			ID:       model.CandidateID(abs, false, model.Range{}),
			Kind:     model.CandidateFile,
			FilePath: abs,
			Score:    1000,
			Reasons:  []string{"entry file"},
			Anchor:   true,
		})
	}

	for _, query := range in.Symbols {
		var defs []lang.Definition
		for _, ws := range scope {
			for _, a := range ws.Adapters {
				found, err := a.FindDefinitions(ctx, query)
				if err != nil {
					return nil, err
				}
				defs = append(defs, found...)
			}
		}
		if len(defs) == 0 {
			res.UnresolvedSymbols = append(res.UnresolvedSymbols, query)
			continue
		}
		if len(defs) > 1 {
			res.AmbiguousSymbols[query] = defs
		}
		for _, def := range defs {
			res.AnchorFiles[def.FilePath] = true
			res.Candidates = append(res.Candidates, model.Candidate{
				ID:       model.CandidateID(def.FilePath, true, def.Range),
				Kind:     model.CandidateSnippet,
				FilePath: def.FilePath,
				Range:    def.Range,
				HasRange: true,
				Score:    800,
				Reasons:  []string{fmt.Sprintf("symbol definition %s", query)},
				Anchor:   true,
			})

			adapter := adapterFor(scope, def.FilePath)
			if adapter == nil {
				continue
			}
			refs, err := adapter.FindReferences(ctx, def, lang.ReferenceOptions{Limit: 10, AnchorFiles: res.AnchorFiles})
			if err != nil {
				return nil, err
			}
			for _, ref := range refs {
				res.Candidates = append(res.Candidates, model.Candidate{
					ID:       model.CandidateID(ref.FilePath, true, ref.Range),
					Kind:     model.CandidateSnippet,
					FilePath: ref.FilePath,
					Range:    ref.Range,
					HasRange: true,
					Score:    400,
					Reasons:  []string{fmt.Sprintf("reference to %s", query)},
				})
			}
		}
	}

	for _, h := range in.DiffHunks {
		abs, err := pathutil.Canonicalize(filepath.Join(in.RepoRoot, h.FilePath))
		if err != nil {
			return nil, err
		}
		res.AnchorFiles[abs] = true
		r := model.Range{StartLine: h.Range.StartLine, EndLine: h.Range.EndLine}
		res.Candidates = append(res.Candidates, model.Candidate{
			ID:       model.CandidateID(abs, true, r),
			Kind:     model.CandidateSnippet,
			FilePath: abs,
			Range:    r,
			HasRange: true,
			Score:    700,
			Reasons:  []string{"diff hunk"},
			Anchor:   true,
		})
	}

	for _, la := range in.LogAnchors {
		abs, err := pathutil.Canonicalize(filepath.Join(in.RepoRoot, la.FilePath))
		if err != nil {
			return nil, err
		}
		res.AnchorFiles[abs] = true
		start := la.Line - 3
		if start < 1 {
			start = 1
		}
		r := model.Range{StartLine: start, EndLine: la.Line + 3}
		res.Candidates = append(res.Candidates, model.Candidate{
			ID:       model.CandidateID(abs, true, r),
			Kind:     model.CandidateSnippet,
			FilePath: abs,
			Range:    r,
			HasRange: true,
			Score:    500,
			Reasons:  []string{"log anchor"},
			Anchor:   true,
		})
	}

	sort.Slice(res.Candidates, func(i, j int) bool { return res.Candidates[i].ID < res.Candidates[j].ID })
	return res, nil
}

func fileExistsInScope(scope []WorkspaceAdapters, abs string) bool {
	for _, ws := range scope {
		for _, a := range ws.Adapters {
			for _, f := range a.Files() {
				if f == abs {
					return true
				}
			}
		}
	}
	return false
}

func adapterFor(scope []WorkspaceAdapters, file string) lang.Adapter {
	for _, ws := range scope {
		for _, a := range ws.Adapters {
			for _, f := range a.Files() {
				if f == file {
					return a
				}
			}
		}
	}
	return nil
}

// Strict reports whether res contains a strict-mode failure: any
// ambiguity. Callers in strict mode should also treat a wholly
// unresolved request set as a failure.
func (r *Result) Strict() bool {
	return len(r.AmbiguousSymbols) > 0
}
