// Package tsadapter implements the TS/JS language adapter: import graph,
// symbol definitions, reference lookup, and call-expression
// extraction over a syntactic (tree-sitter) parse, grounded on
// onedusk-pd's internal/graph/treesitter_ts.go and internal/graph/resolve.go
// and enriched with declaration-kind coverage from AleutianAI-AleutianFOSS's
// services/trace/ast/typescript_parser.go.
package tsadapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
)

// Adapter is the TS/JS implementation of lang.Adapter.
type Adapter struct {
	workspace string
	files     []string
	byFile    map[string]*fileIndex
	graph     model.ImportGraph
}

// DiagnosticFunc receives a per-file parse diagnostic; the caller decides
// whether to surface it (only under --debug).
type DiagnosticFunc func(path string, err error)

// New builds a TS/JS adapter over sources (absolute path -> file content).
// Parse failures are skipped and reported via onDiagnostic, never fatal.
func New(ctx context.Context, workspaceRoot string, sources map[string][]byte, onDiagnostic DiagnosticFunc) (*Adapter, error) {
	files := make([]string, 0, len(sources))
	for f := range sources {
		files = append(files, f)
	}
	sort.Strings(files)

	res := newResolver(workspaceRoot, files)
	byFile := make(map[string]*fileIndex, len(files))
	graph := make(model.ImportGraph)

	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		fi, err := parseFile(f, sources[f])
		if err != nil {
			if onDiagnostic != nil {
				onDiagnostic(f, err)
			}
			continue
		}
		byFile[f] = fi
		for _, imp := range fi.imports {
			target := res.resolve(f, imp.specifier)
			if target == "" || target == f {
				continue
			}
			kind := model.EdgeDynamic
			if !imp.isDynamic || imp.isTypeOnly {
				kind = model.EdgeStatic
			}
			graph.AddEdge(f, target, kind)
		}
	}

	return &Adapter{workspace: workspaceRoot, files: files, byFile: byFile, graph: graph}, nil
}

func (a *Adapter) Language() model.Language   { return model.LanguageTS }
func (a *Adapter) Workspace() string          { return a.workspace }
func (a *Adapter) Files() []string            { return a.files }
func (a *Adapter) ImportGraph() model.ImportGraph { return a.graph }
func (a *Adapter) ModuleMap() map[string]string   { return nil }
func (a *Adapter) Definitions() []model.PythonDefinition { return nil }

func (a *Adapter) Close() error { return nil }

func (a *Adapter) ExtractSnippet(ctx context.Context, path string, r model.Range) (string, error) {
	fi, ok := a.byFile[path]
	if !ok {
		return "", fmt.Errorf("tsadapter: unknown file %q", path)
	}
	return extractLines(fi.source, r), nil
}

func extractLines(source []byte, r model.Range) string {
	lines := splitLines(source)
	start := r.StartLine - 1
	end := r.EndLine
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	out := ""
	for i := start; i < end; i++ {
		if i > start {
			out += "\n"
		}
		out += lines[i]
	}
	return out
}

func splitLines(source []byte) []string {
	var lines []string
	start := 0
	for i, b := range source {
		if b == '\n' {
			end := i
			if end > start && source[end-1] == '\r' {
				end--
			}
			lines = append(lines, string(source[start:end]))
			start = i + 1
		}
	}
	lines = append(lines, string(source[start:]))
	return lines
}

var _ lang.Adapter = (*Adapter)(nil)
