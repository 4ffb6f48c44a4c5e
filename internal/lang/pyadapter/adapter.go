// Package pyadapter implements the Python language adapter over a
// syntactic tree-sitter parse: module map, definitions, import graph,
// reference lookup, and call-expression extraction, grounded on
// onedusk-pd's internal/graph/treesitter_py.go and internal/graph/resolve.go
// (resolvePython's dotted/relative resolution, generalized to a
// longest-prefix module-map match).
package pyadapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
)

// Adapter is the Python implementation of lang.Adapter.
type Adapter struct {
	workspace  string
	files      []string
	byFile     map[string]*fileIndex
	graph      model.ImportGraph
	moduleMap  map[string]string
	fileModule map[string]string
	defs       []model.PythonDefinition
}

// DiagnosticFunc receives a per-file parse diagnostic.
type DiagnosticFunc func(path string, err error)

// New builds a Python adapter over sources (absolute path -> file
// content). A per-file parse failure skips that file and is reported via
// onDiagnostic.
func New(ctx context.Context, workspaceRoot string, sources map[string][]byte, importRoots []string, onDiagnostic DiagnosticFunc) (*Adapter, error) {
	files := make([]string, 0, len(sources))
	for f := range sources {
		files = append(files, f)
	}
	sort.Strings(files)

	byFile := make(map[string]*fileIndex, len(files))
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
	}

	moduleMap, fileModule := buildModuleMap(workspaceRoot, files, importRoots)
	graph := buildImportGraph(files, byFile, moduleMap, fileModule)

	var defs []model.PythonDefinition
	for _, f := range files {
		fi := byFile[f]
		if fi == nil {
			continue
		}
		for _, d := range fi.defs {
			pd := model.PythonDefinition{Name: d.name, Kind: d.kind, Range: d.r, FilePath: f}
			if d.hasClass {
				pd.ClassName = d.className
				pd.HasClass = true
			}
			defs = append(defs, pd)
		}
	}

	return &Adapter{
		workspace:  workspaceRoot,
		files:      files,
		byFile:     byFile,
		graph:      graph,
		moduleMap:  moduleMap,
		fileModule: fileModule,
		defs:       defs,
	}, nil
}

func (a *Adapter) Language() model.Language             { return model.LanguagePY }
func (a *Adapter) Workspace() string                    { return a.workspace }
func (a *Adapter) Files() []string                      { return a.files }
func (a *Adapter) ImportGraph() model.ImportGraph        { return a.graph }
func (a *Adapter) ModuleMap() map[string]string          { return a.moduleMap }
func (a *Adapter) Definitions() []model.PythonDefinition { return a.defs }
func (a *Adapter) Close() error                          { return nil }

func (a *Adapter) ExtractSnippet(ctx context.Context, path string, r model.Range) (string, error) {
	fi, ok := a.byFile[path]
	if !ok {
		return "", fmt.Errorf("pyadapter: unknown file %q", path)
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
