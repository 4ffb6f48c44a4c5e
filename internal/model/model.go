// Package model holds the data types shared across repo-slice's analysis
// components: workspaces, fingerprints, graph nodes/edges, and candidates.
package model

import (
	"sort"
	"strconv"
)

// Language identifies a supported source language.
type Language string

const (
	LanguageTS Language = "typescript"
	LanguagePY Language = "python"
)

// WorkspaceKind classifies how a workspace was detected.
type WorkspaceKind string

const (
	WorkspaceNode  WorkspaceKind = "node"
	WorkspacePy    WorkspaceKind = "python"
	WorkspaceMixed WorkspaceKind = "mixed"
)

// Workspace is a directory owning its own dependency manifest, the unit of
// indexing and caching.
type Workspace struct {
	ID   string        `json:"id"`
	Name string        `json:"name,omitempty"`
	Root string        `json:"root"` // absolute, canonicalized
	Kind WorkspaceKind `json:"kind"`
}

// FileFingerprint identifies a file's on-disk state for cache validation.
type FileFingerprint struct {
	Path    string // absolute, canonicalized
	MtimeMs int64
	Size    int64
}

// Range is a 1-based, inclusive line range, with optional column detail.
type Range struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
	StartCol  int `json:"startCol,omitempty"`
	EndCol    int `json:"endCol,omitempty"`
}

// SymbolLocationKind enumerates what a SymbolLocation represents.
type SymbolLocationKind string

const (
	LocDefinition SymbolLocationKind = "definition"
	LocReference  SymbolLocationKind = "reference"
	LocDiagnostic SymbolLocationKind = "diagnostic"
	LocDiffHunk   SymbolLocationKind = "diff-hunk"
	LocContext    SymbolLocationKind = "context"
)

// SymbolLocation pins a symbol or anchor to a file range.
type SymbolLocation struct {
	FilePath       string
	Range          Range
	Kind           SymbolLocationKind
	Language       Language
	SymbolName     string
	HasSymbolName  bool
	SymbolPosition int
	HasSymbolPos   bool
}

// EdgeKind is the kind of an import edge: static strictly overrides dynamic
// for the same (from, to) pair.
type EdgeKind string

const (
	EdgeStatic  EdgeKind = "static"
	EdgeDynamic EdgeKind = "dynamic"
)

// ImportGraph maps an absolute from-file to a map of absolute to-file to
// edge kind. Only files within the owning workspace appear as keys or
// values.
type ImportGraph map[string]map[string]EdgeKind

// AddEdge merges an edge into the graph, applying the static-wins rule.
func (g ImportGraph) AddEdge(from, to string, kind EdgeKind) {
	m, ok := g[from]
	if !ok {
		m = make(map[string]EdgeKind)
		g[from] = m
	}
	if existing, ok := m[to]; ok && existing == EdgeStatic {
		return
	}
	m[to] = kind
}

// SortedFroms returns the graph's from-keys in ascending order.
func (g ImportGraph) SortedFroms() []string {
	out := make([]string, 0, len(g))
	for k := range g {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SortedTargets returns the targets of a from-file in ascending order.
func (g ImportGraph) SortedTargets(from string) []string {
	m := g[from]
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CallExpression is a single call or new expression observed by an adapter.
type CallExpression struct {
	CallerFile    string
	CallerSymbol  string
	CalleeSymbol  string
	Range         Range
	Confidence    float64
	IsDynamic     bool
}

// PythonDefinitionKind enumerates Python def kinds.
type PythonDefinitionKind string

const (
	PyDefFunction PythonDefinitionKind = "function"
	PyDefClass    PythonDefinitionKind = "class"
	PyDefMethod   PythonDefinitionKind = "method"
)

// PythonDefinition is a function, class, or method definition.
type PythonDefinition struct {
	Name       string
	Kind       PythonDefinitionKind
	Range      Range
	FilePath   string
	ClassName  string
	HasClass   bool
	ClassRange Range
}

// CandidateKind distinguishes whole-file candidates from line-range
// snippets.
type CandidateKind string

const (
	CandidateFile    CandidateKind = "file"
	CandidateSnippet CandidateKind = "snippet"
)

// Candidate is a potential bundle member with a score and reasons.
type Candidate struct {
	ID             string
	Kind           CandidateKind
	Language       Language
	Workspace      string
	FilePath       string
	Range          Range
	HasRange       bool
	Score          int
	Reasons        []string
	EstimatedChars int
	Anchor         bool
}

// AddReason appends reason if it is not already present.
func (c *Candidate) AddReason(reason string) {
	for _, r := range c.Reasons {
		if r == reason {
			return
		}
	}
	c.Reasons = append(c.Reasons, reason)
}

// CandidateID computes the canonical candidate id for a file or snippet.
func CandidateID(filePath string, hasRange bool, r Range) string {
	if !hasRange {
		return filePath + ":file"
	}
	return filePath + ":" + strconv.Itoa(r.StartLine) + "-" + strconv.Itoa(r.EndLine)
}

// GraphNodeKind enumerates graph node kinds.
type GraphNodeKind string

const (
	NodeFile        GraphNodeKind = "file"
	NodeModule      GraphNodeKind = "module"
	NodeFunction    GraphNodeKind = "function"
	NodeMethod      GraphNodeKind = "method"
	NodeConstructor GraphNodeKind = "constructor"
	NodeClass       GraphNodeKind = "class"
)

// GraphNode is a node in an import, call, or combined graph.
type GraphNode struct {
	ID            string        `json:"id"`
	Kind          GraphNodeKind `json:"kind"`
	Language      Language      `json:"language,omitempty"`
	Name          string        `json:"name"`
	FilePath      string        `json:"filePath"`
	Range         *Range        `json:"range,omitempty"`
	WorkspaceRoot string        `json:"workspaceRoot,omitempty"`
	Anchor        bool          `json:"anchor"`
	External      bool          `json:"external"`
	Confidence    float64       `json:"confidence"`
}

// GraphEdgeType enumerates graph edge types.
type GraphEdgeType string

const (
	EdgeImports        GraphEdgeType = "imports"
	EdgeImportsDynamic GraphEdgeType = "imports-dynamic"
	EdgeTests          GraphEdgeType = "tests"
	EdgeCalls          GraphEdgeType = "calls"
	EdgeCallsDynamic   GraphEdgeType = "calls-dynamic"
	EdgeCallsUnknown   GraphEdgeType = "calls-unknown"
)

// Callsite identifies the call expression underlying a calls-* edge.
type Callsite struct {
	FilePath string `json:"filePath"`
	Range    Range  `json:"range"`
}

// GraphEdge is a typed edge between two graph nodes.
type GraphEdge struct {
	From       string        `json:"from"`
	To         string        `json:"to"`
	Type       GraphEdgeType `json:"type"`
	Callsite   *Callsite     `json:"callsite,omitempty"`
	Confidence float64       `json:"confidence"`
}

// WorkspaceCacheRecord is the in-memory shape of a persisted workspace
// cache, independent of its on-disk encoding.
type WorkspaceCacheRecord struct {
	SchemaVersion int
	ToolVersion   string
	WorkspaceRoot string
	ConfigHash    string
	Files         []FileFingerprint
	TS            *TSCacheRecord
	PY            *PYCacheRecord
}

// TSCacheRecord is the TS/JS adapter's persisted state.
type TSCacheRecord struct {
	ImportGraph     ImportGraph
	CallExpressions []CallExpression
	HasCalls        bool
}

// PYCacheRecord is the Python adapter's persisted state.
type PYCacheRecord struct {
	ModuleMap       map[string]string // dotted module -> absolute file path
	Definitions     []PythonDefinition
	ImportGraph     ImportGraph
	CallExpressions []CallExpression
	HasCalls        bool
}
