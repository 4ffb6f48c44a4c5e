// Package render serializes bundles and graphs to JSON, Markdown, and
// DOT, grounded on onedusk-pd's internal/export package (deterministic
// ID assignment via a path→id map, strings.Builder emission) generalized
// from Mermaid-only output to four output formats.
package render

import "github.com/better-vibe/repo-slice/internal/model"

// BudgetMeta reports how much of the char/token budget a pack run used.
type BudgetMeta struct {
	BudgetChars int `json:"budgetChars"`
	UsedChars   int `json:"usedChars"`
	UsedTokens  int `json:"usedTokens,omitempty"`
}

// BundleMeta is the `meta` object of a JSON/Markdown bundle.
type BundleMeta struct {
	ToolVersion       string     `json:"toolVersion"`
	Depth             int        `json:"depth"`
	Budget            BudgetMeta `json:"budget"`
	Timestamp         string     `json:"timestamp,omitempty"`
	UnresolvedSymbols []string   `json:"unresolvedSymbols,omitempty"`
}

// BundleItem is a single selected item in a bundle.
type BundleItem struct {
	Kind          model.CandidateKind `json:"kind"`
	Lang          model.Language      `json:"lang,omitempty"`
	WorkspaceRoot string              `json:"workspaceRoot,omitempty"`
	FilePath      string              `json:"filePath"`
	Range         *model.Range        `json:"range,omitempty"`
	Reasons       []string            `json:"reasons"`
	Content       string              `json:"content"`
}

// BundleOmitted is a single omitted candidate in a bundle.
type BundleOmitted struct {
	FilePath string       `json:"filePath"`
	Range    *model.Range `json:"range,omitempty"`
	Reasons  []string     `json:"reasons"`
	Reason   string       `json:"reason"`
}

// Bundle is the top-level shape of `{meta, items[], omitted[]}`.
type Bundle struct {
	Meta    BundleMeta      `json:"meta"`
	Items   []BundleItem    `json:"items"`
	Omitted []BundleOmitted `json:"omitted"`
}

// GraphMeta is the `meta` object of a JSON graph.
type GraphMeta struct {
	GraphType         string   `json:"graphType"`
	Depth             int      `json:"depth"`
	MaxNodes          int      `json:"maxNodes"`
	MaxEdges          int      `json:"maxEdges"`
	Collapse          string   `json:"collapse"`
	Truncated         bool     `json:"truncated"`
	TruncatedNodes    int      `json:"truncatedNodes,omitempty"`
	TruncatedEdges    int      `json:"truncatedEdges,omitempty"`
	UnresolvedSymbols []string `json:"unresolvedSymbols,omitempty"`
}

// GraphDoc is the top-level shape of `{meta, nodes[], edges[]}`.
type GraphDoc struct {
	Meta  GraphMeta         `json:"meta"`
	Nodes []model.GraphNode `json:"nodes"`
	Edges []model.GraphEdge `json:"edges"`
}
