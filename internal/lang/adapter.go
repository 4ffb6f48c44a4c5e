// Package lang defines the adapter contract shared by the TS/JS and Python
// language adapters (components C and D), grounded on onedusk-pd's
// graph.Parser interface generalized to the richer per-workspace query
// surface spec's "Adapter index" entity requires.
package lang

import (
	"context"

	"github.com/better-vibe/repo-slice/internal/model"
)

// Definition is a single resolved symbol definition.
type Definition struct {
	FilePath       string
	Range          model.Range
	SymbolPosition int
	Name           string
	ClassName      string
	HasClass       bool
}

// ReferenceOptions parameterizes FindReferences.
type ReferenceOptions struct {
	Limit       int
	AnchorFiles map[string]bool
}

// CallExpressionOptions parameterizes FindCallExpressions.
type CallExpressionOptions struct {
	Files        []string // restrict to these absolute files when non-empty
	SymbolFilter string   // restrict to calls whose callee symbol matches, when non-empty
}

// Adapter is the closed per-language contract: tsadapter.Adapter (TS/JS) and
// pyadapter.Adapter (Python) are its only two variants, dispatched by Language() per the
// "no open-ended extension" design note.
type Adapter interface {
	Language() model.Language
	Workspace() string
	Files() []string // absolute paths, ascending
	ImportGraph() model.ImportGraph

	FindDefinitions(ctx context.Context, query string) ([]Definition, error)
	FindReferences(ctx context.Context, def Definition, opts ReferenceOptions) ([]model.SymbolLocation, error)
	ExtractSnippet(ctx context.Context, path string, r model.Range) (string, error)
	FindCallExpressions(ctx context.Context, opts CallExpressionOptions) ([]model.CallExpression, error)

	// ModuleMap is non-nil only for the Python adapter; used to render
	// cache records in a language-neutral way.
	ModuleMap() map[string]string
	Definitions() []model.PythonDefinition

	Close() error
}
