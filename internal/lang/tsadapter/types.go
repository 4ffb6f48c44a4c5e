package tsadapter

import "github.com/better-vibe/repo-slice/internal/model"

// rawSymbol is a top-level (or class-member) declaration found while
// walking a single file's tree.
type rawSymbol struct {
	name           string
	kind           string // function, class, interface, type, enum, method, property, variable
	exported       bool
	isDefault      bool
	r              model.Range
	symbolPosition int
	className      string
	hasClass       bool
}

// rawImport is a single import/require/dynamic-import observed in a file,
// prior to resolution.
type rawImport struct {
	specifier string
	isDynamic bool
	isTypeOnly bool
	r         model.Range
}

// rawCall is a single call or new expression observed in a file, prior to
// resolution.
type rawCall struct {
	calleeKind string // identifier, member, element
	// for identifier: the bare name
	// for member: chain segments, e.g. ["obj","method"] or ["this","method"]
	chain      []string
	callerName string // nearest enclosing function/method name, "" if module-level
	callerClass string
	hasCallerClass bool
	r          model.Range
	isNew      bool
}

// fileIndex holds per-file extraction results plus the raw source, kept
// for snippet extraction and textual reference scanning.
type fileIndex struct {
	path    string
	source  []byte
	symbols []rawSymbol
	imports []rawImport
	calls   []rawCall
}
