package pyadapter

import "github.com/better-vibe/repo-slice/internal/model"

// rawDef is a function, class, or method definition found while walking a
// single file's tree.
type rawDef struct {
	name       string
	kind       model.PythonDefinitionKind
	r          model.Range
	className  string
	hasClass   bool
	classRange model.Range
}

// rawImportCandidate is one import statement's module reference, prior to
// module-map resolution: the module part (with its relative-dot level) and,
// for a "from M import a, b" statement, the imported names.
type rawImportCandidate struct {
	isRelative bool
	level      int // number of leading dots
	modulePart string
	names      []string
	r          model.Range
}

// rawCall mirrors tsadapter's rawCall for the Python walker.
type rawCall struct {
	calleeKind     string // identifier, attribute, element
	chain          []string
	callerName     string
	callerClass    string
	hasCallerClass bool
	r              model.Range
}

type fileIndex struct {
	path       string
	source     []byte
	module     string // dotted module name for this file
	defs       []rawDef
	importCand []rawImportCandidate
	calls      []rawCall
}
