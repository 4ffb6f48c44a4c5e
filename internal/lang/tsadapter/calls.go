package tsadapter

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
)

// FindCallExpressions resolves call/new expressions syntactically. No type
// information is used: a property-access call that is not on this or a
// known class is recorded under its joined chain as a dynamic call.
func (a *Adapter) FindCallExpressions(ctx context.Context, opts lang.CallExpressionOptions) ([]model.CallExpression, error) {
	scope := opts.Files
	if len(scope) == 0 {
		scope = a.files
	}
	filter := make(map[string]bool, len(scope))
	for _, f := range scope {
		filter[f] = true
	}

	topLevel, exported, classMembers := a.buildSymbolIndex()

	var out []model.CallExpression
	for _, f := range scope {
		fi := a.byFile[f]
		if fi == nil {
			continue
		}
		for _, c := range fi.calls {
			ce := a.resolveCall(f, c, topLevel, exported, classMembers)
			if opts.SymbolFilter != "" && ce.CalleeSymbol != opts.SymbolFilter {
				continue
			}
			out = append(out, ce)
		}
	}
	return out, nil
}

type classKey struct{ class, member string }

func (a *Adapter) buildSymbolIndex() (topLevel, exported map[string]map[string]bool, classMembers map[classKey]string) {
	topLevel = make(map[string]map[string]bool)
	exported = make(map[string]map[string]bool)
	classMembers = make(map[classKey]string) // class.member -> defining file
	for _, f := range a.files {
		fi := a.byFile[f]
		if fi == nil {
			continue
		}
		topLevel[f] = make(map[string]bool)
		exported[f] = make(map[string]bool)
		for _, sym := range fi.symbols {
			if sym.hasClass {
				classMembers[classKey{sym.className, sym.name}] = f
				continue
			}
			topLevel[f][sym.name] = true
			if sym.exported {
				exported[f][sym.name] = true
			}
		}
	}
	return
}

func (a *Adapter) relPath(f string) string {
	rel, err := filepath.Rel(a.workspace, f)
	if err != nil {
		return f
	}
	return filepath.ToSlash(rel)
}

func (a *Adapter) resolveCall(f string, c rawCall, topLevel, exported map[string]map[string]bool, classMembers map[classKey]string) model.CallExpression {
	ce := model.CallExpression{CallerFile: f, Range: c.r}
	if c.hasCallerClass && c.callerName != "" {
		ce.CallerSymbol = c.callerClass + "." + c.callerName
	} else if c.callerName != "" {
		ce.CallerSymbol = c.callerName
	}

	switch c.calleeKind {
	case "identifier":
		name := c.chain[0]
		if topLevel[f][name] {
			ce.CalleeSymbol = a.relPath(f) + "#" + name
			ce.Confidence = 1.0
			return ce
		}
		for _, target := range a.graph.SortedTargets(f) {
			if exported[target] != nil && exported[target][name] {
				ce.CalleeSymbol = a.relPath(target) + "#" + name
				ce.Confidence = 1.0
				return ce
			}
		}
		ce.CalleeSymbol = name
		ce.Confidence = 0.8
		return ce

	case "member":
		if len(c.chain) == 2 && c.chain[0] == "this" && c.hasCallerClass {
			if _, ok := classMembers[classKey{c.callerClass, c.chain[1]}]; ok {
				ce.CalleeSymbol = a.relPath(f) + "#" + c.callerClass + "." + c.chain[1]
				ce.Confidence = 1.0
				return ce
			}
		}
		if len(c.chain) == 2 {
			if defFile, ok := findClassByName(classMembers, c.chain[0], c.chain[1]); ok {
				ce.CalleeSymbol = a.relPath(defFile) + "#" + c.chain[0] + "." + c.chain[1]
				ce.Confidence = 1.0
				return ce
			}
		}
		ce.CalleeSymbol = strings.Join(c.chain, ".")
		ce.Confidence = 0.6
		ce.IsDynamic = true
		return ce

	case "element":
		ce.CalleeSymbol = "[dynamic]"
		ce.Confidence = 0.3
		ce.IsDynamic = true
		return ce
	}
	return ce
}

func findClassByName(classMembers map[classKey]string, class, member string) (string, bool) {
	f, ok := classMembers[classKey{class, member}]
	return f, ok
}
