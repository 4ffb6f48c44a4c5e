package pyadapter

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
)

// FindCallExpressions resolves call expressions with the TS confidence
// table plus the self./cls. and known-class-name rows.
func (a *Adapter) FindCallExpressions(ctx context.Context, opts lang.CallExpressionOptions) ([]model.CallExpression, error) {
	scope := opts.Files
	if len(scope) == 0 {
		scope = a.files
	}

	localNames, publicNames, classMembers := a.buildSymbolIndex()

	var out []model.CallExpression
	for _, f := range scope {
		fi := a.byFile[f]
		if fi == nil {
			continue
		}
		for _, c := range fi.calls {
			ce := a.resolveCall(f, c, localNames, publicNames, classMembers)
			if opts.SymbolFilter != "" && ce.CalleeSymbol != opts.SymbolFilter {
				continue
			}
			out = append(out, ce)
		}
	}
	return out, nil
}

type classKey struct{ class, member string }

func (a *Adapter) buildSymbolIndex() (local, public map[string]map[string]bool, classMembers map[classKey]string) {
	local = make(map[string]map[string]bool)
	public = make(map[string]map[string]bool)
	classMembers = make(map[classKey]string)
	for _, f := range a.files {
		fi := a.byFile[f]
		if fi == nil {
			continue
		}
		local[f] = make(map[string]bool)
		public[f] = make(map[string]bool)
		for _, d := range fi.defs {
			if d.hasClass {
				classMembers[classKey{d.className, d.name}] = f
				continue
			}
			local[f][d.name] = true
			if !strings.HasPrefix(d.name, "_") {
				public[f][d.name] = true
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

func (a *Adapter) resolveCall(f string, c rawCall, local, public map[string]map[string]bool, classMembers map[classKey]string) model.CallExpression {
	ce := model.CallExpression{CallerFile: f, Range: c.r}
	if c.hasCallerClass && c.callerName != "" {
		ce.CallerSymbol = c.callerClass + "." + c.callerName
	} else if c.callerName != "" {
		ce.CallerSymbol = c.callerName
	}

	switch c.calleeKind {
	case "identifier":
		name := c.chain[0]
		if local[f][name] {
			ce.CalleeSymbol = a.relPath(f) + "#" + name
			ce.Confidence = 1.0
			return ce
		}
		for _, target := range a.graph.SortedTargets(f) {
			if public[target] != nil && public[target][name] {
				ce.CalleeSymbol = a.relPath(target) + "#" + name
				ce.Confidence = 1.0
				return ce
			}
		}
		ce.CalleeSymbol = name
		ce.Confidence = 0.8
		return ce

	case "attribute":
		if len(c.chain) == 2 && (c.chain[0] == "self" || c.chain[0] == "cls") && c.hasCallerClass {
			if defFile, ok := classMembers[classKey{c.callerClass, c.chain[1]}]; ok {
				ce.CalleeSymbol = a.relPath(defFile) + "#" + c.callerClass + "." + c.chain[1]
				ce.Confidence = 1.0
				return ce
			}
		}
		if len(c.chain) == 2 {
			if defFile, ok := classMembers[classKey{c.chain[0], c.chain[1]}]; ok {
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
