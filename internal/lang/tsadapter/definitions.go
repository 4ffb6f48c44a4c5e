package tsadapter

import (
	"context"
	"strings"

	"github.com/better-vibe/repo-slice/internal/lang"
)

// FindDefinitions implements the query grammar: bare symbol,
// "path-hint:symbol", "Class.member", and "default".
func (a *Adapter) FindDefinitions(ctx context.Context, query string) ([]lang.Definition, error) {
	pathHint, symQuery := splitPathHint(query)
	className, member, isMember := splitClassMember(symQuery)

	var out []lang.Definition
	for _, f := range a.files {
		if pathHint != "" && !strings.Contains(f, pathHint) {
			continue
		}
		fi := a.byFile[f]
		if fi == nil {
			continue
		}
		for _, sym := range fi.symbols {
			if !symbolMatches(sym, symQuery, className, member, isMember) {
				continue
			}
			out = append(out, lang.Definition{
				FilePath:       f,
				Range:          sym.r,
				SymbolPosition: sym.symbolPosition,
				Name:           sym.name,
				ClassName:      sym.className,
				HasClass:       sym.hasClass,
			})
		}
	}
	return out, nil
}

func symbolMatches(sym rawSymbol, symQuery, className, member string, isMember bool) bool {
	if symQuery == "default" {
		return sym.isDefault
	}
	if isMember {
		return sym.hasClass && sym.className == className && sym.name == member && (sym.kind == "method" || sym.kind == "property")
	}
	return sym.name == symQuery
}

// splitPathHint splits "path-hint:symbol" into its two parts; a query with
// no colon has an empty path hint.
func splitPathHint(query string) (hint, rest string) {
	idx := strings.Index(query, ":")
	if idx < 0 {
		return "", query
	}
	return query[:idx], query[idx+1:]
}

// splitClassMember splits "Class.member" into its two parts.
func splitClassMember(query string) (class, member string, ok bool) {
	idx := strings.LastIndex(query, ".")
	if idx < 0 {
		return "", "", false
	}
	return query[:idx], query[idx+1:], true
}
