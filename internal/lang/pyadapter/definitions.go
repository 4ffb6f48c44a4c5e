package pyadapter

import (
	"context"
	"strings"

	"github.com/better-vibe/repo-slice/internal/lang"
)

// FindDefinitions implements the query grammar: "module:Name" or a
// dotted "pkg.mod.Class.method" path, where the longest leading dotted
// prefix matching a known module selects the file and the remainder
// names the symbol (optionally "Class.member").
func (a *Adapter) FindDefinitions(ctx context.Context, query string) ([]lang.Definition, error) {
	file, rest := a.resolveQueryFile(query)
	var candidateFiles []string
	if file != "" {
		candidateFiles = []string{file}
	} else {
		candidateFiles = a.files
	}

	className, member, isMember := splitClassMember(rest)

	var out []lang.Definition
	for _, f := range candidateFiles {
		fi := a.byFile[f]
		if fi == nil {
			continue
		}
		for _, d := range fi.defs {
			if isMember {
				if !d.hasClass || d.className != className || d.name != member {
					continue
				}
			} else if d.name != rest {
				continue
			}
			out = append(out, lang.Definition{
				FilePath:  f,
				Range:     d.r,
				Name:      d.name,
				ClassName: d.className,
				HasClass:  d.hasClass,
			})
		}
	}
	return out, nil
}

// resolveQueryFile splits a "module:Name" query, or otherwise treats the
// query as a dotted path and resolves its longest module-map prefix.
func (a *Adapter) resolveQueryFile(query string) (file, rest string) {
	if idx := strings.Index(query, ":"); idx >= 0 {
		mod, name := query[:idx], query[idx+1:]
		if f, ok := a.moduleMap[mod]; ok {
			return f, name
		}
		return "", name
	}
	if f, ok := longestPrefixMatch(a.moduleMap, query); ok {
		mod := a.fileModule[f]
		rest = strings.TrimPrefix(query, mod)
		rest = strings.TrimPrefix(rest, ".")
		return f, rest
	}
	return "", query
}

func splitClassMember(query string) (class, member string, ok bool) {
	idx := strings.LastIndex(query, ".")
	if idx < 0 {
		return "", "", false
	}
	return query[:idx], query[idx+1:], true
}
