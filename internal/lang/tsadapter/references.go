package tsadapter

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
)

// FindReferences approximates the host language service's findReferences
// with a syntactic textual scan: no TypeScript compiler exists in this
// ecosystem, and semantic analysis beyond syntax is out of scope, so
// occurrences of the definition's bare name are matched at word
// boundaries across every file and ranked accordingly.
func (a *Adapter) FindReferences(ctx context.Context, def lang.Definition, opts lang.ReferenceOptions) ([]model.SymbolLocation, error) {
	if def.Name == "" {
		return nil, nil
	}
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(def.Name) + `\b`)
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	type scored struct {
		loc   model.SymbolLocation
		score int
	}
	var found []scored

	for _, f := range a.files {
		fi := a.byFile[f]
		if fi == nil {
			continue
		}
		lines := splitLines(fi.source)
		for i, line := range lines {
			lineNo := i + 1
			if f == def.FilePath && lineNo >= def.Range.StartLine && lineNo <= def.Range.EndLine {
				continue
			}
			if !pattern.MatchString(line) {
				continue
			}
			start := lineNo - 2
			if start < 1 {
				start = 1
			}
			end := lineNo + 2
			sc := 0
			if opts.AnchorFiles != nil && opts.AnchorFiles[f] {
				sc += 50
			} else if opts.AnchorFiles != nil && sameDir(opts.AnchorFiles, f) {
				sc += 20
			}
			found = append(found, scored{
				loc: model.SymbolLocation{
					FilePath:      f,
					Range:         model.Range{StartLine: start, EndLine: end},
					Kind:          model.LocReference,
					Language:      model.LanguageTS,
					SymbolName:    def.Name,
					HasSymbolName: true,
				},
				score: sc,
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		if found[i].loc.FilePath != found[j].loc.FilePath {
			return found[i].loc.FilePath < found[j].loc.FilePath
		}
		return found[i].loc.Range.StartLine < found[j].loc.Range.StartLine
	})

	if len(found) > limit {
		found = found[:limit]
	}
	out := make([]model.SymbolLocation, len(found))
	for i, s := range found {
		out[i] = s.loc
	}
	return out, nil
}

func sameDir(anchorFiles map[string]bool, f string) bool {
	dir := filepath.ToSlash(filepath.Dir(f))
	for af := range anchorFiles {
		if filepath.ToSlash(filepath.Dir(af)) == dir {
			return true
		}
	}
	return false
}
