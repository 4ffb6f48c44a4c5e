package pyadapter

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
)

// FindReferences reopens each file and collects identifier/attribute-tail
// occurrences textually matching the definition's name, emitting a ±2-line
// range per matching line, ranked as for TS but with a +60 same-file bonus.
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
			if f == def.FilePath {
				sc += 60
			}
			if opts.AnchorFiles != nil && opts.AnchorFiles[f] {
				sc += 50
			} else if opts.AnchorFiles != nil {
				dir := filepath.ToSlash(filepath.Dir(f))
				for af := range opts.AnchorFiles {
					if filepath.ToSlash(filepath.Dir(af)) == dir {
						sc += 20
						break
					}
				}
			}
			found = append(found, scored{
				loc: model.SymbolLocation{
					FilePath:      f,
					Range:         model.Range{StartLine: start, EndLine: end},
					Kind:          model.LocReference,
					Language:      model.LanguagePY,
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
