// Package budget selects which ranked candidates fit within a char/token
// budget, grounded on the teacher's bounded-concurrency read pattern
// (errgroup-guarded batches, see onedusk-pd's indirect golang.org/x/sync
// dependency) generalized to rank-order budget accumulation.
package budget

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/better-vibe/repo-slice/internal/model"
	"golang.org/x/sync/errgroup"
)

// readWidth bounds concurrent content reads.
const readWidth = 10

// Options parameterizes Select.
type Options struct {
	BudgetChars  int
	BudgetTokens int // 0 means unconstrained
}

// Item is a selected bundle member with its read content.
type Item struct {
	Candidate model.Candidate
	Content   string
}

// Omitted records a candidate dropped for budget reasons or because its
// content could not be read.
type Omitted struct {
	Candidate model.Candidate
	Reason    string
}

// Result is the budget selector's output.
type Result struct {
	Items      []Item
	Omitted    []Omitted
	UsedChars  int
	UsedTokens int
}

// contentReader abstracts reading a candidate's bytes, so callers can
// inject snippet extraction (via a lang.Adapter) or whole-file reads.
type contentReader func(ctx context.Context, c model.Candidate) (string, error)

// Select reads every candidate's content in bounded-width batches, adds
// header snippets for oversized anchor files, then walks rank order
// accumulating into the budget until either cap would be exceeded.
func Select(ctx context.Context, ranked []model.Candidate, read contentReader, opts Options) (*Result, error) {
	ranked = withHeaderSnippets(ranked, opts.BudgetChars)

	contents := make([]string, len(ranked))
	readErrs := make([]error, len(ranked))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, readWidth)
	for i, c := range ranked {
		i, c := i, c
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()
			content, err := read(gctx, c)
			if err != nil {
				readErrs[i] = err
				return nil
			}
			contents[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for i, c := range ranked {
		if err := readErrs[i]; err != nil {
			res.Omitted = append(res.Omitted, Omitted{Candidate: c, Reason: fmt.Sprintf("%v: failed to read file", err)})
			continue
		}

		content := contents[i]
		length := len([]rune(content))
		tokens := int(math.Ceil(float64(length) / 4))

		exceedsChars := res.UsedChars+length > opts.BudgetChars
		exceedsTokens := opts.BudgetTokens > 0 && res.UsedTokens+tokens > opts.BudgetTokens
		if exceedsChars || exceedsTokens {
			res.Omitted = append(res.Omitted, Omitted{Candidate: c, Reason: joinReasons(c.Reasons)})
			continue
		}

		res.Items = append(res.Items, Item{Candidate: c, Content: content})
		res.UsedChars += length
		res.UsedTokens += tokens
	}

	return res, nil
}

// withHeaderSnippets adds a lines-1..80 snippet candidate for any anchor
// file candidate whose estimated size exceeds half the budget, scored
// anchorScore-200, so the declaration surface survives even when the
// full file would not fit.
func withHeaderSnippets(ranked []model.Candidate, budgetChars int) []model.Candidate {
	out := make([]model.Candidate, 0, len(ranked)+2)
	for _, c := range ranked {
		out = append(out, c)
		if c.Anchor && c.Kind == model.CandidateFile && c.EstimatedChars > budgetChars/2 {
			headerRange := model.Range{StartLine: 1, EndLine: 80}
			out = append(out, model.Candidate{
				ID:             model.CandidateID(c.FilePath, true, headerRange),
				Kind:           model.CandidateSnippet,
				Language:       c.Language,
				Workspace:      c.Workspace,
				FilePath:       c.FilePath,
				Range:          headerRange,
				HasRange:       true,
				Score:          c.Score - 200,
				Reasons:        []string{"header snippet"},
				EstimatedChars: c.EstimatedChars,
				Anchor:         c.Anchor,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func joinReasons(reasons []string) string {
	out := ""
	for i, r := range reasons {
		if i > 0 {
			out += "; "
		}
		out += r
	}
	return out
}

// ReadWholeFile is the default contentReader for whole-file candidates.
func ReadWholeFile(ctx context.Context, c model.Candidate) (string, error) {
	data, err := os.ReadFile(c.FilePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
