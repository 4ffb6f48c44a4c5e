package budget

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

func fixedReader(content string) contentReader {
	return func(ctx context.Context, c model.Candidate) (string, error) {
		return content, nil
	}
}

func TestSelectStopsAtCharBudget(t *testing.T) {
	ranked := []model.Candidate{
		{ID: "a:file", Kind: model.CandidateFile, FilePath: "a", Score: 200, Reasons: []string{"import-distance 1"}},
		{ID: "b:file", Kind: model.CandidateFile, FilePath: "b", Score: 100, Reasons: []string{"import-distance 2"}},
	}
	res, err := Select(context.Background(), ranked, fixedReader(strings.Repeat("x", 10)), Options{BudgetChars: 15})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Len(t, res.Omitted, 1)
	require.Equal(t, "import-distance 2", res.Omitted[0].Reason)
	require.Equal(t, 10, res.UsedChars)
}

func TestSelectStopsAtTokenBudget(t *testing.T) {
	ranked := []model.Candidate{
		{ID: "a:file", Kind: model.CandidateFile, FilePath: "a", Score: 200},
		{ID: "b:file", Kind: model.CandidateFile, FilePath: "b", Score: 100},
	}
	res, err := Select(context.Background(), ranked, fixedReader(strings.Repeat("x", 40)), Options{BudgetChars: 1000, BudgetTokens: 10})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Len(t, res.Omitted, 1)
}

func TestSelectOmitsUnreadableCandidateInsteadOfFailing(t *testing.T) {
	ranked := []model.Candidate{
		{ID: "a:file", Kind: model.CandidateFile, FilePath: "a", Score: 200, Reasons: []string{"entry file"}},
		{ID: "b:file", Kind: model.CandidateFile, FilePath: "b", Score: 100, Reasons: []string{"import-distance 1"}},
	}
	readErr := errors.New("permission denied")
	read := func(ctx context.Context, c model.Candidate) (string, error) {
		if c.FilePath == "a" {
			return "", readErr
		}
		return "ok", nil
	}
	res, err := Select(context.Background(), ranked, read, Options{BudgetChars: 1000})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Equal(t, "b", res.Items[0].Candidate.FilePath)
	require.Len(t, res.Omitted, 1)
	require.Equal(t, "a", res.Omitted[0].Candidate.FilePath)
	require.Contains(t, res.Omitted[0].Reason, "failed to read file")
}

func TestHeaderSnippetAddedForOversizedAnchor(t *testing.T) {
	ranked := []model.Candidate{
		{ID: "a:file", Kind: model.CandidateFile, FilePath: "a", Score: 1000, Anchor: true, EstimatedChars: 20000, Reasons: []string{"entry file"}},
	}
	out := withHeaderSnippets(ranked, 28000)
	require.Len(t, out, 2)

	var sawSnippet bool
	for _, c := range out {
		if c.Kind == model.CandidateSnippet {
			sawSnippet = true
			require.Equal(t, 800, c.Score)
			require.Equal(t, []string{"header snippet"}, c.Reasons)
			require.Equal(t, 1, c.Range.StartLine)
			require.Equal(t, 80, c.Range.EndLine)
		}
	}
	require.True(t, sawSnippet)
}
