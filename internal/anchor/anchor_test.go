package anchor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	lng   model.Language
	ws    string
	files []string
	defs  map[string][]lang.Definition
	refs  []model.SymbolLocation
}

func (f *fakeAdapter) Language() model.Language       { return f.lng }
func (f *fakeAdapter) Workspace() string              { return f.ws }
func (f *fakeAdapter) Files() []string                { return f.files }
func (f *fakeAdapter) ImportGraph() model.ImportGraph { return model.ImportGraph{} }
func (f *fakeAdapter) FindDefinitions(ctx context.Context, query string) ([]lang.Definition, error) {
	return f.defs[query], nil
}
func (f *fakeAdapter) FindReferences(ctx context.Context, def lang.Definition, opts lang.ReferenceOptions) ([]model.SymbolLocation, error) {
	return f.refs, nil
}
func (f *fakeAdapter) ExtractSnippet(ctx context.Context, path string, r model.Range) (string, error) {
	return "", nil
}
func (f *fakeAdapter) FindCallExpressions(ctx context.Context, opts lang.CallExpressionOptions) ([]model.CallExpression, error) {
	return nil, nil
}
func (f *fakeAdapter) ModuleMap() map[string]string          { return nil }
func (f *fakeAdapter) Definitions() []model.PythonDefinition { return nil }
func (f *fakeAdapter) Close() error                          { return nil }

func TestResolveEntryMarksAnchorFileAndHighScoreCandidate(t *testing.T) {
	dir := t.TempDir()
	entryPath := filepath.Join(dir, "main.ts")
	require.NoError(t, os.WriteFile(entryPath, []byte("export const x = 1\n"), 0o644))

	scope := []WorkspaceAdapters{{
		WorkspaceRoot: dir,
		Adapters:      []lang.Adapter{&fakeAdapter{lng: model.LanguageTS, ws: dir, files: []string{entryPath}}},
	}}
	res, err := Resolve(context.Background(), scope, Input{Entries: []string{"main.ts"}, RepoRoot: dir})
	require.NoError(t, err)
	require.True(t, res.AnchorFiles[entryPath])
	require.Len(t, res.Candidates, 1)
	require.Equal(t, 1000, res.Candidates[0].Score)
}

func TestResolveSymbolUnresolvedWhenNoAdapterFindsIt(t *testing.T) {
	scope := []WorkspaceAdapters{{
		WorkspaceRoot: "/ws",
		Adapters:      []lang.Adapter{&fakeAdapter{lng: model.LanguageTS, ws: "/ws", defs: map[string][]lang.Definition{}}},
	}}
	res, err := Resolve(context.Background(), scope, Input{Symbols: []string{"doesNotExist"}, RepoRoot: "/ws"})
	require.NoError(t, err)
	require.Equal(t, []string{"doesNotExist"}, res.UnresolvedSymbols)
}

func TestResolveSymbolAmbiguousWhenMultipleDefinitionsFound(t *testing.T) {
	defA := lang.Definition{FilePath: "/ws/a.ts", Name: "run"}
	defB := lang.Definition{FilePath: "/ws/b.ts", Name: "run"}
	scope := []WorkspaceAdapters{{
		WorkspaceRoot: "/ws",
		Adapters: []lang.Adapter{&fakeAdapter{
			lng:   model.LanguageTS,
			ws:    "/ws",
			files: []string{"/ws/a.ts", "/ws/b.ts"},
			defs:  map[string][]lang.Definition{"run": {defA, defB}},
		}},
	}}
	res, err := Resolve(context.Background(), scope, Input{Symbols: []string{"run"}, RepoRoot: "/ws"})
	require.NoError(t, err)
	require.True(t, res.Strict())
	require.Len(t, res.AmbiguousSymbols["run"], 2)
	require.True(t, res.AnchorFiles["/ws/a.ts"])
	require.True(t, res.AnchorFiles["/ws/b.ts"])
}

func TestResolveSymbolPullsReferencesAtLowerScore(t *testing.T) {
	def := lang.Definition{FilePath: "/ws/a.ts", Name: "run"}
	refLoc := model.SymbolLocation{FilePath: "/ws/caller.ts", Range: model.Range{StartLine: 5, EndLine: 5}}
	scope := []WorkspaceAdapters{{
		WorkspaceRoot: "/ws",
		Adapters: []lang.Adapter{&fakeAdapter{
			lng:   model.LanguageTS,
			ws:    "/ws",
			files: []string{"/ws/a.ts"},
			defs:  map[string][]lang.Definition{"run": {def}},
			refs:  []model.SymbolLocation{refLoc},
		}},
	}}
	res, err := Resolve(context.Background(), scope, Input{Symbols: []string{"run"}, RepoRoot: "/ws"})
	require.NoError(t, err)

	var sawReference bool
	for _, c := range res.Candidates {
		if c.FilePath == "/ws/caller.ts" && c.Score == 400 {
			sawReference = true
		}
	}
	require.True(t, sawReference, "expected a reference candidate at score 400, got %+v", res.Candidates)
}
