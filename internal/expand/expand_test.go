package expand

import (
	"testing"

	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

func TestBFSDistanceScoring(t *testing.T) {
	graph := model.ImportGraph{}
	graph.AddEdge("/repo/a.ts", "/repo/b.ts", model.EdgeStatic)
	graph.AddEdge("/repo/b.ts", "/repo/c.ts", model.EdgeDynamic)
	graph.AddEdge("/repo/c.ts", "/repo/d.ts", model.EdgeStatic)

	idx := Index{
		Graph:      graph,
		KnownFiles: map[string]bool{"/repo/a.ts": true, "/repo/b.ts": true, "/repo/c.ts": true, "/repo/d.ts": true},
	}
	anchors := map[string]bool{"/repo/a.ts": true}
	out := Expand(idx, anchors, nil, Options{Depth: 3, IncludeTests: "false"})

	byPath := map[string]model.Candidate{}
	for _, c := range out {
		byPath[c.FilePath] = c
	}

	require.Contains(t, byPath, "/repo/b.ts")
	require.Equal(t, 250, byPath["/repo/b.ts"].Score)
	require.Equal(t, []string{"import-distance 1"}, byPath["/repo/b.ts"].Reasons)

	require.Contains(t, byPath, "/repo/c.ts")
	require.Equal(t, 150, byPath["/repo/c.ts"].Score)
	require.Equal(t, []string{"dynamic-import-distance 2"}, byPath["/repo/c.ts"].Reasons)

	require.Contains(t, byPath, "/repo/d.ts")
	require.Equal(t, 50, byPath["/repo/d.ts"].Score)
}

func TestBFSRespectsDepthBound(t *testing.T) {
	graph := model.ImportGraph{}
	graph.AddEdge("/repo/a.ts", "/repo/b.ts", model.EdgeStatic)
	graph.AddEdge("/repo/b.ts", "/repo/c.ts", model.EdgeStatic)

	idx := Index{Graph: graph, KnownFiles: map[string]bool{"/repo/a.ts": true, "/repo/b.ts": true, "/repo/c.ts": true}}
	out := Expand(idx, map[string]bool{"/repo/a.ts": true}, nil, Options{Depth: 1, IncludeTests: "false"})

	var sawC bool
	for _, c := range out {
		if c.FilePath == "/repo/c.ts" {
			sawC = true
		}
	}
	require.False(t, sawC)
}

func TestBarrelFileDetection(t *testing.T) {
	idx := Index{
		Graph: model.ImportGraph{},
		KnownFiles: map[string]bool{
			"/repo/src/feature/impl.ts":  true,
			"/repo/src/feature/index.ts": true,
		},
	}
	out := Expand(idx, map[string]bool{"/repo/src/feature/impl.ts": true}, nil, Options{Depth: 2, IncludeTests: "false"})

	var found bool
	for _, c := range out {
		if c.FilePath == "/repo/src/feature/index.ts" {
			found = true
			require.Contains(t, c.Reasons, "barrel file")
			require.Equal(t, 120, c.Score)
		}
	}
	require.True(t, found)
}

func TestRelatedTestInclusionAutoModeUsesSrcHeuristic(t *testing.T) {
	idx := Index{
		Graph: model.ImportGraph{},
		KnownFiles: map[string]bool{
			"/repo/src/widget.ts":      true,
			"/repo/src/widget.test.ts": true,
		},
	}
	out := Expand(idx, map[string]bool{"/repo/src/widget.ts": true}, nil, Options{Depth: 1, IncludeTests: "auto"})

	var found bool
	for _, c := range out {
		if c.FilePath == "/repo/src/widget.test.ts" {
			found = true
			require.Contains(t, c.Reasons, "related test")
		}
	}
	require.True(t, found)
}

func TestMergeTakesMaxScoreAndUnionsReasons(t *testing.T) {
	base := []model.Candidate{
		{ID: "/repo/b.ts:file", Kind: model.CandidateFile, FilePath: "/repo/b.ts", Score: 1000, Reasons: []string{"entry file"}, Anchor: true},
	}
	graph := model.ImportGraph{}
	graph.AddEdge("/repo/a.ts", "/repo/b.ts", model.EdgeStatic)
	idx := Index{Graph: graph, KnownFiles: map[string]bool{"/repo/a.ts": true, "/repo/b.ts": true}}
	out := Expand(idx, map[string]bool{"/repo/a.ts": true}, base, Options{Depth: 1, IncludeTests: "false"})

	var b model.Candidate
	for _, c := range out {
		if c.FilePath == "/repo/b.ts" {
			b = c
		}
	}
	require.Equal(t, 1000, b.Score)
	require.ElementsMatch(t, []string{"entry file", "import-distance 1"}, b.Reasons)
	require.True(t, b.Anchor)
}

func TestRankingOrderScoreThenKindThenPathThenLine(t *testing.T) {
	candidates := []model.Candidate{
		{ID: "1", Kind: model.CandidateFile, FilePath: "/repo/z.ts", Score: 100},
		{ID: "2", Kind: model.CandidateSnippet, FilePath: "/repo/a.ts", Score: 100},
		{ID: "3", Kind: model.CandidateFile, FilePath: "/repo/a.ts", Score: 200},
	}
	idx := Index{Graph: model.ImportGraph{}, KnownFiles: map[string]bool{}}
	out := Expand(idx, map[string]bool{}, candidates, Options{Depth: 0, IncludeTests: "false"})

	require.Equal(t, "/repo/a.ts", out[0].FilePath)
	require.Equal(t, 200, out[0].Score)
	require.Equal(t, model.CandidateSnippet, out[1].Kind)
	require.Equal(t, "/repo/z.ts", out[2].FilePath)
}
