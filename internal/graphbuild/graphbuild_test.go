package graphbuild

import (
	"testing"

	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

func TestImportSubgraphRespectsDepthAndTypesEdges(t *testing.T) {
	graph := model.ImportGraph{}
	graph.AddEdge("/repo/a.ts", "/repo/b.ts", model.EdgeStatic)
	graph.AddEdge("/repo/b.ts", "/repo/c.ts", model.EdgeDynamic)
	fileLang := map[string]model.Language{
		"/repo/a.ts": model.LanguageTS, "/repo/b.ts": model.LanguageTS, "/repo/c.ts": model.LanguageTS,
	}
	anchors := map[string]bool{"/repo/a.ts": true}

	nodes, edges := buildImportSubgraph(graph, fileLang, anchors, 1)
	require.Contains(t, nodes, fileNodeID(model.LanguageTS, "/repo/a.ts"))
	require.Contains(t, nodes, fileNodeID(model.LanguageTS, "/repo/b.ts"))
	require.NotContains(t, nodes, fileNodeID(model.LanguageTS, "/repo/c.ts"))

	k := edgeKey{fileNodeID(model.LanguageTS, "/repo/a.ts"), fileNodeID(model.LanguageTS, "/repo/b.ts"), model.EdgeImports}
	require.Equal(t, 1.0, edges[k].Confidence)
}

func TestRelativizeGraphRewritesIDsAndPaths(t *testing.T) {
	nodes := map[string]model.GraphNode{
		"typescript:/repo/src/a.ts":     {ID: "typescript:/repo/src/a.ts", Kind: model.NodeFile, Language: model.LanguageTS, FilePath: "/repo/src/a.ts"},
		"typescript:/repo/src/a.ts#Foo": {ID: "typescript:/repo/src/a.ts#Foo", Kind: model.NodeFunction, Language: model.LanguageTS, FilePath: "/repo/src/a.ts"},
	}
	edges := map[edgeKey]model.GraphEdge{
		{"typescript:/repo/src/a.ts", "typescript:/repo/src/a.ts#Foo", model.EdgeCalls}: {
			From: "typescript:/repo/src/a.ts", To: "typescript:/repo/src/a.ts#Foo", Type: model.EdgeCalls, Confidence: 1.0,
		},
	}

	newNodes, newEdges := relativizeGraph(nodes, edges, "/repo")

	require.Contains(t, newNodes, "typescript:src/a.ts")
	require.Contains(t, newNodes, "typescript:src/a.ts#Foo")
	require.Equal(t, "src/a.ts", newNodes["typescript:src/a.ts"].FilePath)

	k := edgeKey{"typescript:src/a.ts", "typescript:src/a.ts#Foo", model.EdgeCalls}
	require.Contains(t, newEdges, k)
}

func TestCollapseFileDropsSelfLoops(t *testing.T) {
	nodes := map[string]model.GraphNode{
		"typescript:/repo/a.ts#foo": {ID: "typescript:/repo/a.ts#foo", Kind: model.NodeFunction, Language: model.LanguageTS, FilePath: "/repo/a.ts"},
		"typescript:/repo/a.ts#bar": {ID: "typescript:/repo/a.ts#bar", Kind: model.NodeFunction, Language: model.LanguageTS, FilePath: "/repo/a.ts"},
	}
	edges := map[edgeKey]model.GraphEdge{
		{"typescript:/repo/a.ts#foo", "typescript:/repo/a.ts#bar", model.EdgeCalls}: {From: "typescript:/repo/a.ts#foo", To: "typescript:/repo/a.ts#bar", Type: model.EdgeCalls, Confidence: 1.0},
	}
	newNodes, newEdges := applyCollapse(nodes, edges, CollapseFile)
	require.Len(t, newNodes, 1)
	require.Len(t, newEdges, 0)
}

func TestTruncationPreservesAnchorsAndReportsCounts(t *testing.T) {
	nodes := map[string]model.GraphNode{}
	nodes["anchor1"] = model.GraphNode{ID: "anchor1", Anchor: true}
	nodes["anchor2"] = model.GraphNode{ID: "anchor2", Anchor: true}
	for i := 0; i < 100; i++ {
		id := "n" + string(rune('a'+i%26)) + string(rune('0'+i/26))
		nodes[id] = model.GraphNode{ID: id, Confidence: 0.5}
	}
	kept, _, truncated, truncatedNodes, _ := truncate(nodes, map[edgeKey]model.GraphEdge{}, 5, 0)
	require.True(t, truncated)
	require.Len(t, kept, 5)
	require.Equal(t, 97, truncatedNodes)

	var sawAnchor1, sawAnchor2 bool
	for _, n := range kept {
		if n.ID == "anchor1" {
			sawAnchor1 = true
		}
		if n.ID == "anchor2" {
			sawAnchor2 = true
		}
	}
	require.True(t, sawAnchor1)
	require.True(t, sawAnchor2)
}
