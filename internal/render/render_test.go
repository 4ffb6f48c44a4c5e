package render

import (
	"testing"

	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

func TestMarkdownIncludesIndexAndFencedBlocks(t *testing.T) {
	b := Bundle{
		Meta: BundleMeta{ToolVersion: "test", Depth: 2, Budget: BudgetMeta{BudgetChars: 1000, UsedChars: 10}},
		Items: []BundleItem{
			{Kind: model.CandidateFile, FilePath: "src/app.ts", Reasons: []string{"entry file"}, Content: "export const x = 1;"},
		},
		Omitted: []BundleOmitted{
			{FilePath: "src/big.ts", Reason: "import-distance 2"},
		},
	}
	out := Markdown(b)
	require.Contains(t, out, "## Index")
	require.Contains(t, out, "src/app.ts")
	require.Contains(t, out, "```typescript")
	require.Contains(t, out, "## Omitted")
	require.Contains(t, out, "import-distance 2")
}

func TestDOTStylesAnchorAndExternalNodes(t *testing.T) {
	g := GraphDoc{
		Meta: GraphMeta{GraphType: "imports"},
		Nodes: []model.GraphNode{
			{ID: "typescript:/repo/a.ts", Name: "a.ts", Kind: model.NodeFile, Anchor: true},
			{ID: "__external__", Name: "__external__", External: true},
		},
		Edges: []model.GraphEdge{
			{From: "typescript:/repo/a.ts", To: "__external__", Type: model.EdgeImports, Confidence: 1.0},
		},
	}
	out := DOT(g)
	require.Contains(t, out, "digraph G")
	require.Contains(t, out, "lightblue")
	require.Contains(t, out, "style=dashed")
}

func TestDOTNestsMultiWorkspaceClusters(t *testing.T) {
	g := GraphDoc{
		Nodes: []model.GraphNode{
			{ID: "a", Name: "a", WorkspaceRoot: "/repo/app"},
			{ID: "b", Name: "b", WorkspaceRoot: "/repo/lib"},
		},
	}
	out := DOT(g)
	require.Contains(t, out, "subgraph cluster_0")
	require.Contains(t, out, "subgraph cluster_1")
}
