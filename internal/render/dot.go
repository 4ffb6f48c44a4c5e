package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/better-vibe/repo-slice/internal/model"
)

// DOT renders a GraphDoc as a Graphviz digraph, adapted from onedusk-pd's
// internal/export.GenerateMermaid deterministic-ID-assignment pattern
// (a path→id map keyed by first sight, `N%d` ids) applied to DOT's
// richer per-node/edge styling vocabulary.
func DOT(g GraphDoc) string {
	var sb strings.Builder
	sb.WriteString("digraph G {\n  rankdir=LR;\n  node [shape=box];\n\n")

	ids := map[string]string{}
	next := 0
	getID := func(nodeID string) string {
		if id, ok := ids[nodeID]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", next)
		next++
		ids[nodeID] = id
		return id
	}

	byWorkspace := map[string][]model.GraphNode{}
	var workspaceOrder []string
	for _, n := range g.Nodes {
		ws := n.WorkspaceRoot
		if _, ok := byWorkspace[ws]; !ok {
			workspaceOrder = append(workspaceOrder, ws)
		}
		byWorkspace[ws] = append(byWorkspace[ws], n)
	}
	sort.Strings(workspaceOrder)

	multiWorkspace := len(workspaceOrder) > 1 && workspaceOrder[0] != ""
	for i, ws := range workspaceOrder {
		nodes := byWorkspace[ws]
		indent := "  "
		if multiWorkspace {
			sb.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n", i))
			sb.WriteString(fmt.Sprintf("    label=%q;\n", ws))
			indent = "    "
		}
		for _, n := range nodes {
			sb.WriteString(indent + getID(n.ID) + " " + nodeAttrs(n) + ";\n")
		}
		if multiWorkspace {
			sb.WriteString("  }\n")
		}
	}

	sb.WriteString("\n")
	for _, e := range g.Edges {
		sb.WriteString("  " + getID(e.From) + " -> " + getID(e.To) + " " + edgeAttrs(e) + ";\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

func nodeAttrs(n model.GraphNode) string {
	var attrs []string
	attrs = append(attrs, fmt.Sprintf("label=%q", n.Name))

	switch n.Kind {
	case model.NodeClass:
		attrs = append(attrs, "shape=ellipse")
	case model.NodeFunction, model.NodeMethod, model.NodeConstructor:
		attrs = append(attrs, "shape=diamond")
	}

	if n.Anchor {
		attrs = append(attrs, "style=filled", `fillcolor="lightblue"`)
	} else if n.External {
		attrs = append(attrs, "style=dashed", `color="gray"`)
	}

	return "[" + strings.Join(attrs, ", ") + "]"
}

func edgeAttrs(e model.GraphEdge) string {
	var attrs []string
	switch e.Type {
	case model.EdgeTests:
		attrs = append(attrs, `color="green"`)
	case model.EdgeCalls:
		attrs = append(attrs, `color="blue"`)
	case model.EdgeImportsDynamic, model.EdgeCallsUnknown:
		attrs = append(attrs, "style=dashed")
	}
	if len(attrs) == 0 && e.Confidence < 0.8 {
		attrs = append(attrs, "style=dotted")
	}
	if len(attrs) == 0 {
		return ""
	}
	return "[" + strings.Join(attrs, ", ") + "]"
}
