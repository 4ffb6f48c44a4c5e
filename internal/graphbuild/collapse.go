package graphbuild

import (
	"strings"

	"github.com/better-vibe/repo-slice/internal/model"
)

const externalSentinelID = "__external__"

// applyCollapse implements the four collapse modes. Every mode
// other than none remaps node ids, merges duplicates (anchor OR,
// confidence max), and drops resulting self-loop edges.
func applyCollapse(nodes map[string]model.GraphNode, edges map[edgeKey]model.GraphEdge, mode Collapse) (map[string]model.GraphNode, map[edgeKey]model.GraphEdge) {
	if mode == CollapseNone {
		return nodes, edges
	}

	remap := map[string]string{}
	newNodes := map[string]model.GraphNode{}

	for id, n := range nodes {
		newID, newNode := projectNode(mode, id, n)
		remap[id] = newID
		mergeNode(newNodes, newNode)
	}

	newEdges := map[edgeKey]model.GraphEdge{}
	for _, e := range edges {
		from := remap[e.From]
		to := remap[e.To]
		if from == "" {
			from = e.From
		}
		if to == "" {
			to = e.To
		}
		if from == to {
			continue
		}
		k := edgeKey{from, to, e.Type}
		e.From, e.To = from, to
		mergeEdge(newEdges, k, e)
	}

	return newNodes, newEdges
}

func projectNode(mode Collapse, id string, n model.GraphNode) (string, model.GraphNode) {
	switch mode {
	case CollapseExternal:
		if n.External {
			return externalSentinelID, model.GraphNode{
				ID:         externalSentinelID,
				Kind:       n.Kind,
				Name:       externalSentinelID,
				External:   true,
				Anchor:     n.Anchor,
				Confidence: n.Confidence,
			}
		}
		return id, n

	case CollapseFile:
		if n.FilePath == "" {
			return id, n
		}
		newID := string(n.Language) + ":" + n.FilePath
		return newID, model.GraphNode{
			ID:         newID,
			Kind:       model.NodeFile,
			Language:   n.Language,
			Name:       baseName(n.FilePath),
			FilePath:   n.FilePath,
			Anchor:     n.Anchor,
			External:   n.External,
			Confidence: n.Confidence,
		}

	case CollapseClass:
		if n.Kind != model.NodeMethod {
			return id, n
		}
		hashIdx := strings.Index(id, "#")
		if hashIdx < 0 {
			return id, n
		}
		prefix := id[:hashIdx]
		sym := id[hashIdx+1:]
		dot := strings.LastIndex(sym, ".")
		if dot < 0 {
			return id, n
		}
		class := sym[:dot]
		newID := prefix + "#" + class
		return newID, model.GraphNode{
			ID:         newID,
			Kind:       model.NodeClass,
			Language:   n.Language,
			Name:       class,
			FilePath:   n.FilePath,
			Anchor:     n.Anchor,
			Confidence: n.Confidence,
		}
	}
	return id, n
}
