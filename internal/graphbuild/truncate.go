package graphbuild

import (
	"sort"

	"github.com/better-vibe/repo-slice/internal/model"
)

// truncate preserves every anchor node, fills remaining maxNodes budget
// with non-anchor nodes ordered internal-before-external, confidence
// descending, id ascending; filters and caps edges to maxEdges sorted by
// confidence descending, type ascending, from ascending, to ascending;
// then re-sorts both lists by id / (from,to,type) ascending for
// byte-for-byte determinism.
func truncate(nodes map[string]model.GraphNode, edges map[edgeKey]model.GraphEdge, maxNodes, maxEdges int) (nodeList []model.GraphNode, edgeList []model.GraphEdge, truncated bool, truncatedNodes, truncatedEdges int) {
	var anchors, rest []model.GraphNode
	for _, n := range nodes {
		if n.Anchor {
			anchors = append(anchors, n)
		} else {
			rest = append(rest, n)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].External != rest[j].External {
			return !rest[i].External
		}
		if rest[i].Confidence != rest[j].Confidence {
			return rest[i].Confidence > rest[j].Confidence
		}
		return rest[i].ID < rest[j].ID
	})

	kept := append([]model.GraphNode{}, anchors...)
	if maxNodes > 0 {
		budget := maxNodes - len(anchors)
		if budget < 0 {
			budget = 0
		}
		if budget > len(rest) {
			budget = len(rest)
		}
		truncatedNodes = len(rest) - budget
		kept = append(kept, rest[:budget]...)
	} else {
		kept = append(kept, rest...)
	}

	survivors := map[string]bool{}
	for _, n := range kept {
		survivors[n.ID] = true
	}

	var survivingEdges []model.GraphEdge
	for _, e := range edges {
		if survivors[e.From] && survivors[e.To] {
			survivingEdges = append(survivingEdges, e)
		}
	}
	sort.Slice(survivingEdges, func(i, j int) bool {
		a, b := survivingEdges[i], survivingEdges[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})

	finalEdges := survivingEdges
	if maxEdges > 0 && len(survivingEdges) > maxEdges {
		truncatedEdges = len(survivingEdges) - maxEdges
		finalEdges = survivingEdges[:maxEdges]
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })
	sort.Slice(finalEdges, func(i, j int) bool {
		a, b := finalEdges[i], finalEdges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Type < b.Type
	})

	truncated = truncatedNodes > 0 || truncatedEdges > 0
	return kept, finalEdges, truncated, truncatedNodes, truncatedEdges
}
