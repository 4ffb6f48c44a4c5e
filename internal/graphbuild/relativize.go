package graphbuild

import (
	"strings"

	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/better-vibe/repo-slice/internal/pathutil"
)

// relativizeGraph rewrites every node id and file path to be repo-relative
// and POSIX-separated, the form external outputs use. File/symbol node
// ids embed the node's absolute file path (see fileNodeID), so the id
// itself is rebuilt around the relativized path rather than just its
// FilePath field.
func relativizeGraph(nodes map[string]model.GraphNode, edges map[edgeKey]model.GraphEdge, repoRoot string) (map[string]model.GraphNode, map[edgeKey]model.GraphEdge) {
	remap := map[string]string{}
	newNodes := map[string]model.GraphNode{}
	for id, n := range nodes {
		newID := id
		if n.FilePath != "" {
			abs := n.FilePath
			rel := pathutil.ToRepoRelative(repoRoot, abs)
			suffix := strings.TrimPrefix(id, fileNodeID(n.Language, abs))
			newID = fileNodeID(n.Language, rel) + suffix
			n.FilePath = rel
		}
		n.ID = newID
		remap[id] = newID
		newNodes[newID] = n
	}

	newEdges := map[edgeKey]model.GraphEdge{}
	for _, e := range edges {
		from, to := e.From, e.To
		if r, ok := remap[from]; ok {
			from = r
		}
		if r, ok := remap[to]; ok {
			to = r
		}
		e.From, e.To = from, to
		if e.Callsite != nil {
			cs := *e.Callsite
			cs.FilePath = pathutil.ToRepoRelative(repoRoot, cs.FilePath)
			e.Callsite = &cs
		}
		k := edgeKey{from, to, e.Type}
		newEdges[k] = e
	}
	return newNodes, newEdges
}
