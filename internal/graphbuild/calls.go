package graphbuild

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
)

// buildCallSubgraph asks each adapter for call expressions restricted to
// anchor files and emits caller/callee nodes plus calls/calls-dynamic/
// calls-unknown edges.
//
// Constructor detection (a "new Foo()" callsite) is not surfaced by the
// lang.Adapter contract's CallExpression type, so every resolved callee
// node is classified as a method (symbol contains ".") or a function
// (it does not); see DESIGN.md.
func buildCallSubgraph(ctx context.Context, adapters []lang.Adapter, anchorFiles map[string]bool) (map[string]model.GraphNode, map[edgeKey]model.GraphEdge, error) {
	nodes := map[string]model.GraphNode{}
	edges := map[edgeKey]model.GraphEdge{}

	for _, a := range adapters {
		var scope []string
		for _, f := range a.Files() {
			if anchorFiles[f] {
				scope = append(scope, f)
			}
		}
		if len(scope) == 0 {
			continue
		}
		sort.Strings(scope)

		calls, err := a.FindCallExpressions(ctx, lang.CallExpressionOptions{Files: scope})
		if err != nil {
			return nil, nil, err
		}

		ws := a.Workspace()
		for _, ce := range calls {
			callerNode := symbolNode(a.Language(), ce.CallerFile, ce.CallerSymbol, anchorFiles[ce.CallerFile])
			mergeNode(nodes, callerNode)

			calleeNode := calleeNodeFor(a.Language(), ws, ce.CalleeSymbol, anchorFiles)
			mergeNode(nodes, calleeNode)

			typ := model.EdgeCalls
			switch {
			case ce.IsDynamic:
				typ = model.EdgeCallsDynamic
			case ce.Confidence < 0.5:
				typ = model.EdgeCallsUnknown
			}
			k := edgeKey{callerNode.ID, calleeNode.ID, typ}
			edges[k] = model.GraphEdge{
				From:       k.from,
				To:         k.to,
				Type:       typ,
				Confidence: ce.Confidence,
				Callsite:   &model.Callsite{FilePath: ce.CallerFile, Range: ce.Range},
			}
		}
	}

	return nodes, edges, nil
}

func symbolNode(l model.Language, file, symbol string, anchor bool) model.GraphNode {
	if symbol == "" {
		return fileNode(l, file, anchor)
	}
	return model.GraphNode{
		ID:         fileNodeID(l, file) + "#" + symbol,
		Kind:       symbolKind(symbol),
		Language:   l,
		Name:       lastSegment(symbol),
		FilePath:   file,
		Anchor:     anchor,
		Confidence: 1.0,
	}
}

func calleeNodeFor(l model.Language, workspace, calleeSymbol string, anchorFiles map[string]bool) model.GraphNode {
	if idx := strings.Index(calleeSymbol, "#"); idx >= 0 {
		relFile := calleeSymbol[:idx]
		sym := calleeSymbol[idx+1:]
		abs := filepath.ToSlash(filepath.Join(workspace, relFile))
		return symbolNode(l, abs, sym, anchorFiles[abs])
	}
	return model.GraphNode{
		ID:         "unresolved:" + calleeSymbol,
		Kind:       model.NodeFunction,
		Name:       calleeSymbol,
		External:   true,
		Confidence: 0,
	}
}

func lastSegment(symbol string) string {
	if idx := strings.LastIndex(symbol, "."); idx >= 0 {
		return symbol[idx+1:]
	}
	return symbol
}
