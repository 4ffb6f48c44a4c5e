package graphbuild

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/better-vibe/repo-slice/internal/model"
)

// buildImportSubgraph BFS-walks the merged import graph from every anchor
// file up to depth, emitting file nodes and imports/imports-dynamic
// edges, plus tests edges to each anchor from those reached files that
// are its related test files.
func buildImportSubgraph(graph model.ImportGraph, fileLang map[string]model.Language, anchorFiles map[string]bool, depth int) (map[string]model.GraphNode, map[edgeKey]model.GraphEdge) {
	nodes := map[string]model.GraphNode{}
	edges := map[edgeKey]model.GraphEdge{}

	anchors := sortedKeys(anchorFiles)
	visited := map[string]bool{}
	for _, af := range anchors {
		visited[af] = true
	}

	for _, anchorFile := range anchors {
		queue := []string{anchorFile}
		dist := map[string]int{anchorFile: 0}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if dist[cur] >= depth {
				continue
			}
			for _, n := range graph.SortedTargets(cur) {
				if _, seen := dist[n]; seen {
					continue
				}
				dist[n] = dist[cur] + 1
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}

	for file := range visited {
		nodes[fileNodeID(fileLang[file], file)] = fileNode(fileLang[file], file, anchorFiles[file])
	}

	for _, from := range graph.SortedFroms() {
		if !visited[from] {
			continue
		}
		for _, to := range graph.SortedTargets(from) {
			if !visited[to] {
				continue
			}
			kind := graph[from][to]
			typ := model.EdgeImports
			confidence := 1.0
			if kind == model.EdgeDynamic {
				typ = model.EdgeImportsDynamic
				confidence = 0.9
			}
			k := edgeKey{fileNodeID(fileLang[from], from), fileNodeID(fileLang[to], to), typ}
			edges[k] = model.GraphEdge{From: k.from, To: k.to, Type: typ, Confidence: confidence}
		}
	}

	for _, anchorFile := range anchors {
		dir := filepath.ToSlash(filepath.Dir(anchorFile))
		base := baseWithoutExt(anchorFile)
		for file := range visited {
			if file == anchorFile {
				continue
			}
			if isRelatedTestFile(file, dir, base) {
				k := edgeKey{fileNodeID(fileLang[file], file), fileNodeID(fileLang[anchorFile], anchorFile), model.EdgeTests}
				edges[k] = model.GraphEdge{From: k.from, To: k.to, Type: model.EdgeTests, Confidence: 1.0}
			}
		}
	}

	return nodes, edges
}

func isRelatedTestFile(file, anchorDir, anchorBase string) bool {
	fDir := filepath.ToSlash(filepath.Dir(file))
	b := filepath.Base(file)
	if fDir == anchorDir {
		if strings.HasPrefix(b, anchorBase+".test.") || strings.HasPrefix(b, anchorBase+".spec.") {
			return true
		}
	}
	return strings.HasPrefix(b, "test_"+anchorBase+".")
}

func baseWithoutExt(p string) string {
	b := filepath.Base(p)
	ext := filepath.Ext(b)
	return strings.TrimSuffix(b, ext)
}

func fileNodeID(l model.Language, file string) string {
	return string(l) + ":" + file
}

func fileNode(l model.Language, file string, anchor bool) model.GraphNode {
	return model.GraphNode{
		ID:         fileNodeID(l, file),
		Kind:       model.NodeFile,
		Language:   l,
		Name:       baseName(file),
		FilePath:   file,
		Anchor:     anchor,
		External:   l == "",
		Confidence: 1.0,
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
