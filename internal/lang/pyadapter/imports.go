package pyadapter

import (
	"strings"

	"github.com/better-vibe/repo-slice/internal/model"
)

// buildImportGraph resolves each file's raw import candidates into
// workspace-internal static edges via longest-prefix match against the
// module map. Edge kind is always static for the Python adapter.
func buildImportGraph(files []string, byFile map[string]*fileIndex, moduleMap, fileModule map[string]string) model.ImportGraph {
	graph := make(model.ImportGraph)
	for _, f := range files {
		fi := byFile[f]
		if fi == nil {
			continue
		}
		for _, ic := range fi.importCand {
			for _, cand := range candidateDottedNames(f, ic, fileModule) {
				if cand == "" {
					continue
				}
				target, ok := longestPrefixMatch(moduleMap, cand)
				if !ok || target == f {
					continue
				}
				graph.AddEdge(f, target, model.EdgeStatic)
			}
		}
	}
	return graph
}

func candidateDottedNames(f string, ic rawImportCandidate, fileModule map[string]string) []string {
	var base string
	if ic.isRelative {
		own, ok := fileModule[f]
		if !ok {
			return nil
		}
		parts := strings.Split(own, ".")
		cut := len(parts) - ic.level
		if cut < 0 {
			cut = 0
		}
		truncated := strings.Join(parts[:cut], ".")
		if ic.modulePart == "" {
			base = truncated
		} else if truncated == "" {
			base = ic.modulePart
		} else {
			base = truncated + "." + ic.modulePart
		}
	} else {
		base = ic.modulePart
	}

	if len(ic.names) == 0 {
		return []string{base}
	}
	out := make([]string, 0, len(ic.names)+1)
	out = append(out, base)
	for _, n := range ic.names {
		if base == "" {
			out = append(out, n)
		} else {
			out = append(out, base+"."+n)
		}
	}
	return out
}
