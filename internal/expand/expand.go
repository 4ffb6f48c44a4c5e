// Package expand implements BFS expansion and scoring of anchor files
// into a ranked candidate set, grounded on onedusk-pd's
// internal/graph/cluster.go BFS-over-edges traversal pattern (sorted
// neighbor enqueue, visited-set keyed by path) generalized from
// undirected clustering to a directed, depth-bounded import-graph walk.
package expand

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/better-vibe/repo-slice/internal/model"
)

// Index is the minimal view over adapter state expand needs: a combined
// import graph (merged across every language adapter in scope, already
// workspace-internal-only) and the set of files the adapters know about
// (used for barrel/test/config-booster detection).
type Index struct {
	Graph         model.ImportGraph
	KnownFiles    map[string]bool
	WorkspaceRoots []string
}

// Options parameterizes expansion.
type Options struct {
	Depth        int
	IncludeTests string // auto|true|false
}

// ConfigBoosterNames are the build/framework config files tested for at
// each workspace root.
var ConfigBoosterNames = []string{
	"tsconfig.json", "package.json", "webpack.config.js", "vite.config.ts",
	"jest.config.js", "jest.config.ts", "babel.config.js", "rollup.config.js",
	"pyproject.toml", "setup.py", "setup.cfg", "tox.ini",
}

var barrelNames = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}

// Expand runs BFS-based neighbor scoring, barrel detection, test
// inclusion, and config boosters over anchorFiles, merges into candidates
// already present in the anchor result, and returns the final ranked
// candidate list.
func Expand(idx Index, anchorFiles map[string]bool, baseCandidates []model.Candidate, opts Options) []model.Candidate {
	merged := make(map[string]model.Candidate)
	for _, c := range baseCandidates {
		merged[c.ID] = c
	}

	anchorList := sortedKeys(anchorFiles)
	for _, anchorFile := range anchorList {
		distances, edgeKind := bfsFrom(idx.Graph, anchorFile, opts.Depth)
		for file, dist := range distances {
			if file == anchorFile {
				continue
			}
			score, reason := distanceScore(dist, edgeKind[file])
			mergeCandidate(merged, model.Candidate{
				ID:       model.CandidateID(file, false, model.Range{}),
				Kind:     model.CandidateFile,
				FilePath: file,
				Score:    score,
				Reasons:  []string{reason},
			})
		}

		dir := filepath.ToSlash(filepath.Dir(anchorFile))
		for _, name := range barrelNames {
			candidate := filepath.ToSlash(filepath.Join(dir, name))
			if candidate == anchorFile {
				continue
			}
			if idx.KnownFiles[candidate] {
				mergeCandidate(merged, model.Candidate{
					ID:       model.CandidateID(candidate, false, model.Range{}),
					Kind:     model.CandidateFile,
					FilePath: candidate,
					Score:    120,
					Reasons:  []string{"barrel file"},
				})
			}
		}

		if includeTests(opts.IncludeTests, anchorFile) {
			for _, candidate := range findTestFiles(idx.KnownFiles, anchorFile) {
				mergeCandidate(merged, model.Candidate{
					ID:       model.CandidateID(candidate, false, model.Range{}),
					Kind:     model.CandidateFile,
					FilePath: candidate,
					Score:    100,
					Reasons:  []string{"related test"},
				})
			}
		}
	}

	for _, root := range idx.WorkspaceRoots {
		for _, name := range ConfigBoosterNames {
			candidate := filepath.ToSlash(filepath.Join(root, name))
			if idx.KnownFiles[candidate] || fileExists(candidate) {
				mergeCandidate(merged, model.Candidate{
					ID:       model.CandidateID(candidate, false, model.Range{}),
					Kind:     model.CandidateFile,
					FilePath: candidate,
					Score:    110,
					Reasons:  []string{"config booster"},
				})
			}
		}
	}

	out := make([]model.Candidate, 0, len(merged))
	for _, c := range merged {
		if c.EstimatedChars == 0 {
			c.EstimatedChars = estimateSize(c.FilePath)
		}
		c.Score -= sizePenalty(c.EstimatedChars)
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return rankLess(out[i], out[j]) })
	return out
}

func mergeCandidate(m map[string]model.Candidate, c model.Candidate) {
	existing, ok := m[c.ID]
	if !ok {
		m[c.ID] = c
		return
	}
	if c.Score > existing.Score {
		existing.Score = c.Score
	}
	for _, r := range c.Reasons {
		existing.AddReason(r)
	}
	existing.Anchor = existing.Anchor || c.Anchor
	m[c.ID] = existing
}

func distanceScore(dist int, dynamic bool) (int, string) {
	var score int
	switch {
	case dist == 1:
		score = 250
	case dist == 2:
		score = 150
	default:
		score = 50
	}
	reason := "import-distance " + strconv.Itoa(dist)
	if dynamic {
		reason = "dynamic-import-distance " + strconv.Itoa(dist)
	}
	return score, reason
}

func sizePenalty(estimatedChars int) int {
	p := (estimatedChars / 1000) * 10
	if p > 200 {
		p = 200
	}
	return p
}

// bfsFrom returns, for every file reachable from anchorFile within depth
// hops, its minimum distance and whether the edge that first discovered
// it was dynamic.
func bfsFrom(graph model.ImportGraph, anchorFile string, depth int) (map[string]int, map[string]bool) {
	distances := map[string]int{anchorFile: 0}
	dynamic := map[string]bool{}
	queue := []string{anchorFile}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := distances[cur]
		if d >= depth {
			continue
		}
		for _, n := range graph.SortedTargets(cur) {
			if _, seen := distances[n]; seen {
				continue
			}
			distances[n] = d + 1
			dynamic[n] = graph[cur][n] == model.EdgeDynamic
			queue = append(queue, n)
		}
	}
	return distances, dynamic
}

func includeTests(mode, anchorFile string) bool {
	switch mode {
	case "true":
		return true
	case "false":
		return false
	default:
		return strings.Contains(anchorFile, "/src/") || strings.Contains(anchorFile, "/lib/")
	}
}

func findTestFiles(known map[string]bool, anchorFile string) []string {
	dir := filepath.ToSlash(filepath.Dir(anchorFile))
	base := baseWithoutExt(anchorFile)
	var out []string
	for f := range known {
		b := filepath.Base(f)
		fDir := filepath.ToSlash(filepath.Dir(f))
		if fDir == dir {
			if ok, _ := path.Match(base+".test.*", b); ok {
				out = append(out, f)
				continue
			}
			if ok, _ := path.Match(base+".spec.*", b); ok {
				out = append(out, f)
				continue
			}
		}
		if ok, _ := path.Match("test_"+base+".*", b); ok {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func baseWithoutExt(p string) string {
	b := filepath.Base(p)
	ext := filepath.Ext(b)
	return strings.TrimSuffix(b, ext)
}

func estimateSize(path string) int {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return int(info.Size())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// rankLess implements the ranking order: score descending, kind
// ascending (snippets before files), filePath lexicographic, start-line
// ascending.
func rankLess(a, b model.Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	ak, bk := kindRank(a.Kind), kindRank(b.Kind)
	if ak != bk {
		return ak < bk
	}
	if a.FilePath != b.FilePath {
		return a.FilePath < b.FilePath
	}
	return a.Range.StartLine < b.Range.StartLine
}

func kindRank(k model.CandidateKind) int {
	if k == model.CandidateSnippet {
		return 0
	}
	return 1
}
