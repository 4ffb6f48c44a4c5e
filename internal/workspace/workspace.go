// Package workspace discovers Node-style and Python-style workspaces under
// a repository root, grounded on onedusk-pd's graph.Resolver workspace
// scanning (package.json workspaces parsing, glob expansion) generalized
// into a standalone detector.
package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/better-vibe/repo-slice/internal/pathutil"
)

// DefaultPythonPatterns are the root-relative glob patterns scanned for
// Python child workspaces when none are configured.
var DefaultPythonPatterns = []string{"apps/*", "packages/*", "services/*"}

type packageJSON struct {
	Name       string          `json:"name"`
	Workspaces json.RawMessage `json:"workspaces"`
}

type workspacesObj struct {
	Packages []string `json:"packages"`
}

// Detect discovers workspaces under repoRoot. pythonPatterns overrides
// DefaultPythonPatterns when non-empty.
func Detect(repoRoot string, pythonPatterns []string) ([]model.Workspace, error) {
	root, err := pathutil.Canonicalize(repoRoot)
	if err != nil {
		return nil, err
	}
	if len(pythonPatterns) == 0 {
		pythonPatterns = DefaultPythonPatterns
	}

	byRoot := make(map[string]*model.Workspace)

	addKind := func(r string, kind model.WorkspaceKind) {
		r = filepath.ToSlash(filepath.Clean(r))
		if w, ok := byRoot[r]; ok {
			if w.Kind != kind {
				w.Kind = model.WorkspaceMixed
			}
			return
		}
		byRoot[r] = &model.Workspace{Root: r, Kind: kind}
	}

	// Root Node workspace, if package.json exists.
	rootPkg := filepath.Join(root, "package.json")
	if data, err := os.ReadFile(rootPkg); err == nil {
		addKind(root, model.WorkspaceNode)
		patterns, err := parseWorkspacePatterns(data)
		if err != nil {
			return nil, &MalformedManifestError{Path: rootPkg, Err: err}
		}
		for _, pat := range patterns {
			matches, _ := filepath.Glob(filepath.Join(root, pat))
			for _, m := range matches {
				info, err := os.Stat(m)
				if err != nil || !info.IsDir() {
					continue
				}
				if _, err := os.Stat(filepath.Join(m, "package.json")); err == nil {
					addKind(m, model.WorkspaceNode)
				}
			}
		}
	}

	// Root Python workspace.
	if hasPythonManifest(root) {
		addKind(root, model.WorkspacePy)
	}

	for _, pat := range pythonPatterns {
		matches, _ := filepath.Glob(filepath.Join(root, pat))
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			if hasPythonManifest(m) {
				addKind(m, model.WorkspacePy)
			}
		}
	}

	if len(byRoot) == 0 {
		addKind(root, model.WorkspaceMixed)
	}

	out := make([]model.Workspace, 0, len(byRoot))
	for _, w := range byRoot {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Root < out[j].Root })
	for i := range out {
		rel := pathutil.ToRepoRelative(root, out[i].Root)
		if rel == "" {
			rel = "."
		}
		out[i].ID = rel
		out[i].Name = filepath.Base(out[i].Root)
	}
	return out, nil
}

func hasPythonManifest(dir string) bool {
	for _, name := range []string{"pyproject.toml", "requirements.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// MalformedManifestError reports a root manifest that could not be
// parsed; detection aborts with a user-facing error.
type MalformedManifestError struct {
	Path string
	Err  error
}

func (e *MalformedManifestError) Error() string {
	return "malformed workspace manifest " + e.Path + ": " + e.Err.Error()
}

func (e *MalformedManifestError) Unwrap() error { return e.Err }

func parseWorkspacePatterns(data []byte) ([]string, error) {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	if len(pkg.Workspaces) == 0 {
		return nil, nil
	}
	trimmed := strings.TrimSpace(string(pkg.Workspaces))
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		if err := json.Unmarshal(pkg.Workspaces, &arr); err != nil {
			return nil, err
		}
		return arr, nil
	}
	var obj workspacesObj
	if err := json.Unmarshal(pkg.Workspaces, &obj); err != nil {
		return nil, err
	}
	return obj.Packages, nil
}
