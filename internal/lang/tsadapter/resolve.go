package tsadapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// tsExtensions mirrors the host-resolver fallback order: try each
// extension against the bare specifier, then the same list under an
// implied "/index".
var tsExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".d.ts"}

// resolver resolves module specifiers to absolute in-workspace file paths.
// Grounded on onedusk-pd's graph.Resolver.resolveTS: relative-path probing
// against a known-file set (no filesystem I/O per resolution, a directory
// scan builds the set once up front) plus package.json workspace/exports
// resolution for bare package specifiers.
type resolver struct {
	root       string
	fileSet    map[string]bool
	dirIndex   map[string][]string // dir -> file names in it
	workspaces map[string]*tsWorkspace
}

type tsWorkspace struct {
	dir            string
	main           string
	subpathExports map[string]string
}

func newResolver(root string, files []string) *resolver {
	r := &resolver{root: root, fileSet: make(map[string]bool), dirIndex: make(map[string][]string)}
	for _, f := range files {
		r.fileSet[f] = true
		dir := filepath.ToSlash(filepath.Dir(f))
		r.dirIndex[dir] = append(r.dirIndex[dir], filepath.Base(f))
	}
	r.workspaces = scanWorkspaces(root)
	return r
}

// resolve returns the absolute in-workspace path for specifier imported
// from fromFile, or "" if it cannot be resolved to a workspace-internal
// file.
func (r *resolver) resolve(fromFile, specifier string) string {
	if strings.HasPrefix(specifier, ".") {
		base := filepath.ToSlash(filepath.Join(filepath.Dir(fromFile), specifier))
		return r.probe(base)
	}
	return r.resolveWorkspacePackage(specifier)
}

func (r *resolver) probe(base string) string {
	if r.fileSet[base] {
		return base
	}
	for _, ext := range tsExtensions {
		if cand := base + ext; r.fileSet[cand] {
			return cand
		}
	}
	for _, ext := range tsExtensions {
		if cand := base + "/index" + ext; r.fileSet[cand] {
			return cand
		}
	}
	return ""
}

func (r *resolver) resolveWorkspacePackage(specifier string) string {
	name, sub := splitPackageSpecifier(specifier)
	ws, ok := r.workspaces[name]
	if !ok {
		return ""
	}
	if sub != "" {
		if target, ok := ws.subpathExports["./"+sub]; ok {
			return r.probe(filepath.ToSlash(filepath.Join(ws.dir, target)))
		}
		return r.probe(filepath.ToSlash(filepath.Join(ws.dir, sub)))
	}
	if ws.main != "" {
		if p := r.probe(filepath.ToSlash(filepath.Join(ws.dir, ws.main))); p != "" {
			return p
		}
	}
	if p := r.probe(filepath.ToSlash(filepath.Join(ws.dir, "src/index"))); p != "" {
		return p
	}
	return r.probe(filepath.ToSlash(filepath.Join(ws.dir, "index")))
}

// splitPackageSpecifier splits "pkg/sub/path" or "@scope/pkg/sub" into its
// package name and remaining subpath.
func splitPackageSpecifier(specifier string) (name, sub string) {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		name = parts[0] + "/" + parts[1]
		if len(parts) > 2 {
			sub = strings.Join(parts[2:], "/")
		}
		return
	}
	name = parts[0]
	if len(parts) > 1 {
		sub = strings.Join(parts[1:], "/")
	}
	return
}

type tsPackageJSON struct {
	Name       string          `json:"name"`
	Main       string          `json:"main"`
	Workspaces json.RawMessage `json:"workspaces"`
	Exports    json.RawMessage `json:"exports"`
}

func scanWorkspaces(root string) map[string]*tsWorkspace {
	out := make(map[string]*tsWorkspace)
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return out
	}
	var pkg tsPackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return out
	}
	patterns := workspacePatterns(pkg.Workspaces)
	for _, pat := range patterns {
		matches, _ := filepath.Glob(filepath.Join(root, pat))
		for _, m := range matches {
			loadWorkspacePackage(out, m)
		}
	}
	return out
}

func workspacePatterns(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var arr []string
		_ = json.Unmarshal(raw, &arr)
		return arr
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	_ = json.Unmarshal(raw, &obj)
	return obj.Packages
}

func loadWorkspacePackage(out map[string]*tsWorkspace, dir string) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return
	}
	var pkg tsPackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return
	}
	if pkg.Name == "" {
		return
	}
	ws := &tsWorkspace{dir: filepath.ToSlash(dir), main: pkg.Main, subpathExports: make(map[string]string)}
	if len(pkg.Exports) > 0 {
		parseExports(pkg.Exports, ws.subpathExports)
	}
	out[pkg.Name] = ws
}

func parseExports(raw json.RawMessage, into map[string]string) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		_ = json.Unmarshal(raw, &s)
		into["."] = s
		return
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return
	}
	for key, val := range obj {
		into[key] = resolveExportValue(val)
	}
}

func resolveExportValue(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		_ = json.Unmarshal(raw, &s)
		return s
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"import", "default", "require"} {
		if v, ok := obj[key]; ok {
			return resolveExportValue(v)
		}
	}
	return ""
}
