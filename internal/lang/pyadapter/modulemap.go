package pyadapter

import (
	"path/filepath"
	"strings"
)

// DefaultImportRoots are the import-root prefixes tried when none are
// configured.
var DefaultImportRoots = []string{"src", "."}

// buildModuleMap computes each file's dotted module name against the
// configured import roots in order, first match wins per file; when two
// files compute the same dotted name, the first-seen (by sorted file
// order) owns the mapping.
func buildModuleMap(workspaceRoot string, files []string, importRoots []string) (moduleMap map[string]string, fileModule map[string]string) {
	if len(importRoots) == 0 {
		importRoots = DefaultImportRoots
	}
	moduleMap = make(map[string]string)
	fileModule = make(map[string]string)

	roots := make([]string, len(importRoots))
	for i, r := range importRoots {
		if r == "." || r == "" {
			roots[i] = filepath.ToSlash(workspaceRoot)
		} else {
			roots[i] = filepath.ToSlash(filepath.Join(workspaceRoot, r))
		}
	}

	for _, f := range files {
		if !strings.HasSuffix(f, ".py") {
			continue
		}
		var dotted string
		for _, root := range roots {
			rel, ok := relUnder(root, f)
			if !ok {
				continue
			}
			dotted = toDotted(rel)
			break
		}
		if dotted == "" {
			continue
		}
		fileModule[f] = dotted
		if _, exists := moduleMap[dotted]; !exists {
			moduleMap[dotted] = f
		}
	}
	return moduleMap, fileModule
}

func relUnder(root, f string) (string, bool) {
	root = strings.TrimSuffix(root, "/")
	if f == root {
		return "", true
	}
	prefix := root + "/"
	if !strings.HasPrefix(f, prefix) {
		return "", false
	}
	return strings.TrimPrefix(f, prefix), true
}

func toDotted(rel string) string {
	rel = strings.TrimSuffix(rel, ".py")
	parts := strings.Split(rel, "/")
	if len(parts) > 0 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}

// longestPrefixMatch returns the file for the longest dotted-name prefix
// of candidate that exists in moduleMap, and whether one was found.
func longestPrefixMatch(moduleMap map[string]string, candidate string) (string, bool) {
	parts := strings.Split(candidate, ".")
	for i := len(parts); i > 0; i-- {
		key := strings.Join(parts[:i], ".")
		if f, ok := moduleMap[key]; ok {
			return f, true
		}
	}
	return "", false
}
