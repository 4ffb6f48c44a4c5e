// Package pathutil canonicalizes filesystem paths and matches ignore
// patterns, grounded on onedusk-pd's graph.Resolver path bookkeeping
// (absolute, forward-slash, in-memory set lookups with no filesystem I/O
// beyond the initial scan).
package pathutil

import (
	"path"
	"path/filepath"
	"strings"
)

// Canonicalize converts p to an absolute, forward-slash path with no
// trailing slash and no "." or ".." segments. It does not touch the
// filesystem or resolve symlinks.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	return filepath.ToSlash(abs), nil
}

// ToRepoRelative converts an absolute, canonicalized path to a POSIX path
// relative to root, for use in external output.
func ToRepoRelative(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// Matcher tests paths against a set of gitignore-style patterns.
type Matcher struct {
	patterns []pattern
}

type pattern struct {
	raw       string
	anchored  bool // pattern contains a "/" other than a trailing one
	dirOnly   bool // pattern ends with "/"
	glob      string
}

// NewMatcher compiles a set of ignore patterns. Patterns follow a reduced
// gitignore grammar: "*" and "?" globs within a path segment, a leading
// "/" or internal "/" anchors the pattern to the ignore-root, a trailing
// "/" restricts the match to directories.
func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, raw := range patterns {
		p := strings.TrimSpace(raw)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		dirOnly := strings.HasSuffix(p, "/")
		p = strings.TrimSuffix(p, "/")
		anchored := strings.HasPrefix(p, "/") || strings.Contains(p, "/")
		p = strings.TrimPrefix(p, "/")
		m.patterns = append(m.patterns, pattern{raw: raw, anchored: anchored, dirOnly: dirOnly, glob: p})
	}
	return m
}

// Match reports whether relPath (POSIX, relative to the ignore root)
// should be ignored. isDir indicates whether relPath names a directory.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	relPath = strings.TrimPrefix(relPath, "/")
	segments := strings.Split(relPath, "/")
	for _, pat := range m.patterns {
		if pat.dirOnly && !isDir {
			continue
		}
		if pat.anchored {
			if ok, _ := path.Match(pat.glob, relPath); ok {
				return true
			}
			continue
		}
		for _, seg := range segments {
			if ok, _ := path.Match(pat.glob, seg); ok {
				return true
			}
		}
	}
	return false
}

// DefaultIgnores are ignore patterns applied before any configured ones.
var DefaultIgnores = []string{
	"node_modules/",
	".git/",
	"dist/",
	"build/",
	".repo-slice/",
	"__pycache__/",
	".venv/",
	"venv/",
	"*.pyc",
}
