// Package pipeline orchestrates the full analysis path — workspace
// detection, adapter construction, anchor resolution, expansion, and
// either budget selection or graph building — grounded on onedusk-pd's
// cmd/decompose/main.go top-level wiring (detect → parse → resolve →
// export), generalized to a bundle/graph dual-output CLI surface.
package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/better-vibe/repo-slice/internal/config"
	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/better-vibe/repo-slice/internal/pathutil"
)

var tsExtensions = map[string]bool{".ts": true, ".tsx": true, ".js": true, ".jsx": true}
var pyExtensions = map[string]bool{".py": true}

// workspaceFiles walks a workspace root, applying ignore patterns, and
// splits discovered files by language extension.
func workspaceFiles(root string, cfg config.Config) (tsFiles, pyFiles []string, fingerprints []model.FileFingerprint, err error) {
	patterns := append([]string{}, pathutil.DefaultIgnores...)
	patterns = append(patterns, cfg.Ignore...)
	matcher := pathutil.NewMatcher(patterns)

	err = filepath.Walk(root, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if matcher.Match(rel, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		abs := filepath.ToSlash(p)
		ext := filepath.Ext(abs)
		switch {
		case tsExtensions[ext]:
			tsFiles = append(tsFiles, abs)
		case pyExtensions[ext]:
			pyFiles = append(pyFiles, abs)
		default:
			return nil
		}
		fingerprints = append(fingerprints, model.FileFingerprint{
			Path:    abs,
			MtimeMs: info.ModTime().UnixMilli(),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	sort.Strings(tsFiles)
	sort.Strings(pyFiles)
	sort.Slice(fingerprints, func(i, j int) bool { return fingerprints[i].Path < fingerprints[j].Path })
	return tsFiles, pyFiles, fingerprints, nil
}

func readSources(files []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}

func nowTimestamp(noTimestamp bool) string {
	if noTimestamp {
		return ""
	}
	return time.Now().UTC().Format(time.RFC3339)
}
