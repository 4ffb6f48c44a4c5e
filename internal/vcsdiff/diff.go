// Package vcsdiff invokes `git diff` (or reads a pre-computed diff file)
// and parses unified-diff hunks into anchor-ready ranges, grounded on
// AleutianAI-AleutianFOSS's go.mod dependency on sourcegraph/go-diff for
// hunk parsing.
package vcsdiff

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	diff "github.com/sourcegraph/go-diff/diff"
)

// Hunk is the new-side line range of one diff hunk. FilePath is relative
// to the repository (callers join it with the repo root).
type Hunk struct {
	FilePath string // as named in the "+++" marker, with the a/ or b/ prefix stripped
	Range    struct {
		StartLine int
		EndLine   int
	}
}

// Resolve produces the hunks for revRange. If git is unavailable or the
// directory is not a git repository, revRange is read as a literal path
// to a pre-computed diff file instead (useful for tests and CI without a
// git checkout).
func Resolve(ctx context.Context, repoRoot, revRange string) ([]Hunk, error) {
	out, err := runGitDiff(ctx, repoRoot, revRange)
	if err != nil {
		if data, ferr := os.ReadFile(revRange); ferr == nil {
			out = data
		} else {
			return nil, err
		}
	}
	return parseUnifiedDiff(out)
}

func runGitDiff(ctx context.Context, repoRoot, revRange string) ([]byte, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, "git", "diff", "-U3", "--no-color", revRange)
	cmd.Dir = repoRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// parseUnifiedDiff reads the "+++ b/path" and "@@ -…,… +start,len @@"
// markers of a multi-file unified diff (S1).
func parseUnifiedDiff(data []byte) ([]Hunk, error) {
	fileDiffs, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return nil, err
	}
	var out []Hunk
	for _, fd := range fileDiffs {
		path := stripDiffPrefix(fd.NewName)
		if path == "" {
			path = stripDiffPrefix(fd.OrigName)
		}
		for _, h := range fd.Hunks {
			start := int(h.NewStartLine)
			end := start + int(h.NewLines) - 1
			if end < start {
				end = start
			}
			hunk := Hunk{FilePath: path}
			hunk.Range.StartLine = start
			hunk.Range.EndLine = end
			out = append(out, hunk)
		}
	}
	return out, nil
}

func stripDiffPrefix(name string) string {
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	if name == "/dev/null" {
		return ""
	}
	return filepath.ToSlash(name)
}
