package main

import (
	"context"
	"os"
	"strings"

	"github.com/better-vibe/repo-slice/internal/anchor"
	"github.com/better-vibe/repo-slice/internal/vcsdiff"
)

type anchorFlags struct {
	entries      []string
	symbols      []string
	fromDiff     string
	fromLog      string
}

func buildAnchorInput(ctx context.Context, repoRoot string, f anchorFlags) (anchor.Input, error) {
	in := anchor.Input{
		Entries:  f.entries,
		Symbols:  f.symbols,
		RepoRoot: repoRoot,
	}

	if f.fromDiff != "" {
		hunks, err := vcsdiff.Resolve(ctx, repoRoot, f.fromDiff)
		if err != nil {
			return anchor.Input{}, err
		}
		in.DiffHunks = hunks
	}

	if f.fromLog != "" {
		data, err := os.ReadFile(f.fromLog)
		if err != nil {
			return anchor.Input{}, err
		}
		lines := strings.Split(string(data), "\n")
		in.LogAnchors = anchor.ParseLogLines(lines)
	}

	return in, nil
}
