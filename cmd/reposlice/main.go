// Command reposlice packs a size-bounded context bundle, or a typed
// dependency graph, from an anchor into a repository — grounded on
// onedusk-pd's cmd/decompose/main.go single-entry-point shape, split
// across a spf13/cobra command tree for a richer multi-command CLI
// surface.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/better-vibe/repo-slice/internal/pipeline"
)

var errInvalidUsage = errors.New("reposlice: invalid usage")

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		switch {
		case errors.Is(err, pipeline.ErrAnchorResolution):
			return 2
		case errors.Is(err, errInvalidUsage):
			return 3
		default:
			return 1
		}
	}
	return 0
}
