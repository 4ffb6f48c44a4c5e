package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/better-vibe/repo-slice/internal/anchor"
	"github.com/better-vibe/repo-slice/internal/config"
	"github.com/better-vibe/repo-slice/internal/graphbuild"
	"github.com/better-vibe/repo-slice/internal/logging"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupTSProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "util.ts"), "export function helper() {\n  return 1;\n}\n")
	writeFile(t, filepath.Join(root, "src", "app.ts"), "import { helper } from './util';\n\nexport function main() {\n  return helper();\n}\n")
	return root
}

func TestPackEndToEndEntryAnchor(t *testing.T) {
	root := setupTSProject(t)
	cfg := config.Default()
	log := logging.New(false)

	bundle, err := Pack(context.Background(), root, cfg, PackOptions{
		Anchor:      anchor.Input{Entries: []string{"src/app.ts"}},
		Depth:       2,
		BudgetChars: 28000,
	}, log)
	require.NoError(t, err)
	require.NotEmpty(t, bundle.Items)

	var sawEntry, sawNeighbor bool
	for _, it := range bundle.Items {
		if it.FilePath == "src/app.ts" {
			sawEntry = true
		}
		if it.FilePath == "src/util.ts" {
			sawNeighbor = true
		}
	}
	require.True(t, sawEntry)
	require.True(t, sawNeighbor)
}

func TestGraphEndToEndImports(t *testing.T) {
	root := setupTSProject(t)
	cfg := config.Default()
	log := logging.New(false)

	doc, err := Graph(context.Background(), root, cfg, GraphOptions{
		Anchor:    anchor.Input{Entries: []string{"src/app.ts"}},
		Depth:     2,
		GraphType: graphbuild.GraphImports,
		Collapse:  graphbuild.CollapseNone,
	}, log)
	require.NoError(t, err)
	require.NotEmpty(t, doc.Nodes)

	var sawImportEdge bool
	for _, e := range doc.Edges {
		if e.Type == "imports" {
			sawImportEdge = true
		}
	}
	require.True(t, sawImportEdge)
}

func TestPackUnresolvedSymbolReturnsAnchorResolutionError(t *testing.T) {
	root := setupTSProject(t)
	cfg := config.Default()
	log := logging.New(false)

	_, err := Pack(context.Background(), root, cfg, PackOptions{
		Anchor:      anchor.Input{Symbols: []string{"doesNotExist"}},
		Depth:       2,
		BudgetChars: 28000,
	}, log)
	require.ErrorIs(t, err, ErrAnchorResolution)
}
