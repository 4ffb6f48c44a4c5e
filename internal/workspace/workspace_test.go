package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectNodeWorkspacesArrayForm(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root","workspaces":["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages/a/package.json"), `{"name":"a"}`)
	writeFile(t, filepath.Join(root, "packages/b/package.json"), `{"name":"b"}`)

	wss, err := Detect(root, nil)
	require.NoError(t, err)
	require.Len(t, wss, 3)
	require.Equal(t, ".", wss[0].ID)
	require.Equal(t, model.WorkspaceNode, wss[0].Kind)
}

func TestDetectMixedOnRootCollision(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"root"}`)
	writeFile(t, filepath.Join(root, "pyproject.toml"), "[tool.x]\n")

	wss, err := Detect(root, nil)
	require.NoError(t, err)
	require.Len(t, wss, 1)
	require.Equal(t, model.WorkspaceMixed, wss[0].Kind)
}

func TestDetectPythonChildPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "services/api/requirements.txt"), "flask\n")

	wss, err := Detect(root, nil)
	require.NoError(t, err)
	require.Len(t, wss, 1)
	require.Equal(t, "services/api", wss[0].ID)
}

func TestDetectMalformedRootManifestAborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{not json`)

	_, err := Detect(root, nil)
	require.Error(t, err)
	var merr *MalformedManifestError
	require.ErrorAs(t, err, &merr)
}
