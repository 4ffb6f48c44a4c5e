package pyadapter

import (
	"context"
	"testing"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

func TestModuleMapAndRelativeImport(t *testing.T) {
	sources := map[string][]byte{
		"/repo/src/pkg/__init__.py": []byte(""),
		"/repo/src/pkg/mod.py": []byte(`
from . import helper
`),
		"/repo/src/pkg/helper.py": []byte(`def do(): pass`),
	}
	a, err := New(context.Background(), "/repo", sources, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "/repo/src/pkg/mod.py", a.moduleMap["pkg.mod"])
	edges := a.ImportGraph()["/repo/src/pkg/mod.py"]
	require.Equal(t, model.EdgeStatic, edges["/repo/src/pkg/helper.py"])
}

func TestFindDefinitionsMethod(t *testing.T) {
	sources := map[string][]byte{
		"/repo/src/svc.py": []byte(`
class Service:
    def run(self):
        return 1
`),
	}
	a, err := New(context.Background(), "/repo", sources, nil, nil)
	require.NoError(t, err)
	defs, err := a.FindDefinitions(context.Background(), "svc:Service.run")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "run", defs[0].Name)
}

func TestSelfCallResolution(t *testing.T) {
	sources := map[string][]byte{
		"/repo/src/svc.py": []byte(`
class Service:
    def run(self):
        return self.helper()

    def helper(self):
        return 1
`),
	}
	a, err := New(context.Background(), "/repo", sources, nil, nil)
	require.NoError(t, err)
	calls, err := a.FindCallExpressions(context.Background(), lang.CallExpressionOptions{})
	require.NoError(t, err)
	var found bool
	for _, c := range calls {
		if c.CalleeSymbol == "src/svc.py#Service.helper" {
			found = true
			require.Equal(t, 1.0, c.Confidence)
		}
	}
	require.True(t, found)
}
