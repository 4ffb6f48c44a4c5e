package tsadapter

import (
	"context"
	"testing"

	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

func TestImportGraphStaticWinsOverDynamic(t *testing.T) {
	sources := map[string][]byte{
		"/repo/a.ts": []byte(`
import { b } from "./b";
async function load() {
  await import("./b");
}
`),
		"/repo/b.ts": []byte(`export function b() {}`),
	}
	a, err := New(context.Background(), "/repo", sources, nil)
	require.NoError(t, err)
	require.Equal(t, model.EdgeStatic, a.ImportGraph()["/repo/a.ts"]["/repo/b.ts"])
}

func TestFindDefinitionsClassMember(t *testing.T) {
	sources := map[string][]byte{
		"/repo/svc.ts": []byte(`
export class Service {
  run() {
    return 1;
  }
}
`),
	}
	a, err := New(context.Background(), "/repo", sources, nil)
	require.NoError(t, err)
	defs, err := a.FindDefinitions(context.Background(), "Service.run")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "run", defs[0].Name)
	require.Equal(t, "Service", defs[0].ClassName)
}

func TestFindCallExpressionsLocalIdentifier(t *testing.T) {
	sources := map[string][]byte{
		"/repo/main.ts": []byte(`
function helper() {}
function run() {
  helper();
}
`),
	}
	a, err := New(context.Background(), "/repo", sources, nil)
	require.NoError(t, err)
	calls, err := a.FindCallExpressions(context.Background(), lang.CallExpressionOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, calls)
	var found bool
	for _, c := range calls {
		if c.CalleeSymbol == "main.ts#helper" {
			found = true
			require.Equal(t, 1.0, c.Confidence)
		}
	}
	require.True(t, found)
}
