package pipeline

import (
	"context"
	"fmt"

	"github.com/better-vibe/repo-slice/internal/config"
	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/better-vibe/repo-slice/internal/workspace"
	"github.com/sirupsen/logrus"
)

// ScopeOptions selects which workspaces participate in a run.
type ScopeOptions struct {
	Workspace     string // "auto" | a workspace name/path | ""
	AllWorkspaces bool
}

// ResolveScope detects workspaces under repoRoot and narrows to the
// requested scope. "auto" (or no selection) includes every detected
// workspace, and anchor resolution then searches all of them.
func ResolveScope(repoRoot string, cfg config.Config, opts ScopeOptions) ([]model.Workspace, error) {
	all, err := workspace.Detect(repoRoot, nil)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		all = []model.Workspace{{ID: ".", Root: repoRoot, Kind: model.WorkspaceMixed}}
	}

	if opts.AllWorkspaces || opts.Workspace == "" || opts.Workspace == "auto" {
		return all, nil
	}

	for _, w := range all {
		if w.ID == opts.Workspace || w.Root == opts.Workspace || w.Name == opts.Workspace {
			return []model.Workspace{w}, nil
		}
	}
	return nil, fmt.Errorf("pipeline: workspace %q not found", opts.Workspace)
}

// BuildIndexes constructs a WorkspaceIndex for every workspace in scope,
// merging in each workspace's repo-slice.json override (if present) on
// a per-key basis over the repo-level config.
func BuildIndexes(ctx context.Context, repoRoot string, scope []model.Workspace, cfg config.Config, log *logrus.Logger) ([]*WorkspaceIndex, error) {
	var out []*WorkspaceIndex
	for _, ws := range scope {
		wsCfg := cfg
		if ws.Root != repoRoot {
			override, found, err := config.Load(ws.Root)
			if err != nil {
				return nil, err
			}
			if found {
				wsCfg = config.Merge(cfg, override)
			}
		}
		idx, err := BuildWorkspaceIndex(ctx, repoRoot, ws, wsCfg, log)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}
