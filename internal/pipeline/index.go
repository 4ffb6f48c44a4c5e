package pipeline

import (
	"context"

	"github.com/better-vibe/repo-slice/internal/cache"
	"github.com/better-vibe/repo-slice/internal/config"
	"github.com/better-vibe/repo-slice/internal/lang"
	"github.com/better-vibe/repo-slice/internal/lang/pyadapter"
	"github.com/better-vibe/repo-slice/internal/lang/tsadapter"
	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/sirupsen/logrus"
)

// ToolVersion is embedded in cache keys and bundle metadata.
const ToolVersion = "repo-slice/0.1.0"

// WorkspaceIndex is one workspace's constructed adapters plus its cache
// bookkeeping.
type WorkspaceIndex struct {
	Workspace model.Workspace
	Adapters  []lang.Adapter
	CacheHit  bool
}

// BuildWorkspaceIndex walks a workspace, constructs its language
// adapters, and validates/refreshes its on-disk cache entry (component E
// feeding C/D).
func BuildWorkspaceIndex(ctx context.Context, repoRoot string, ws model.Workspace, cfg config.Config, log *logrus.Logger) (*WorkspaceIndex, error) {
	tsFiles, pyFiles, fingerprints, err := workspaceFiles(ws.Root, cfg)
	if err != nil {
		return nil, err
	}

	configHash := config.Hash(cfg)
	key := cache.Key(ws.Root, configHash, ToolVersion)
	cachePath := cache.PathFor(repoRoot, key)
	cached, _ := cache.Read(cachePath)
	hit := cache.Valid(cached, ToolVersion, ws.Root, configHash, fingerprints)
	if hit {
		log.WithField("workspace", ws.Root).Debug("cache entry valid")
	}

	idx := &WorkspaceIndex{Workspace: ws, CacheHit: hit}

	onDiag := func(path string, err error) {
		log.WithFields(logrus.Fields{"file": path, "error": err}).Debug("parser diagnostic")
	}

	var tsRecord *model.TSCacheRecord
	var pyRecord *model.PYCacheRecord

	if len(tsFiles) > 0 {
		sources, err := readSources(tsFiles)
		if err != nil {
			return nil, err
		}
		a, err := tsadapter.New(ctx, ws.Root, sources, onDiag)
		if err != nil {
			return nil, err
		}
		idx.Adapters = append(idx.Adapters, a)
		calls, _ := a.FindCallExpressions(ctx, lang.CallExpressionOptions{})
		tsRecord = &model.TSCacheRecord{ImportGraph: a.ImportGraph(), CallExpressions: calls, HasCalls: true}
	}

	if len(pyFiles) > 0 {
		sources, err := readSources(pyFiles)
		if err != nil {
			return nil, err
		}
		a, err := pyadapter.New(ctx, ws.Root, sources, cfg.Workspaces.PythonImportRoots, onDiag)
		if err != nil {
			return nil, err
		}
		idx.Adapters = append(idx.Adapters, a)
		calls, _ := a.FindCallExpressions(ctx, lang.CallExpressionOptions{})
		pyRecord = &model.PYCacheRecord{
			ModuleMap:       a.ModuleMap(),
			Definitions:     a.Definitions(),
			ImportGraph:     a.ImportGraph(),
			CallExpressions: calls,
			HasCalls:        true,
		}
	}

	rec := model.WorkspaceCacheRecord{
		SchemaVersion: 1,
		ToolVersion:   ToolVersion,
		WorkspaceRoot: ws.Root,
		ConfigHash:    configHash,
		Files:         fingerprints,
		TS:            tsRecord,
		PY:            pyRecord,
	}
	if err := cache.Write(cachePath, rec, false); err != nil {
		log.WithError(err).Warn("cache write failed")
	}

	return idx, nil
}

func knownFiles(adapters []lang.Adapter) map[string]bool {
	out := map[string]bool{}
	for _, a := range adapters {
		for _, f := range a.Files() {
			out[f] = true
		}
	}
	return out
}

func allAdapters(indexes []*WorkspaceIndex) []lang.Adapter {
	var out []lang.Adapter
	for _, idx := range indexes {
		out = append(out, idx.Adapters...)
	}
	return out
}
