package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/better-vibe/repo-slice/internal/model"
	"github.com/stretchr/testify/require"
)

func sampleRecord() model.WorkspaceCacheRecord {
	graph := model.ImportGraph{}
	graph.AddEdge("/repo/a.ts", "/repo/b.ts", model.EdgeStatic)
	return model.WorkspaceCacheRecord{
		SchemaVersion: 1,
		ToolVersion:   "test",
		WorkspaceRoot: "/repo",
		ConfigHash:    "abc",
		Files: []model.FileFingerprint{
			{Path: "/repo/a.ts", MtimeMs: 1, Size: 10},
			{Path: "/repo/b.ts", MtimeMs: 2, Size: 20},
		},
		TS: &model.TSCacheRecord{ImportGraph: graph},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.bin")
	rec := sampleRecord()
	require.NoError(t, Write(path, rec, false))

	got, err := Read(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, rec.ToolVersion, got.ToolVersion)
	require.Equal(t, len(rec.Files), len(got.Files))
	require.Equal(t, model.EdgeStatic, got.TS.ImportGraph["/repo/a.ts"]["/repo/b.ts"])
}

func TestReadCorruptFileYieldsNoCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a cache file"), 0o644))
	got, err := Read(path)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLegacyListFormDeserializesToStatic(t *testing.T) {
	odr := onDiskRecord{
		SchemaVersion: 1,
		ToolVersion:   "test",
		WorkspaceRoot: "/repo",
		ConfigHash:    "abc",
		TS:            &onDiskTS{ImportGraph: []byte(`{"/repo/a.ts":["/repo/b.ts"]}`)},
	}
	rec, err := fromOnDisk(odr)
	require.NoError(t, err)
	require.Equal(t, model.EdgeStatic, rec.TS.ImportGraph["/repo/a.ts"]["/repo/b.ts"])
}

func TestValidDetectsFingerprintMismatch(t *testing.T) {
	rec := sampleRecord()
	current := []model.FileFingerprint{
		{Path: "/repo/a.ts", MtimeMs: 1, Size: 10},
		{Path: "/repo/b.ts", MtimeMs: 999, Size: 20},
	}
	require.False(t, Valid(&rec, "test", "/repo", "abc", current))
}
