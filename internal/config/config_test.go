package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsNoError(t *testing.T) {
	dir := t.TempDir()
	cfg, found, err := Load(dir)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, Config{}, cfg)
}

func TestLoadMalformedFileIsConfigError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("{not json"), 0o644))
	_, _, err := Load(dir)
	require.Error(t, err)
	var perr *ErrConfigParse
	require.ErrorAs(t, err, &perr)
}

func TestMergeReplacesArraysWholesale(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte(`{"ignore":["b/"]}`), 0o644))
	wsCfg, found, err := Load(dir)
	require.NoError(t, err)
	require.True(t, found)

	base := Default()
	base.Ignore = []string{"a/"}
	merged := Merge(base, wsCfg)
	require.Equal(t, []string{"b/"}, merged.Ignore)
	require.Equal(t, base.BudgetChars, merged.BudgetChars)
}

func TestHashStableAcrossOrdering(t *testing.T) {
	c1 := Default()
	c1.Ignore = []string{"b/", "a/"}
	c2 := Default()
	c2.Ignore = []string{"a/", "b/"}
	require.Equal(t, Hash(c1), Hash(c2))
}
