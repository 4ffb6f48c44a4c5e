package main

import (
	"os"
	"path/filepath"

	"github.com/better-vibe/repo-slice/internal/config"
)

func repoRootAndConfig() (string, config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", config.Config{}, err
	}
	root, err := filepath.Abs(cwd)
	if err != nil {
		return "", config.Config{}, err
	}
	root = filepath.ToSlash(root)

	base := config.Default()
	loaded, found, err := config.Load(root)
	if err != nil {
		return "", config.Config{}, err
	}
	cfg := base
	if found {
		cfg = config.Merge(base, loaded)
	}
	return root, cfg, nil
}
