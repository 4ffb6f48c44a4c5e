package main

import (
	"regexp"

	"github.com/better-vibe/repo-slice/internal/config"
	"github.com/better-vibe/repo-slice/internal/render"
)

// applyRedaction scrubs secret-shaped substrings from every bundle item's
// content when cfg.Redact.Enabled, using cfg.Redact.Patterns.
func applyRedaction(b *render.Bundle, cfg config.Config) {
	if !cfg.Redact.Enabled {
		return
	}
	var res []*regexp.Regexp
	for _, p := range cfg.Redact.Patterns {
		if re, err := regexp.Compile(p); err == nil {
			res = append(res, re)
		}
	}
	for i := range b.Items {
		for _, re := range res {
			b.Items[i].Content = re.ReplaceAllString(b.Items[i].Content, "[REDACTED]")
		}
	}
}
