// Package config loads repo-slice's JSON configuration, grounded on
// onedusk-pd's internal/config/config.go "try named files, soft-fail to
// zero-value" loader shape, reworked from YAML to JSON.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
)

// DefaultRedactPatterns are the default secret-marker patterns applied
// when redact.enabled is true.
var DefaultRedactPatterns = []string{
	"AKIA[0-9A-Z]{16}",
	"-----BEGIN [A-Z ]*PRIVATE KEY-----",
	"(?i)api[_-]?key['\"]?\\s*[:=]\\s*['\"][A-Za-z0-9_\\-]{16,}['\"]",
	"(?i)secret['\"]?\\s*[:=]\\s*['\"][A-Za-z0-9_\\-]{16,}['\"]",
}

// Workspaces holds the workspace-detection override keys.
type Workspaces struct {
	Mode               string   `json:"mode,omitempty"`
	PythonImportRoots  []string `json:"pythonImportRoots,omitempty"`
}

// Redact holds the secret-redaction override keys.
type Redact struct {
	Enabled  bool     `json:"enabled,omitempty"`
	Patterns []string `json:"patterns,omitempty"`
}

// Config is the fully-resolved configuration for one workspace (repo
// config merged with an optional workspace-local override).
type Config struct {
	BudgetChars  int        `json:"budgetChars,omitempty"`
	Depth        int        `json:"depth,omitempty"`
	IncludeTests string     `json:"includeTests,omitempty"`
	Ignore       []string   `json:"ignore,omitempty"`
	Workspaces   Workspaces `json:"workspaces,omitempty"`
	Redact       Redact     `json:"redact,omitempty"`

	// present tracks which top-level keys this particular file set
	// explicitly, for override semantics; nil/zero-valued fields from an
	// unset key must not clobber the repo-level default.
	present map[string]bool `json:"-"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		BudgetChars:  28000,
		Depth:        2,
		IncludeTests: "auto",
		Ignore:       nil,
		Workspaces:   Workspaces{Mode: "auto", PythonImportRoots: []string{"src", "."}},
		Redact:       Redact{Enabled: false, Patterns: DefaultRedactPatterns},
	}
}

const fileName = "repo-slice.json"

// ErrConfigParse marks a present-but-malformed config file: exit 1,
// never silently ignored.
type ErrConfigParse struct {
	Path string
	Err  error
}

func (e *ErrConfigParse) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *ErrConfigParse) Unwrap() error { return e.Err }

// Load reads repo-slice.json from dir. A missing file is not an error:
// defaults apply. A present-but-malformed file is a ConfigError.
func Load(dir string) (Config, bool, error) {
	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, false, &ErrConfigParse{Path: path, Err: err}
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, false, &ErrConfigParse{Path: path, Err: err}
	}
	cfg.present = make(map[string]bool, len(raw))
	for k := range raw {
		cfg.present[k] = true
	}
	return cfg, true, nil
}

// Merge overrides base with every key workspace explicitly set. Array
// values are replaced wholesale, never concatenated.
func Merge(base Config, workspace Config) Config {
	out := base
	if workspace.present["budgetChars"] {
		out.BudgetChars = workspace.BudgetChars
	}
	if workspace.present["depth"] {
		out.Depth = workspace.Depth
	}
	if workspace.present["includeTests"] {
		out.IncludeTests = workspace.IncludeTests
	}
	if workspace.present["ignore"] {
		out.Ignore = workspace.Ignore
	}
	if workspace.present["workspaces"] {
		if workspace.Workspaces.Mode != "" {
			out.Workspaces.Mode = workspace.Workspaces.Mode
		}
		if workspace.Workspaces.PythonImportRoots != nil {
			out.Workspaces.PythonImportRoots = workspace.Workspaces.PythonImportRoots
		}
	}
	if workspace.present["redact"] {
		out.Redact = workspace.Redact
	}
	return out
}

// Hash computes the stable config hash used as part of the cache key:
// hash({ignorePatterns, pythonImportRoots}).
func Hash(cfg Config) string {
	ignore := append([]string(nil), cfg.Ignore...)
	sort.Strings(ignore)
	roots := append([]string(nil), cfg.Workspaces.PythonImportRoots...)
	sort.Strings(roots)

	payload := struct {
		Ignore []string `json:"ignore"`
		Roots  []string `json:"roots"`
	}{Ignore: ignore, Roots: roots}
	body, _ := json.Marshal(payload)
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
