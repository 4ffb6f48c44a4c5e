package render

import (
	json "github.com/goccy/go-json"
)

// JSONBundle marshals a Bundle to indented JSON.
func JSONBundle(b Bundle) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// JSONGraph marshals a GraphDoc to indented JSON.
func JSONGraph(g GraphDoc) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
