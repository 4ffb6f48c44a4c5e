// Package cache persists and validates per-workspace adapter indexes,
// grounded on onedusk-pd's internal/graph/store.go and memstore.go
// map-based state shape, reworked into a self-describing file format: 4
// magic bytes, a 4-byte big-endian format version, then a JSON body. The
// body is JSON in both modes; the debug magic marks the human-readable
// variant, which differs only by a newline after the header.
package cache

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/better-vibe/repo-slice/internal/model"
)

const (
	magicBinary = "RSCB" // repo-slice cache, binary
	magicDebug  = "RSCD" // repo-slice cache, debug (JSON) mode
	formatVersion = 1
	schemaVersion = 1
)

// Key computes the cache key hash(workspaceRoot | configHash | toolVersion).
func Key(workspaceRoot, configHash, toolVersion string) string {
	h := sha256.New()
	io.WriteString(h, workspaceRoot)
	h.Write([]byte{'|'})
	io.WriteString(h, configHash)
	h.Write([]byte{'|'})
	io.WriteString(h, toolVersion)
	return hex.EncodeToString(h.Sum(nil))
}

// PathFor returns the on-disk path for a cache key under repoRoot:
// <repoRoot>/.repo-slice/cache/<key>/cache.bin.
func PathFor(repoRoot, key string) string {
	return filepath.Join(repoRoot, ".repo-slice", "cache", key, "cache.bin")
}

// onDiskRecord is the JSON-codec-friendly shape written inside the binary
// envelope (and verbatim in debug mode).
type onDiskRecord struct {
	SchemaVersion int                      `json:"schemaVersion"`
	ToolVersion   string                   `json:"toolVersion"`
	WorkspaceRoot string                   `json:"workspaceRoot"`
	ConfigHash    string                   `json:"configHash"`
	Files         []model.FileFingerprint `json:"files"`
	TS            *onDiskTS                `json:"ts,omitempty"`
	PY            *onDiskPY                `json:"py,omitempty"`
}

type onDiskTS struct {
	ImportGraph     json.RawMessage         `json:"importGraph"` // list form (legacy) or map form (current)
	CallExpressions []model.CallExpression `json:"callExpressions,omitempty"`
}

type onDiskPY struct {
	ModuleMap       map[string]string        `json:"moduleMap"`
	Definitions     []model.PythonDefinition `json:"definitions"`
	ImportGraph     json.RawMessage          `json:"importGraph"`
	CallExpressions []model.CallExpression   `json:"callExpressions,omitempty"`
}

// importGraphMapForm is the current (authoritative) serialized shape of an
// import graph: from -> (to -> edge kind).
type importGraphMapForm map[string]map[string]model.EdgeKind

// Write serializes rec to path, using a temp-file-then-rename sequence to
// avoid partial writes. debug selects the human-readable JSON mode.
func Write(path string, rec model.WorkspaceCacheRecord, debug bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	odr := toOnDisk(rec)
	body, err := json.Marshal(odr)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "cache-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	magic := magicBinary
	if debug {
		magic = magicDebug
	}
	if _, err := w.WriteString(magic); err != nil {
		tmp.Close()
		return err
	}
	var verBuf [4]byte
	binary.BigEndian.PutUint32(verBuf[:], formatVersion)
	if _, err := w.Write(verBuf[:]); err != nil {
		tmp.Close()
		return err
	}
	if debug {
		w.WriteByte('\n')
	}
	if _, err := w.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read deserializes a cache file. Any parse/deserialize failure yields
// (nil, nil): cache corruption is never fatal, it is simply "no cache".
func Read(path string) (*model.WorkspaceCacheRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, nil
	}
	if len(data) < 8 {
		return nil, nil
	}
	magic := string(data[:4])
	if magic != magicBinary && magic != magicDebug {
		return nil, nil
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != formatVersion {
		return nil, nil
	}
	body := data[8:]
	if magic == magicDebug && len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	}
	var odr onDiskRecord
	if err := json.Unmarshal(body, &odr); err != nil {
		return nil, nil
	}
	rec, err := fromOnDisk(odr)
	if err != nil {
		return nil, nil
	}
	return rec, nil
}

// Valid reports whether rec is usable given the current expectations and
// file fingerprints. Validation is O(n) via a hashed lookup of the
// cached fingerprint list.
func Valid(rec *model.WorkspaceCacheRecord, toolVersion, workspaceRoot, configHash string, current []model.FileFingerprint) bool {
	if rec == nil {
		return false
	}
	if rec.ToolVersion != toolVersion || rec.WorkspaceRoot != workspaceRoot || rec.ConfigHash != configHash {
		return false
	}
	if len(rec.Files) != len(current) {
		return false
	}
	cached := make(map[string]model.FileFingerprint, len(rec.Files))
	for _, f := range rec.Files {
		cached[f.Path] = f
	}
	for _, f := range current {
		c, ok := cached[f.Path]
		if !ok || c.MtimeMs != f.MtimeMs || c.Size != f.Size {
			return false
		}
	}
	return true
}

func toOnDisk(rec model.WorkspaceCacheRecord) onDiskRecord {
	odr := onDiskRecord{
		SchemaVersion: schemaVersion,
		ToolVersion:   rec.ToolVersion,
		WorkspaceRoot: rec.WorkspaceRoot,
		ConfigHash:    rec.ConfigHash,
		Files:         sortedFingerprints(rec.Files),
	}
	if rec.TS != nil {
		graphBody, _ := json.Marshal(importGraphMapForm(rec.TS.ImportGraph))
		odr.TS = &onDiskTS{ImportGraph: graphBody}
		if rec.TS.HasCalls {
			odr.TS.CallExpressions = rec.TS.CallExpressions
		}
	}
	if rec.PY != nil {
		graphBody, _ := json.Marshal(importGraphMapForm(rec.PY.ImportGraph))
		odr.PY = &onDiskPY{ModuleMap: rec.PY.ModuleMap, Definitions: rec.PY.Definitions, ImportGraph: graphBody}
		if rec.PY.HasCalls {
			odr.PY.CallExpressions = rec.PY.CallExpressions
		}
	}
	return odr
}

func fromOnDisk(odr onDiskRecord) (*model.WorkspaceCacheRecord, error) {
	rec := &model.WorkspaceCacheRecord{
		SchemaVersion: odr.SchemaVersion,
		ToolVersion:   odr.ToolVersion,
		WorkspaceRoot: odr.WorkspaceRoot,
		ConfigHash:    odr.ConfigHash,
		Files:         odr.Files,
	}
	if odr.TS != nil {
		g, err := decodeImportGraph(odr.TS.ImportGraph)
		if err != nil {
			return nil, err
		}
		rec.TS = &model.TSCacheRecord{ImportGraph: g, CallExpressions: odr.TS.CallExpressions, HasCalls: odr.TS.CallExpressions != nil}
	}
	if odr.PY != nil {
		g, err := decodeImportGraph(odr.PY.ImportGraph)
		if err != nil {
			return nil, err
		}
		rec.PY = &model.PYCacheRecord{ModuleMap: odr.PY.ModuleMap, Definitions: odr.PY.Definitions, ImportGraph: g, CallExpressions: odr.PY.CallExpressions, HasCalls: odr.PY.CallExpressions != nil}
	}
	return rec, nil
}

// decodeImportGraph accepts both the legacy list-of-targets form and the
// current map-of-edge-kinds form, so a cache written by an older build
// still reads cleanly.
func decodeImportGraph(raw json.RawMessage) (model.ImportGraph, error) {
	if len(raw) == 0 {
		return model.ImportGraph{}, nil
	}
	var mapForm map[string]map[string]model.EdgeKind
	if err := json.Unmarshal(raw, &mapForm); err == nil {
		out := make(model.ImportGraph, len(mapForm))
		for from, tos := range mapForm {
			m := make(map[string]model.EdgeKind, len(tos))
			for to, kind := range tos {
				m[to] = kind
			}
			out[from] = m
		}
		return out, nil
	}
	var listForm map[string][]string
	if err := json.Unmarshal(raw, &listForm); err != nil {
		return nil, fmt.Errorf("cache: unrecognized import graph encoding: %w", err)
	}
	out := make(model.ImportGraph, len(listForm))
	for from, tos := range listForm {
		m := make(map[string]model.EdgeKind, len(tos))
		for _, to := range tos {
			m[to] = model.EdgeStatic
		}
		out[from] = m
	}
	return out, nil
}

func sortedFingerprints(files []model.FileFingerprint) []model.FileFingerprint {
	out := make([]model.FileFingerprint, len(files))
	copy(out, files)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
