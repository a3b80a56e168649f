// Package registry maintains a shared project list file read by other
// tools, such as an editor's project manager.
//
// The file is a JSON array of records keyed by rootPath. Every change
// rewrites the whole file through a temp-file-then-rename replace, so a
// reader sees either the previous list or the new one. Failures are logged
// and reported as false; they never abort the caller.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/Iron-Ham/lanes/internal/document"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// Record is one project entry.
type Record struct {
	Name     string   `json:"name"`
	RootPath string   `json:"rootPath"`
	Enabled  bool     `json:"enabled"`
	Tags     []string `json:"tags,omitempty"`
	Group    string   `json:"group,omitempty"`
}

// Writer reads and rewrites one registry file.
type Writer struct {
	path   string
	mu     sync.Mutex
	logger *logging.Logger
}

// NewWriter creates a Writer for the registry at path.
func NewWriter(path string, logger *logging.Logger) *Writer {
	return &Writer{
		path:   path,
		logger: logger.WithComponent("registry").With("path", path),
	}
}

// Path returns the registry file path.
func (w *Writer) Path() string {
	return w.path
}

// List returns the records in the registry. An absent, unreadable or
// non-array file yields an empty list.
func (w *Writer) List() []Record {
	entries := w.load()
	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if rec, ok := toRecord(entry); ok {
			records = append(records, rec)
		}
	}
	return records
}

// Upsert replaces the record with the same rootPath, or appends rec when
// there is none. Fields the registry's other writers added to an existing
// entry are kept.
func (w *Writer) Upsert(rec Record) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec.RootPath = filepath.Clean(rec.RootPath)
	entries := w.load()

	found := false
	for _, entry := range entries {
		if samePath(entry, rec.RootPath) {
			apply(entry, rec)
			found = true
			break
		}
	}
	if !found {
		entry := map[string]any{}
		apply(entry, rec)
		entries = append(entries, entry)
	}
	return w.save(entries)
}

// Remove drops every record whose rootPath matches rootPath.
func (w *Writer) Remove(rootPath string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	rootPath = filepath.Clean(rootPath)
	entries := w.load()
	kept := entries[:0]
	for _, entry := range entries {
		if !samePath(entry, rootPath) {
			kept = append(kept, entry)
		}
	}
	return w.save(kept)
}

// load returns the registry's object entries. Non-object array elements
// are dropped.
func (w *Writer) load() []map[string]any {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn("failed to read registry", "error", err.Error())
		}
		return nil
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		w.logger.Warn("registry is not a JSON array, starting empty", "error", err.Error())
		return nil
	}
	entries := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if entry, ok := v.(map[string]any); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (w *Writer) save(entries []map[string]any) bool {
	if entries == nil {
		entries = []map[string]any{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		w.logger.Warn("failed to encode registry", "error", err.Error())
		return false
	}
	data = append(data, '\n')
	if err := document.WriteFileAtomic(w.path, data, 0644); err != nil {
		w.logger.Warn("failed to write registry", "error", err.Error())
		return false
	}
	return true
}

func samePath(entry map[string]any, rootPath string) bool {
	p, ok := entry["rootPath"].(string)
	return ok && p != "" && filepath.Clean(p) == rootPath
}

func apply(entry map[string]any, rec Record) {
	entry["name"] = rec.Name
	entry["rootPath"] = rec.RootPath
	entry["enabled"] = rec.Enabled
	if len(rec.Tags) > 0 {
		entry["tags"] = rec.Tags
	} else {
		delete(entry, "tags")
	}
	if rec.Group != "" {
		entry["group"] = rec.Group
	} else {
		delete(entry, "group")
	}
}

func toRecord(entry map[string]any) (Record, bool) {
	data, err := json.Marshal(entry)
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil || rec.RootPath == "" {
		return Record{}, false
	}
	return rec, true
}
