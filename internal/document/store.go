// Package document provides read-merge-write access to JSON object files.
//
// A document is always a single JSON object. Reads are forgiving: a missing,
// empty, unparsable, or non-object file reads as "no data" rather than an
// error, so callers can treat a corrupt file the same as a fresh session.
// Writes are strict and atomic (see [WriteFileAtomic]) and report failures.
//
// Every mutation goes through [Store.Merge] or [Store.Update], which read the
// whole document, change only the named fields, and write the result back.
// Fields owned by different writers therefore never clobber each other, even
// when writers interleave.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// Document is the in-memory form of a JSON object file.
type Document map[string]any

// Store reads and writes Documents. Mutations through a single Store are
// serialized in-process; writers in other processes are not coordinated.
type Store struct {
	mu     sync.Mutex
	logger *logging.Logger
}

// NewStore creates a Store. The logger may be nil.
func NewStore(logger *logging.Logger) *Store {
	return &Store{logger: logger.WithComponent("document")}
}

// Read loads the document at path. It returns (nil, false) when the file is
// absent, empty, not valid JSON, or holds a JSON value other than an object.
func (s *Store) Read(path string) (Document, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read document", "path", path, "error", err.Error())
		}
		return nil, false
	}
	return Parse(data)
}

// Parse decodes data as a JSON object. Numbers decode as float64.
func Parse(data []byte) (Document, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil || doc == nil {
		return nil, false
	}
	return doc, true
}

// Write replaces the document at path, creating parent directories as needed.
func (s *Store) Write(path string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(path, doc)
}

func (s *Store) write(path string, doc Document) error {
	if doc == nil {
		doc = Document{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.NewStorageError("marshal", path, err)
	}
	data = append(data, '\n')
	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return errors.NewStorageError("write", path, err)
	}
	return nil
}

// Merge shallow-merges patch over the document at path and writes the
// result. A missing or unreadable document starts as {}. A nil value in
// patch deletes that key.
func (s *Store) Merge(path string, patch Document) error {
	return s.Update(path, func(doc Document) error {
		for k, v := range patch {
			if v == nil {
				delete(doc, k)
				continue
			}
			doc[k] = v
		}
		return nil
	})
}

// Update applies fn to the current document at path and writes the result.
// fn receives a non-nil Document it may mutate in place. If fn returns an
// error nothing is written.
func (s *Store) Update(path string, fn func(Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.Read(path)
	if !ok {
		doc = Document{}
	}
	if err := fn(doc); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return s.write(path, doc)
}

// GetString returns the value of key if it is a string.
func (d Document) GetString(key string) (string, bool) {
	v, ok := d[key].(string)
	return v, ok
}

// GetBool returns the value of key if it is a boolean.
func (d Document) GetBool(key string) (bool, bool) {
	v, ok := d[key].(bool)
	return v, ok
}
