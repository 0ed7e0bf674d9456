package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// File is a flat Backend persisted as a single JSON object document
// {"key": "value", ...}.
//
// The document is read on every call and rewritten as a whole on every Set and
// Remove, so that two short lived processes sharing the file see each other's
// writes. A missing file is an empty store.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a backend persisted in the JSON document at path. The file
// is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// read returns the current content of the document.
func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("corrupted store document %q: %w", f.path, err)
	}
	return m, nil
}

// write replaces the document atomically (temp file then rename).
func (f *File) write(m map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return err
	}
	log.Printf("write-store-document name=%q keys=%d", f.path, len(m))
	return nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return wrap("set", key, err)
	}
	m[key] = value
	return wrap("set", key, f.write(m))
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return "", wrap("get", key, err)
	}
	v, ok := m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Keys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return nil, wrap("keys", "", err)
	}
	return slices.Sorted(maps.Keys(m)), nil
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return wrap("remove", key, err)
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return wrap("remove", key, f.write(m))
}
