package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Ext is the extension of the files a Dir backend manages.
const Ext = ".json"

// Dir is a Backend where each key is a file named <key>.json under a root
// folder. Values are written and read verbatim.
//
// Path separators in keys are escaped in the file name ("2024/01" is stored
// in "2024%2F01.json"), so that every key stays a file of the root folder.
//
// Only files with the .json extension are considered, any other file in the
// folder is ignored.
type Dir struct {
	root string
}

// NewDir returns a backend storing its keys under root. The folder is created
// on first write.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

var (
	escaper   = strings.NewReplacer("%", "%25", "/", "%2F", `\`, "%5C")
	unescaper = strings.NewReplacer("%25", "%", "%2F", "/", "%5C", `\`)
)

// filename returns the file holding key.
func (d *Dir) filename(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key for a directory store")
	}
	return filepath.Join(d.root, escaper.Replace(key)+Ext), nil
}

func (d *Dir) Set(_ context.Context, key, value string) error {
	name, err := d.filename(key)
	if err != nil {
		return wrap("set", key, err)
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return wrap("set", key, err)
	}
	if err := os.WriteFile(name, []byte(value), 0o644); err != nil {
		return wrap("set", key, err)
	}
	log.Printf("write-file name=%q", name)
	return nil
}

func (d *Dir) Get(_ context.Context, key string) (string, error) {
	name, err := d.filename(key)
	if err != nil {
		return "", wrap("get", key, err)
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", wrap("get", key, err)
	}
	return string(data), nil
}

func (d *Dir) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, wrap("keys", "", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		if key := strings.TrimSuffix(e.Name(), Ext); key != "" {
			keys = append(keys, unescaper.Replace(key))
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (d *Dir) Remove(_ context.Context, key string) error {
	name, err := d.filename(key)
	if err != nil {
		return wrap("remove", key, err)
	}
	err = os.Remove(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return wrap("remove", key, err)
	}
	log.Printf("delete-file name=%q", name)
	return nil
}
