package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lsandon/fertiviltro-app/internal/ports"
)

// JSONFiles keeps each collection in <dir>/<collection>.json, the layout the
// clinic has always used on disk. Writes go through a temp file and rename so
// a reader never sees a half-written collection.
type JSONFiles struct {
	dir string
}

// NewJSONFiles returns a store rooted at dir, creating it if needed.
func NewJSONFiles(dir string) (*JSONFiles, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONFiles{dir: dir}, nil
}

func (j *JSONFiles) Driver() string { return "json" }

func (j *JSONFiles) pathFor(collection string) (string, error) {
	if collection == "" || strings.ContainsAny(collection, `/\`) || strings.Contains(collection, "..") {
		return "", fmt.Errorf("invalid collection name %q", collection)
	}
	return filepath.Join(j.dir, collection+".json"), nil
}

func (j *JSONFiles) Load(_ context.Context, collection string) ([]byte, error) {
	path, err := j.pathFor(collection)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ports.ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (j *JSONFiles) Save(_ context.Context, collection string, data []byte) error {
	path, err := j.pathFor(collection)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(j.dir, ".tmp-"+collection+"-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Health verifies the data directory is still there.
func (j *JSONFiles) Health(_ context.Context) error {
	info, err := os.Stat(j.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", j.dir)
	}
	return nil
}

func (j *JSONFiles) Close() error { return nil }
