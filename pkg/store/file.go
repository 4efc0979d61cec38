package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/srodi/cgstats/pkg/types"
)

// FileStore keeps the snapshot in a single YAML file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the snapshot. A missing file yields ErrNoSnapshot.
func (s *FileStore) Load(_ context.Context) (*types.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", s.Path, ErrNoSnapshot)
		}
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path, err)
	}
	return snap, nil
}

// Save replaces the file through a temporary file in the same directory.
func (s *FileStore) Save(_ context.Context, snap *types.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return &SaveError{Location: s.Path, Err: err}
	}
	if err := writeFileAtomic(s.Path, data); err != nil {
		return &SaveError{Location: s.Path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
