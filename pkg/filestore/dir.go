package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/drawkit/pkg/scene"
)

// DirStore keeps one JSON file per record in a directory.
type DirStore struct {
	dir string
}

// NewDirStore creates the directory if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		return nil, errors.New("filestore: directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *DirStore) Dir() string { return s.dir }

func (s *DirStore) path(id scene.FileID) string {
	return filepath.Join(s.dir, string(id)+".json")
}

// Put writes f atomically, replacing any record with the same id.
func (s *DirStore) Put(ctx context.Context, f scene.BinaryFile) error {
	if err := ValidateID(f.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".file-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(f.ID))
}

// Get reads a record.
func (s *DirStore) Get(ctx context.Context, id scene.FileID) (scene.BinaryFile, error) {
	if err := ValidateID(id); err != nil {
		return scene.BinaryFile{}, err
	}
	raw, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return scene.BinaryFile{}, ErrNotFound
	}
	if err != nil {
		return scene.BinaryFile{}, err
	}
	var f scene.BinaryFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return scene.BinaryFile{}, err
	}
	return f, nil
}

// List returns the stored ids in lexical order.
func (s *DirStore) List(ctx context.Context) ([]scene.FileID, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var ids []scene.FileID
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, scene.FileID(name))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *DirStore) Delete(ctx context.Context, id scene.FileID) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op.
func (s *DirStore) Close() error { return nil }

var _ Store = (*DirStore)(nil)
