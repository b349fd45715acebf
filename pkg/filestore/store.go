// Package filestore persists binary file records outside the scene file.
//
// Scenes embed their images as data URLs. A [Store] keeps those records
// elsewhere, either as JSON files in a directory ([DirStore]) or in a
// MongoDB collection ([MongoStore]), so that large images can be shared
// between scenes and loaded on demand with [Hydrate].
package filestore

import (
	"context"
	"errors"
	"regexp"

	"github.com/matzehuels/drawkit/pkg/config"
	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/scene"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("filestore: file not found")

// Store holds binary file records by id.
type Store interface {
	Put(ctx context.Context, f scene.BinaryFile) error
	Get(ctx context.Context, id scene.FileID) (scene.BinaryFile, error)
	List(ctx context.Context) ([]scene.FileID, error)
	Delete(ctx context.Context, id scene.FileID) error
	Close() error
}

var fileIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateID rejects ids that are not safe as a file or document name.
func ValidateID(id scene.FileID) error {
	if !fileIDRegex.MatchString(string(id)) {
		return dkerrors.New(dkerrors.ErrCodeInvalidInput, "invalid file id %q", id)
	}
	return nil
}

// PutAll stores every file, stopping at the first error.
func PutAll(ctx context.Context, s Store, files []scene.BinaryFile) error {
	for _, f := range files {
		if err := s.Put(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// Hydrate returns files extended with the records referenced by elements
// that files does not already hold. Records missing from the store are
// skipped; the element keeps its reference.
func Hydrate(ctx context.Context, s Store, elements []scene.Element, files scene.Files) (scene.Files, error) {
	out := files.Clone()
	for _, e := range elements {
		if e.FileID == "" {
			continue
		}
		if _, ok := out[e.FileID]; ok {
			continue
		}
		f, err := s.Get(ctx, e.FileID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[f.ID] = f
	}
	return out, nil
}

// Open creates the store selected by cfg. The "scene" backend keeps
// files inside scene documents and returns a nil Store.
func Open(ctx context.Context, cfg config.Files) (Store, error) {
	switch cfg.Backend {
	case "", "scene":
		return nil, nil
	case "dir":
		s, err := NewDirStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mongo":
		s, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, dkerrors.New(dkerrors.ErrCodeInvalidConfig, "unknown files backend %q", cfg.Backend)
	}
}
