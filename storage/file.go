package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/pixfeed/imgsource/interfaces"
	"github.com/pixfeed/imgsource/media"
)

// FileStore implements interfaces.ObjectStore over a local directory tree,
// for development and testing. Object keys are interpreted as slash-separated
// paths under the root; the bucket portion of a location is ignored. Keys are
// cleaned before use so a key cannot escape the root.
type FileStore struct {
	root string
	log  *slog.Logger
}

// NewFileStore creates a file-backed object store rooted at root. The root
// directory must already exist; this backend never writes.
func NewFileStore(root string, log *slog.Logger) (*FileStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	return &FileStore{root: root, log: log}, nil
}

// Fetch opens the file backing loc.Key. The content type is inferred from the
// key's extension since the file system stores no media type metadata.
func (s *FileStore) Fetch(ctx context.Context, loc interfaces.ObjectLocation) (*interfaces.ObjectHandle, error) {
	rel := path.Clean("/" + loc.Key)
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	f, err := os.Open(full)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, loc.Key)
		case os.IsPermission(err):
			return nil, fmt.Errorf("%w: %s", interfaces.ErrAccessDenied, loc.Key)
		default:
			return nil, fmt.Errorf("%w: %v", interfaces.ErrStorageIO, err)
		}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStorageIO, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, loc.Key)
	}

	s.log.Debug("Opened object from file store",
		slog.String("path", full),
		slog.Int64("size", info.Size()))

	return &interfaces.ObjectHandle{
		Body:          f,
		ContentType:   media.Infer(loc.Key).MediaType(),
		ContentLength: info.Size(),
	}, nil
}

// Name returns an identifier for logging.
func (s *FileStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.root))
}
