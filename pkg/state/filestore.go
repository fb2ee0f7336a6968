package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/PythonNut/vimish-fold/pkg/foldpath"
)

// Entry describes one persisted fold set on disk.
type Entry struct {
	// DocPath is the document path decoded from the file name.
	DocPath string
	// File is the absolute path of the state file.
	File string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file's last modification time.
	ModTime time.Time
}

// FileStore reads and writes fold sets as one file per document under the
// codec's state directory. The directory is created lazily on first write;
// until then its absence is not an error.
type FileStore struct {
	codec  foldpath.Codec
	logger *zap.Logger
}

// NewFileStore creates a FileStore over the given codec. A nil logger is
// replaced with a no-op logger.
func NewFileStore(codec foldpath.Codec, logger *zap.Logger) (*FileStore, error) {
	if err := codec.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		codec:  codec,
		logger: logger.Named("state"),
	}, nil
}

// Codec returns the path codec the store encodes file names with.
func (fs *FileStore) Codec() foldpath.Codec {
	return fs.codec
}

// Dir returns the state directory.
func (fs *FileStore) Dir() string {
	return fs.codec.Dir
}

// Path returns the state file path a document's fold set is kept at,
// whether or not the file exists.
func (fs *FileStore) Path(docPath string) string {
	return fs.codec.Encode(docPath)
}

// Write persists a fold set, replacing any previous record for the
// document.
func (fs *FileStore) Write(docPath string, set Set) error {
	if err := os.MkdirAll(fs.codec.Dir, 0o700); err != nil {
		return fmt.Errorf("create state dir %s: %w", fs.codec.Dir, err)
	}

	file := fs.codec.Encode(docPath)
	if err := os.WriteFile(file, set.Marshal(), 0o600); err != nil {
		return fmt.Errorf("write fold set %s: %w", file, err)
	}

	fs.logger.Debug("fold set written",
		zap.String("document", docPath),
		zap.String("file", file),
		zap.Int("spans", len(set)),
	)
	return nil
}

// Read loads the persisted fold set for a document. ErrNotFound is
// returned when no record exists; ErrMalformed when the record does not
// parse.
func (fs *FileStore) Read(docPath string) (Set, error) {
	file := fs.codec.Encode(docPath)
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("fold set for %s: %w", docPath, ErrNotFound)
		}
		return nil, fmt.Errorf("read fold set %s: %w", file, err)
	}

	set, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse fold set %s: %w", file, err)
	}
	return set, nil
}

// Remove deletes the persisted fold set for a document. Removing a
// document that has no record is not an error.
func (fs *FileStore) Remove(docPath string) error {
	file := fs.codec.Encode(docPath)
	err := os.Remove(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove fold set %s: %w", file, err)
	}

	fs.logger.Debug("fold set removed",
		zap.String("document", docPath),
		zap.String("file", file),
	)
	return nil
}

// List enumerates every persisted fold set, sorted by document path.
// Files whose names do not decode to a document path are skipped. A
// missing state directory yields an empty list.
func (fs *FileStore) List() ([]Entry, error) {
	dirents, err := os.ReadDir(fs.codec.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list state dir %s: %w", fs.codec.Dir, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		if !de.Type().IsRegular() {
			continue
		}
		doc, err := fs.codec.Decode(de.Name())
		if err != nil {
			fs.logger.Debug("skipping undecodable state file",
				zap.String("file", de.Name()),
				zap.Error(err),
			)
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			DocPath: doc,
			File:    filepath.Join(fs.codec.Dir, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DocPath < entries[j].DocPath
	})
	return entries, nil
}
