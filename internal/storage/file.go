package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/alnah/go-mdlive/internal/fileutil"
	"github.com/alnah/go-mdlive/internal/yamlutil"
)

// filePerm keeps stored documents private to the user.
const filePerm = 0o600

// File is a Store backed by a single YAML mapping on disk. The file is read
// on first access and rewritten atomically on every Set, so a crash never
// leaves a truncated document behind.
//
// Thread-safety: all methods are safe for concurrent use.
type File struct {
	path string

	mu     sync.Mutex
	data   map[string]string
	loaded bool
}

// NewFile creates a File store at path. Nothing is read until first use.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get implements Store.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.loadLocked(); err != nil {
		return "", false, err
	}
	v, ok := f.data[key]
	return v, ok, nil
}

// Set implements Store.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.loadLocked(); err != nil {
		return err
	}

	next := make(map[string]string, len(f.data)+1)
	for k, v := range f.data {
		next[k] = v
	}
	next[key] = value

	data, err := yamlutil.Marshal(next)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := fileutil.WriteFileAtomic(f.path, data, filePerm); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	// Only a successful write changes what Get returns.
	f.data = next
	return nil
}

// loadLocked reads the file once (must hold lock). A missing or empty file
// is an empty store.
func (f *File) loadLocked() error {
	if f.loaded {
		return nil
	}

	raw, err := os.ReadFile(f.path) // #nosec G304 -- path comes from config
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.data = make(map[string]string)
	case err != nil:
		return fmt.Errorf("%w: %v", ErrLoad, err)
	case len(raw) == 0:
		f.data = make(map[string]string)
	default:
		data := make(map[string]string)
		if err := yamlutil.UnmarshalLimit(raw, &data, fileutil.MaxTextSize); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrLoad, f.path, err)
		}
		f.data = data
	}

	f.loaded = true
	return nil
}

// Compile-time interface check.
var _ Store = (*File)(nil)
