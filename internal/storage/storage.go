// Package storage persists editor content under string keys.
//
// Stores are synchronous and small: the editor keeps one document under
// ContentKey and writes it on every autosave.
package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// ContentKey is the key the editor saves its buffer under.
const ContentKey = "markdown-content"

// Sentinel errors for storage operations.
var (
	ErrLoad    = errors.New("storage load failed")
	ErrPersist = errors.New("storage write failed")
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
}

// DefaultPath returns the per-user storage file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "go-mdlive", "storage.yaml"), nil
}
