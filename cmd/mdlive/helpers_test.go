package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdlive/internal/export"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fakes and environment
// ---------------------------------------------------------------------------

// fixedNow is the clock of every test environment.
var fixedNow = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

type fakeExporter struct {
	mu     sync.Mutex
	docs   []string
	err    error
	closed int
}

func (f *fakeExporter) Export(_ context.Context, doc string, _ export.Options) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func (f *fakeExporter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

// testEnv is an Environment with captured output and fake collaborators.
type testEnv struct {
	*Environment
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	exporter  *fakeExporter
	clipboard *fakeClipboard
}

func newTestEnv() *testEnv {
	te := &testEnv{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		exporter:  &fakeExporter{},
		clipboard: &fakeClipboard{},
	}
	te.Environment = &Environment{
		Now:       func() time.Time { return fixedNow },
		Stdin:     strings.NewReader(""),
		Stdout:    te.stdout,
		Stderr:    te.stderr,
		Clipboard: te.clipboard,
		Exporter:  te.exporter,
	}
	return te
}

// writeFile writes content to name under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
