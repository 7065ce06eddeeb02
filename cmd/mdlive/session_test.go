package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdlive "github.com/alnah/go-mdlive"
	"github.com/alnah/go-mdlive/internal/config"
	"github.com/alnah/go-mdlive/internal/status"
	"github.com/alnah/go-mdlive/internal/storage"
)

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints per failure
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string // substring; "" means no hint
	}{
		{"timeout", fmt.Errorf("%w: %w", mdlive.ErrExport, context.DeadlineExceeded), "--timeout"},
		{"config not found", fmt.Errorf("%w: tried a.yaml, /home/u/.config/go-mdlive/a.yaml", config.ErrConfigNotFound), "or create /home/u/.config/go-mdlive/a.yaml"},
		{"storage", storage.ErrPersist, "--storage"},
		{"clipboard", fmt.Errorf("%w: %w", mdlive.ErrCopy, errors.New("x")), "hint:"},
		{"output", ErrWriteOutput, "writable"},
		{"export permission", fmt.Errorf("%w: %w", mdlive.ErrExport, os.ErrPermission), "writable"},
		{"plain", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveTimeout - --timeout parsing and bounds
// ---------------------------------------------------------------------------

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"", 30 * time.Second, false},
		{"45s", 45 * time.Second, false},
		{"2m", 2 * time.Minute, false},
		{"soon", 0, true},
		{"0s", 0, true},
		{"1h", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			err := resolveTimeout(tt.value, cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Errorf("error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveTimeout() error = %v", err)
			}
			if got := cfg.Export.Timeout.Std(); got != tt.want {
				t.Errorf("timeout = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStatusPrinter - Status lines in watch output
// ---------------------------------------------------------------------------

func TestStatusPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := statusPrinter{w: &buf}
	p.SetStatus("自动保存成功", status.KindSuccess)
	p.SetStatus("已就绪", status.KindNone)

	if got, want := buf.String(), "[success] 自动保存成功\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	buf.Reset()
	quiet := statusPrinter{w: &buf, quiet: true}
	quiet.SetStatus("PDF导出成功", status.KindSuccess)
	quiet.SetStatus("PDF导出失败", status.KindError)

	if got, want := buf.String(), "[error] PDF导出失败\n"; got != want {
		t.Errorf("quiet output = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestWriteOutput - Stdout or file
// ---------------------------------------------------------------------------

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeOutput(&buf, "", "<p>x</p>"); err != nil {
			t.Fatalf("writeOutput() error = %v", err)
		}
		if buf.String() != "<p>x</p>" {
			t.Errorf("stdout = %q", buf.String())
		}
	})

	t.Run("creates directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a", "b", "out.html")
		if err := writeOutput(nil, path, "doc"); err != nil {
			t.Fatalf("writeOutput() error = %v", err)
		}
		if got := readFile(t, path); got != "doc" {
			t.Errorf("file = %q", got)
		}
	})

	t.Run("parent is a file", func(t *testing.T) {
		t.Parallel()

		blocker := writeFile(t, t.TempDir(), "blocker", "x")
		err := writeOutput(nil, filepath.Join(blocker, "out.html"), "doc")
		if !errors.Is(err, ErrWriteOutput) {
			t.Errorf("error = %v, want ErrWriteOutput", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestOfferLatest - Only the newest preview is kept
// ---------------------------------------------------------------------------

func TestOfferLatest(t *testing.T) {
	t.Parallel()

	ch := make(chan string, 1)
	offerLatest(ch, "first")
	offerLatest(ch, "second")
	offerLatest(ch, "third")

	if got := <-ch; got != "third" {
		t.Errorf("got %q, want third", got)
	}
	select {
	case v := <-ch:
		t.Errorf("channel should be empty, got %q", v)
	default:
	}
}
