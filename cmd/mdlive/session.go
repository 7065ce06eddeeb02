package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	mdlive "github.com/alnah/go-mdlive"
	"github.com/alnah/go-mdlive/internal/assets"
	"github.com/alnah/go-mdlive/internal/clipboard"
	"github.com/alnah/go-mdlive/internal/config"
	"github.com/alnah/go-mdlive/internal/export"
	"github.com/alnah/go-mdlive/internal/hints"
	"github.com/alnah/go-mdlive/internal/status"
	"github.com/alnah/go-mdlive/internal/storage"
)

// ErrWriteOutput indicates a command could not write its output file.
var ErrWriteOutput = errors.New("failed to write output")

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// session is an editor opened for one command over an in-memory view.
type session struct {
	editor *mdlive.Editor
	view   *mdlive.MemoryView
	cfg    *config.Config
	log    *slog.Logger
}

// sessionParams selects what a command needs from its session.
type sessionParams struct {
	common *commonFlags
	// persistent stores content in the storage file; otherwise saves stay
	// in memory and one-shot commands leave the storage file untouched.
	persistent bool
	// configure applies command flags after config file and env vars.
	configure func(*config.Config) error
	// views replaces surfaces of the memory view.
	views func(mdlive.Views) mdlive.Views
}

// openSession loads configuration and creates the editor.
func openSession(env *Environment, p sessionParams) (*session, error) {
	cfg, err := loadConfig(p.common)
	if err != nil {
		return nil, err
	}
	if p.configure != nil {
		if err := p.configure(cfg); err != nil {
			return nil, err
		}
	}

	log := newLogger(env.Stderr, p.common)
	view := mdlive.NewMemoryView()
	views := view.Views()
	if p.views != nil {
		views = p.views(views)
	}

	opts := []mdlive.Option{
		mdlive.WithConfig(cfg),
		mdlive.WithLogger(log),
		mdlive.WithClipboard(clipboardFor(env)),
	}
	if env.Now != nil {
		opts = append(opts, mdlive.WithNow(env.Now))
	}
	if env.Exporter != nil {
		opts = append(opts, mdlive.WithExporter(env.Exporter))
	}
	if p.persistent {
		store, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		log.Debug("storage", "path", store.Path())
		opts = append(opts, mdlive.WithStorage(store))
	}

	ed, err := mdlive.NewEditor(views, opts...)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForAssetNotFound(cfg.Assets.BasePath))
		}
		return nil, err
	}
	return &session{editor: ed, view: view, cfg: cfg, log: log}, nil
}

// load imports path into the buffer.
func (s *session) load(ctx context.Context, path string) error {
	_, err := s.editor.Import(ctx, path).Wait(ctx)
	return err
}

// close releases the editor, saving pending edits first.
func (s *session) close() error {
	return s.editor.Close()
}

// loadConfig resolves configuration: --config, then MDLIVE_CONFIG, then
// defaults. Environment values and --storage are applied on top.
func loadConfig(common *commonFlags) (*config.Config, error) {
	envCfg := loadEnvConfig()

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, err
		}
	}

	applyEnvConfig(envCfg, cfg)
	if common.storage != "" {
		cfg.Storage.Path = common.storage
	}
	return cfg, nil
}

// newLogger returns a text logger on w. Failures are reported by the
// commands themselves, so only --verbose shows the editor's own records.
func newLogger(w io.Writer, common *commonFlags) *slog.Logger {
	level := slog.LevelError
	if common.verbose && !common.quiet {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openStore opens the storage file named by the config, or the per-user
// default.
func openStore(cfg *config.Config) (*storage.File, error) {
	path := cfg.Storage.Path
	if path == "" {
		var err error
		if path, err = storage.DefaultPath(); err != nil {
			return nil, fmt.Errorf("%w: locating storage: %v", storage.ErrLoad, err)
		}
	}
	return storage.NewFile(path), nil
}

// clipboardFor returns the injected clipboard, or the system clipboard
// falling back to an OSC 52 sequence on stderr.
func clipboardFor(env *Environment) clipboard.Writer {
	if env.Clipboard != nil {
		return env.Clipboard
	}
	return clipboard.NewCopier(clipboard.System{}, clipboard.NewOSC52(env.Stderr))
}

// resolveTimeout parses a --timeout value into the config.
func resolveTimeout(value string, cfg *config.Config) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: invalid timeout %q: %v", ErrUsage, value, err)
	}
	if d <= 0 || d > config.MaxExportTimeout {
		return fmt.Errorf("%w: timeout must be between 0 and %s, got %s", ErrUsage, config.MaxExportTimeout, d)
	}
	cfg.Export.Timeout = config.Duration(d)
	return nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, export.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, storage.ErrLoad), errors.Is(err, storage.ErrPersist):
		return hints.ForStorage("")
	case errors.Is(err, mdlive.ErrCopy):
		return hints.ForClipboard()
	case errors.Is(err, ErrWriteOutput),
		errors.Is(err, mdlive.ErrExport) && errors.Is(err, os.ErrPermission):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths extracts the searched locations from a config lookup error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// syncWriter serializes writes from the command loop and editor callbacks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// statusPrinter prints every status message except the idle reset.
type statusPrinter struct {
	w     io.Writer
	quiet bool
}

// SetStatus implements mdlive.StatusView.
func (p statusPrinter) SetStatus(message string, kind mdlive.StatusKind) {
	if kind == status.KindNone {
		return
	}
	if p.quiet && kind != status.KindError {
		return
	}
	fmt.Fprintf(p.w, "[%s] %s\n", kind, message)
}

// Compile-time interface check.
var _ mdlive.StatusView = statusPrinter{}
