package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	mdlive "github.com/alnah/go-mdlive"
	"github.com/alnah/go-mdlive/internal/config"
	"github.com/alnah/go-mdlive/internal/fileutil"
	"github.com/alnah/go-mdlive/internal/status"
	"github.com/alnah/go-mdlive/internal/toolbar"
)

// Sentinel errors for commands.
var (
	ErrRender       = errors.New("render failed")
	ErrNothingSaved = errors.New("no saved content")
)

// statsJSON is the --json shape of the stats command.
type statsJSON struct {
	Words int `json:"words"`
	Lines int `json:"lines"`
	Chars int `json:"chars"`
}

// runRenderCmd renders FILE to HTML.
func runRenderCmd(ctx context.Context, args []string, env *Environment) (err error) {
	f, file, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := openSession(env, sessionParams{common: &f.common})
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	if err := s.load(ctx, file); err != nil {
		return err
	}
	if err := renderError(s); err != nil {
		return err
	}

	out := s.editor.HTML()
	if f.standalone {
		page, err := newPreviewPage(s.cfg)
		if err != nil {
			return err
		}
		if out, err = page.Convert(ctx, s.view.Text(), file); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
	}
	return writeOutput(env.Stdout, f.output, out)
}

// runStatsCmd prints the statistics of FILE.
func runStatsCmd(ctx context.Context, args []string, env *Environment) (err error) {
	f, file, err := parseStatsFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := openSession(env, sessionParams{common: &f.common})
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	if err := s.load(ctx, file); err != nil {
		return err
	}
	st := s.editor.Stats()

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statsJSON{Words: st.Words, Lines: st.Lines, Chars: st.Chars})
	}
	fmt.Fprintln(env.Stdout, formatStats(st))
	return nil
}

// runApplyCmd applies a toolbar action to FILE in place and prints the
// resulting selection.
func runApplyCmd(ctx context.Context, args []string, env *Environment) (err error) {
	f, file, err := parseApplyFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	action, err := toolbar.ParseAction(f.action)
	if err != nil {
		return err
	}
	info, err := os.Stat(file)
	if err != nil {
		return err
	}

	s, err := openSession(env, sessionParams{common: &f.common})
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	if err := s.load(ctx, file); err != nil {
		return err
	}
	if f.selection {
		s.view.SetSelection(mdlive.Selection{Start: f.start, End: f.end})
	}

	before := s.view.Text()
	applyErr := s.editor.Apply(action)
	after := s.view.Text()
	if after == before {
		return applyErr
	}

	// The buffer changed even when the follow-up render failed.
	if err := fileutil.WriteFileAtomic(file, []byte(after), info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if applyErr != nil {
		return fmt.Errorf("%w: %w", ErrRender, applyErr)
	}
	if !f.common.quiet {
		sel := s.view.Selection()
		fmt.Fprintf(env.Stdout, "%d %d\n", sel.Start, sel.End)
	}
	return nil
}

// runExportCmd exports FILE to PDF.
func runExportCmd(ctx context.Context, args []string, env *Environment) (err error) {
	f, file, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := openSession(env, sessionParams{
		common: &f.common,
		configure: func(cfg *config.Config) error {
			if f.output != "" {
				cfg.Export.OutputDir = f.output
			}
			return resolveTimeout(f.timeout, cfg)
		},
	})
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	if err := s.load(ctx, file); err != nil {
		return err
	}

	start := time.Now()
	res, err := s.editor.Export(ctx).Wait(ctx)
	if err != nil {
		return err
	}

	switch {
	case f.common.quiet:
	case f.common.verbose:
		fmt.Fprintf(env.Stdout, "%s -> %s (%d bytes, %v)\n", file, res.Path, res.Size, time.Since(start).Round(time.Millisecond))
	default:
		fmt.Fprintf(env.Stdout, "Created %s\n", res.Path)
	}
	return nil
}

// runCopyCmd copies FILE to the clipboard.
func runCopyCmd(ctx context.Context, args []string, env *Environment) (err error) {
	f, file, err := parseCopyFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := openSession(env, sessionParams{common: &f.common})
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	if err := s.load(ctx, file); err != nil {
		return err
	}
	if _, err := s.editor.Copy(ctx).Wait(ctx); err != nil {
		return err
	}
	if !f.common.quiet {
		msg, _ := s.editor.Status()
		fmt.Fprintln(env.Stdout, msg)
	}
	return nil
}

// runRestoreCmd prints or writes the saved content.
func runRestoreCmd(_ context.Context, args []string, env *Environment) (err error) {
	f, err := parseRestoreFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := openSession(env, sessionParams{common: &f.common, persistent: true})
	if err != nil {
		return err
	}
	defer closeSession(s, &err)

	found, err := s.editor.Restore()
	if err != nil {
		return err
	}
	if !found {
		return ErrNothingSaved
	}
	return writeOutput(env.Stdout, f.output, s.view.Text())
}

// closeSession closes s and reports a close failure when the command
// itself succeeded.
func closeSession(s *session, err *error) {
	if cerr := s.close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// renderError reports a failed render left on the status bar.
func renderError(s *session) error {
	if msg, kind := s.editor.Status(); kind == status.KindError {
		return fmt.Errorf("%w: %s", ErrRender, msg)
	}
	return nil
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating directory: %v", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// formatStats formats statistics the way the status bar shows them.
func formatStats(st mdlive.Stats) string {
	return fmt.Sprintf("%d 字 | %d 行 | %d 字符", st.Words, st.Lines, st.Chars)
}
