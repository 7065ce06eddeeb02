package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	mdlive "github.com/alnah/go-mdlive"
)

// watchCommands lists the commands read from stdin during watch.
var watchCommands = []string{"export", "copy", "save", "stats", "fullscreen", "help", "quit"}

// watchSession is a running watch command.
type watchSession struct {
	*session
	env     *Environment
	out     io.Writer
	errOut  io.Writer
	quiet   bool
	file    string // absolute markdown path
	output  string // preview HTML path
	page    *previewPage
	html    chan string
	pending sync.WaitGroup
}

// runWatchCmd keeps a preview of FILE up to date until "quit" or an
// interrupt. Closing stdin stops the commands, not the watch.
func runWatchCmd(ctx context.Context, args []string, env *Environment) (err error) {
	f, file, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	output := f.output
	if output == "" {
		output = strings.TrimSuffix(abs, filepath.Ext(abs)) + ".html"
	}
	if out, err := filepath.Abs(output); err == nil && out == abs {
		return fmt.Errorf("%w: preview output would overwrite %s", ErrUsage, file)
	}

	// The loop, editor callbacks and the logger share the outputs.
	shared := *env
	shared.Stdout = &syncWriter{w: env.Stdout}
	shared.Stderr = &syncWriter{w: env.Stderr}
	env = &shared

	w := &watchSession{
		env:    env,
		out:    env.Stdout,
		errOut: env.Stderr,
		quiet:  f.common.quiet,
		file:   abs,
		output: output,
		html:   make(chan string, 1),
	}

	s, err := openSession(env, sessionParams{
		common:     &f.common,
		persistent: true,
		views: func(v mdlive.Views) mdlive.Views {
			v.Status = statusPrinter{w: w.out, quiet: f.common.quiet}
			return v
		},
	})
	if err != nil {
		return err
	}
	w.session = s
	defer closeSession(s, &err)
	defer w.pending.Wait()

	if w.page, err = newPreviewPage(s.cfg); err != nil {
		return err
	}
	s.view.OnHTML(func(html string) { offerLatest(w.html, html) })

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	// Editors often save by replacing the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if err := s.load(ctx, abs); err != nil {
		return err
	}
	if !w.quiet {
		fmt.Fprintf(w.out, "Watching %s -> %s\n", file, output)
		fmt.Fprintf(w.out, "Commands: %s\n", strings.Join(watchCommands, ", "))
	}

	return w.loop(ctx, watcher)
}

// loop serves file events, renders and stdin commands.
func (w *watchSession) loop(ctx context.Context, watcher *fsnotify.Watcher) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(w.env.Stdin, done)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.fileEvent(ctx, ev)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher", "error", werr)

		case html := <-w.html:
			w.writePreview(ctx, html)

		case line, ok := <-lines:
			if !ok {
				lines = nil // stdin closed; keep watching
				continue
			}
			if quit := w.command(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

// fileEvent reloads the buffer when the watched file was written.
func (w *watchSession) fileEvent(ctx context.Context, ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.file {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		w.log.Debug("file event ignored", "op", ev.Op.String())
		return
	}

	// A partially written file is retried on its next event.
	text, err := mdlive.OSFileReader{}.ReadText(ctx, w.file)
	if err != nil {
		w.log.Warn("reload failed", "path", w.file, "error", err)
		return
	}
	if text == w.view.Text() {
		return
	}
	w.view.SetText(text)
	if _, err := w.editor.Dispatch(mdlive.InputEvent{}); err != nil {
		w.log.Warn("input", "error", err)
	}
}

// writePreview writes the preview document and its statistics.
func (w *watchSession) writePreview(ctx context.Context, html string) {
	doc, err := w.page.Wrap(ctx, html, w.file)
	if err == nil {
		err = writeOutput(nil, w.output, doc)
	}
	if err != nil {
		fmt.Fprintf(w.errOut, "error: %v%s\n", err, hintFor(err))
		return
	}
	if !w.quiet {
		fmt.Fprintln(w.out, formatStats(w.editor.Stats()))
	}
}

// command runs one stdin command and reports whether to quit.
func (w *watchSession) command(ctx context.Context, cmd string) bool {
	switch cmd {
	case "":
	case "export":
		report(w, w.editor.Export(ctx), func(res mdlive.ExportResult) string {
			return "Created " + res.Path
		})
	case "copy":
		report(w, w.editor.Copy(ctx), nil)
	case "save":
		w.editor.Save()
	case "stats":
		fmt.Fprintln(w.out, formatStats(w.editor.Stats()))
	case "fullscreen":
		state := "off"
		if w.editor.ToggleFullscreen() {
			state = "on"
		}
		fmt.Fprintf(w.out, "fullscreen: %s\n", state)
	case "help":
		fmt.Fprintf(w.out, "Commands: %s\n", strings.Join(watchCommands, ", "))
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(w.errOut, "unknown command %q (try: %s)\n", cmd, strings.Join(watchCommands, ", "))
	}
	return false
}

// report waits for task in the background and prints its failure, or
// describe's line on success. The status bar line is printed separately.
func report[T any](w *watchSession, task *mdlive.Task[T], describe func(T) string) {
	w.pending.Add(1)
	go func() {
		defer w.pending.Done()
		val, err := task.Wait(context.Background())
		switch {
		case errors.Is(err, mdlive.ErrBusy):
			fmt.Fprintln(w.errOut, "busy: operation already in progress")
		case errors.Is(err, mdlive.ErrEmptyBuffer):
			// The warning is on the status line.
		case err != nil:
			fmt.Fprintf(w.errOut, "error: %v%s\n", err, hintFor(err))
		case describe != nil && !w.quiet:
			fmt.Fprintln(w.out, describe(val))
		}
	}()
}

// readLines sends each line of r until r ends or done closes. The channel
// is closed at end of input.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	if r == nil {
		close(lines)
		return lines
	}
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

// offerLatest leaves v as the only value in ch without blocking.
func offerLatest(ch chan string, v string) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
