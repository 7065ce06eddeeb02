package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for argument handling.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrNoInput = errors.New("no input file specified")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	storage string
	quiet   bool
	verbose bool
}

// watchFlags holds flags for the watch command.
type watchFlags struct {
	common commonFlags
	output string
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common     commonFlags
	output     string
	standalone bool
}

// statsFlags holds flags for the stats command.
type statsFlags struct {
	common commonFlags
	json   bool
}

// applyFlags holds flags for the apply command.
type applyFlags struct {
	common    commonFlags
	action    string
	start     int
	end       int
	selection bool // --start or --end was given
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common  commonFlags
	output  string
	timeout string
}

// copyFlags holds flags for the copy command.
type copyFlags struct {
	common commonFlags
}

// restoreFlags holds flags for the restore command.
type restoreFlags struct {
	common commonFlags
	output string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.storage, "storage", "", "storage file path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed logs")
}

// newFlagSet creates a FlagSet that reports errors and usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse parses args and wraps flag errors as usage errors.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// singleFile returns the one positional FILE argument.
func singleFile(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one file, got %d", ErrUsage, len(args))
	}
}

// parseWatchFlags parses watch command flags and returns the input file.
func parseWatchFlags(args []string, w io.Writer) (*watchFlags, string, error) {
	f := &watchFlags{}
	fs := newFlagSet("watch", w, printWatchUsage)
	fs.StringVarP(&f.output, "output", "o", "", "preview HTML file (default: FILE with .html)")
	addCommonFlags(fs, &f.common)

	rest, err := parse(fs, args)
	if err != nil {
		return nil, "", err
	}
	file, err := singleFile(rest)
	return f, file, err
}

// parseRenderFlags parses render command flags and returns the input file.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default: stdout)")
	fs.BoolVar(&f.standalone, "standalone", false, "write a complete HTML document")
	addCommonFlags(fs, &f.common)

	rest, err := parse(fs, args)
	if err != nil {
		return nil, "", err
	}
	file, err := singleFile(rest)
	return f, file, err
}

// parseStatsFlags parses stats command flags and returns the input file.
func parseStatsFlags(args []string, w io.Writer) (*statsFlags, string, error) {
	f := &statsFlags{}
	fs := newFlagSet("stats", w, printStatsUsage)
	fs.BoolVar(&f.json, "json", false, "print statistics as JSON")
	addCommonFlags(fs, &f.common)

	rest, err := parse(fs, args)
	if err != nil {
		return nil, "", err
	}
	file, err := singleFile(rest)
	return f, file, err
}

// parseApplyFlags parses apply command flags and returns the input file.
// Without --start and --end the caret sits at the end of the file.
func parseApplyFlags(args []string, w io.Writer) (*applyFlags, string, error) {
	f := &applyFlags{}
	fs := newFlagSet("apply", w, printApplyUsage)
	fs.StringVarP(&f.action, "action", "a", "", "toolbar action name")
	fs.IntVar(&f.start, "start", 0, "selection start (rune offset)")
	fs.IntVar(&f.end, "end", 0, "selection end (rune offset, default: --start)")
	addCommonFlags(fs, &f.common)

	rest, err := parse(fs, args)
	if err != nil {
		return nil, "", err
	}
	if f.action == "" {
		return nil, "", fmt.Errorf("%w: --action is required", ErrUsage)
	}
	f.selection = fs.Changed("start") || fs.Changed("end")
	if fs.Changed("start") && !fs.Changed("end") {
		f.end = f.start
	}
	file, err := singleFile(rest)
	return f, file, err
}

// parseExportFlags parses export command flags and returns the input file.
func parseExportFlags(args []string, w io.Writer) (*exportFlags, string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", w, printExportUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)

	rest, err := parse(fs, args)
	if err != nil {
		return nil, "", err
	}
	file, err := singleFile(rest)
	return f, file, err
}

// parseCopyFlags parses copy command flags and returns the input file.
func parseCopyFlags(args []string, w io.Writer) (*copyFlags, string, error) {
	f := &copyFlags{}
	fs := newFlagSet("copy", w, printCopyUsage)
	addCommonFlags(fs, &f.common)

	rest, err := parse(fs, args)
	if err != nil {
		return nil, "", err
	}
	file, err := singleFile(rest)
	return f, file, err
}

// parseRestoreFlags parses restore command flags. It takes no file.
func parseRestoreFlags(args []string, w io.Writer) (*restoreFlags, error) {
	f := &restoreFlags{}
	fs := newFlagSet("restore", w, printRestoreUsage)
	fs.StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	addCommonFlags(fs, &f.common)

	rest, err := parse(fs, args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: restore takes no arguments", ErrUsage)
	}
	return f, nil
}
