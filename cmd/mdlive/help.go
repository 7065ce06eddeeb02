package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-mdlive/internal/toolbar"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlive <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  watch      Live preview a markdown file as it changes")
	fmt.Fprintln(w, "  render     Render markdown to HTML")
	fmt.Fprintln(w, "  stats      Show word, line and character counts")
	fmt.Fprintln(w, "  apply      Apply a formatting action to a file")
	fmt.Fprintln(w, "  export     Export markdown to PDF")
	fmt.Fprintln(w, "  copy       Copy markdown to the clipboard")
	fmt.Fprintln(w, "  restore    Print the last autosaved content")
	fmt.Fprintln(w, "  doctor     Check system configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdlive help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --storage <path>      Storage file path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed logs")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlive watch <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Re-render the preview each time the file is written and autosave")
	fmt.Fprintln(w, "the content. Commands are read from stdin, one per line:")
	fmt.Fprintln(w, "  export, copy, save, stats, fullscreen, quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Preview HTML file (default: <file>.html)")
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlive render <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown to an HTML fragment, or a complete document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --standalone          Complete document with inline styles")
	printCommonUsage(w)
}

// printStatsUsage prints usage for the stats command.
func printStatsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlive stats <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show word, line and character counts.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                JSON output")
	printCommonUsage(w)
}

// printApplyUsage prints usage for the apply command.
func printApplyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlive apply <file> --action <name> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Apply a toolbar action to the selection and rewrite the file.")
	fmt.Fprintln(w, "Prints the resulting selection as \"start end\".")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --action <name>       "+strings.Join(actionNames(), ", "))
	fmt.Fprintln(w, "      --start <n>           Selection start, in characters")
	fmt.Fprintln(w, "      --end <n>             Selection end (default: --start)")
	fmt.Fprintln(w, "                            Without either, the caret is at the end")
	printCommonUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlive export <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export markdown to a dated PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (e.g., 30s, 2m)")
	printCommonUsage(w)
}

// printCopyUsage prints usage for the copy command.
func printCopyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlive copy <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Copy markdown to the system clipboard. When no clipboard is")
	fmt.Fprintln(w, "available the terminal is asked to copy it (OSC 52).")
	printCommonUsage(w)
}

// printRestoreUsage prints usage for the restore command.
func printRestoreUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlive restore [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the content saved by the last watch session.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Write to file instead of stdout")
	printCommonUsage(w)
}

// actionNames lists the toolbar actions accepted by --action.
func actionNames() []string {
	actions := toolbar.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return names
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "watch":
		printWatchUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "stats":
		printStatsUsage(env.Stdout)
	case "apply":
		printApplyUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "copy":
		printCopyUsage(env.Stdout)
	case "restore":
		printRestoreUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdlive doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, clipboard and storage.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdlive version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdlive help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
