// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-mdlive/internal/fileutil"
)

// IsInContainer reports whether /.dockerenv exists. Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// configDirName is the per-user config directory the CLI searches.
const configDirName = "go-mdlive"

// ciVars are set by the CI services whose runners lack the user
// namespaces Chrome's sandbox needs.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// InCI reports whether a known CI service variable is set.
func InCI() bool {
	return inCI(os.Getenv)
}

func inCI(getenv func(string) string) bool {
	for _, v := range ciVars {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect returns hints for a browser that failed to start,
// based on the ROD_* variables and whether this looks like CI or a
// container.
func ForBrowserConnect() string {
	return formatHints(browserHints(os.Getenv, IsInContainer()))
}

func browserHints(getenv func(string) string, inContainer bool) []string {
	var out []string
	if (inContainer || inCI(getenv)) && getenv("ROD_NO_SANDBOX") != "1" {
		out = append(out, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		out = append(out, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return out
}

// ForTimeout returns a hint about increasing timeout for slow exports.
func ForTimeout() string {
	return format("for large documents, use --timeout or raise export.timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config dir.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), configDirName+"/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStorage returns hints for storage load and save errors.
func ForStorage(path string) string {
	if path == "" {
		return format("use --storage /path/to/storage.yaml")
	}
	return format("check " + path + " is writable and valid YAML, or use --storage")
}

// ForClipboard returns hints for clipboard errors. On Linux the system
// clipboard needs an external helper.
func ForClipboard() string {
	if runtime.GOOS == "linux" {
		return format("install xclip, xsel or wl-clipboard; terminals with OSC 52 receive a fallback copy")
	}
	return format("the terminal fallback needs OSC 52 support")
}

// ForAssetNotFound returns hints for missing custom styles or templates.
func ForAssetNotFound(basePath string) string {
	if basePath == "" {
		return ""
	}
	return format("custom assets live in " + filepath.Join(basePath, "styles") + " and " + filepath.Join(basePath, "templates"))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
