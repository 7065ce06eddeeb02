package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdlive/internal/assets"
	"github.com/alnah/go-mdlive/internal/clipboard"
	"github.com/alnah/go-mdlive/internal/hints"
	"github.com/alnah/go-mdlive/internal/storage"
)

// Doctor statuses.
const (
	doctorReady    = "ready"
	doctorWarnings = "warnings"
	doctorErrors   = "errors"
)

// doctorReport holds every diagnostic the doctor command collects.
type doctorReport struct {
	Status    string        `json:"status"`
	Browser   browserCheck  `json:"browser"`
	Clipboard clipboardInfo `json:"clipboard"`
	Storage   storageInfo   `json:"storage"`
	Assets    assetsInfo    `json:"assets"`
	Platform  string        `json:"platform"`
	Container string        `json:"container,omitempty"` // detection signal
	CI        bool          `json:"ci"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// browserCheck describes the Chrome used for PDF export.
type browserCheck struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// clipboardInfo describes the copy path.
type clipboardInfo struct {
	System bool `json:"system"` // false means OSC 52 only
}

// storageInfo describes the autosave file.
type storageInfo struct {
	Path     string `json:"path,omitempty"`
	Writable bool   `json:"writable"`
}

// assetsInfo describes the stylesheets and templates in use.
type assetsInfo struct {
	BasePath   string   `json:"basePath,omitempty"`
	Builtin    []string `json:"builtin"`
	Overridden []string `json:"overridden,omitempty"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = usable (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	r := diagnose()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(r)
	} else {
		printDoctorReport(env.Stdout, r)
	}

	if r.Status == doctorErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// diagnose runs every check.
func diagnose() *doctorReport {
	r := &doctorReport{Platform: runtime.GOOS + "/" + runtime.GOARCH}

	checkBrowser(r)
	checkClipboard(r)
	checkStorage(r)
	checkAssets(r)
	checkContainer(r)

	switch {
	case len(r.Errors) > 0:
		r.Status = doctorErrors
	case len(r.Warnings) > 0:
		r.Status = doctorWarnings
	default:
		r.Status = doctorReady
	}
	return r
}

// checkBrowser locates Chrome. Export is optional, so a missing browser
// is a warning rather than an error.
func checkBrowser(r *doctorReport) {
	path := os.Getenv("ROD_BROWSER_BIN")
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			r.Warnings = append(r.Warnings, "Chrome/Chromium not found: PDF export unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if _, err := os.Stat(path); err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Chrome not found at %s", path))
		return
	}

	r.Browser.Found = true
	r.Browser.Path = path
	r.Browser.Sandbox = os.Getenv("ROD_NO_SANDBOX") != "1"

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from rod or the user
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	r.Browser.Version = strings.TrimSpace(string(out))
}

// checkClipboard reports whether copies reach the system clipboard.
func checkClipboard(r *doctorReport) {
	r.Clipboard.System = clipboard.System{}.Available()
	if !r.Clipboard.System {
		r.Warnings = append(r.Warnings, "no system clipboard: copy falls back to OSC 52"+hints.ForClipboard())
	}
}

// checkStorage verifies the autosave file's directory is writable.
func checkStorage(r *doctorReport) {
	path := os.Getenv("MDLIVE_STORAGE")
	if path == "" {
		var err error
		if path, err = storage.DefaultPath(); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("no storage location: %v", err))
			return
		}
	}
	r.Storage.Path = path

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("storage directory not writable: %s", dir))
		return
	}
	probe, err := os.CreateTemp(dir, ".mdlive-doctor-*")
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("storage directory not writable: %s", dir))
		return
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	r.Storage.Writable = true
}

// checkAssets lists the built-in assets and which of them a custom
// MDLIVE_ASSET_PATH directory overrides.
func checkAssets(r *doctorReport) {
	builtin := assets.NewEmbeddedLoader()
	var files []string
	for _, k := range []assets.Kind{assets.Style, assets.Template} {
		for _, name := range builtin.Names(k) {
			files = append(files, k.String()+"/"+name)
		}
	}
	r.Assets.Builtin = files

	base := os.Getenv("MDLIVE_ASSET_PATH")
	if base == "" {
		return
	}
	r.Assets.BasePath = base

	custom, err := assets.NewFilesystemLoader(base)
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
		return
	}
	for _, name := range builtin.Names(assets.Style) {
		if _, err := custom.LoadStyle(name); err == nil {
			r.Assets.Overridden = append(r.Assets.Overridden, "style/"+name)
		}
	}
	for _, name := range builtin.Names(assets.Template) {
		if _, err := custom.LoadTemplate(name); err == nil {
			r.Assets.Overridden = append(r.Assets.Overridden, "template/"+name)
		}
	}
}

// checkContainer detects container and CI environments, where Chrome
// usually needs its sandbox disabled.
func checkContainer(r *doctorReport) {
	r.Container = containerSignal()
	r.CI = hints.InCI()
	if (r.Container != "" || r.CI) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		r.Warnings = append(r.Warnings, "Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// containerSignal returns which container signal was found, or "".
func containerSignal() string {
	switch {
	case os.Getenv("MDLIVE_CONTAINER") == "1":
		return "MDLIVE_CONTAINER=1"
	case hints.IsInContainer():
		return "/.dockerenv"
	case os.Getenv("container") != "":
		return "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return "KUBERNETES_SERVICE_HOST"
	}
	return ""
}

// printDoctorReport outputs human-readable diagnostic results.
func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintln(w, "mdlive doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PDF export")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Chrome: %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
		if !r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Chrome not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Clipboard")
	if r.Clipboard.System {
		fmt.Fprintln(w, "  [OK] System clipboard")
	} else {
		fmt.Fprintln(w, "  [WARN] OSC 52 only")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Storage")
	if r.Storage.Writable {
		fmt.Fprintf(w, "  [OK] %s\n", r.Storage.Path)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s\n", r.Storage.Path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	fmt.Fprintf(w, "  [OK] Built-in: %s\n", strings.Join(r.Assets.Builtin, ", "))
	if r.Assets.BasePath != "" {
		fmt.Fprintf(w, "  [OK] Custom: %s\n", r.Assets.BasePath)
		if len(r.Assets.Overridden) > 0 {
			fmt.Fprintf(w, "  [OK] Overrides: %s\n", strings.Join(r.Assets.Overridden, ", "))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s\n", r.Platform)
	if r.Container != "" {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Container)
	}
	if r.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "[WARN] %s\n", warn)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "[ERROR] %s\n", e)
	}
	if len(r.Warnings)+len(r.Errors) > 0 {
		fmt.Fprintln(w)
	}

	switch r.Status {
	case doctorReady:
		fmt.Fprintln(w, "Status: Ready")
	case doctorWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case doctorErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
