package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdlive/internal/export"
	"github.com/alnah/go-mdlive/internal/fileutil"
	"github.com/alnah/go-mdlive/internal/pipeline"
	"github.com/alnah/go-mdlive/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config dir.
const AppDir = "go-mdlive"

// Field length and range limits.
const (
	MaxIdleTextLength = 100  // status bar idle text
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxFilenameLength = 255
	MaxDelay          = time.Minute
	MaxStatusDuration = time.Minute
	MaxExportTimeout  = 10 * time.Minute
)

// Defaults mirrored from the editor's components.
const (
	DefaultPreviewDelay   = 100 * time.Millisecond
	DefaultAutosaveDelay  = 1000 * time.Millisecond
	DefaultSavedStatus    = 1000 * time.Millisecond
	DefaultStatusDuration = 3000 * time.Millisecond
	DefaultIdleText       = "已就绪"
)

// Duration is a time.Duration written as a Go duration string ("100ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all configuration for an editing session.
type Config struct {
	Preview  PreviewConfig  `yaml:"preview"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Status   StatusConfig   `yaml:"status"`
	Storage  StorageConfig  `yaml:"storage"`
	Export   ExportConfig   `yaml:"export"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// PreviewConfig controls the live preview.
type PreviewConfig struct {
	Delay Duration `yaml:"delay"` // render debounce window
}

// AutosaveConfig controls persistence of the buffer.
type AutosaveConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Delay          Duration `yaml:"delay"`          // save debounce window
	StatusDuration Duration `yaml:"statusDuration"` // how long "saved" stays visible
}

// StatusConfig controls the status bar.
type StatusConfig struct {
	Duration Duration `yaml:"duration"` // default message lifetime
	IdleText string   `yaml:"idleText"`
}

// StorageConfig selects the storage file.
type StorageConfig struct {
	Path string `yaml:"path"` // Empty = user config dir
}

// ExportConfig controls PDF export.
type ExportConfig struct {
	OutputDir   string    `yaml:"outputDir"` // Empty = current directory
	Format      string    `yaml:"format"`
	Orientation string    `yaml:"orientation"`
	Margins     []float64 `yaml:"margins"` // mm: one value for all sides, or top, right, bottom, left
	Scale       float64   `yaml:"scale"`
	PageBreak   []string  `yaml:"pageBreak"`
	Timeout     Duration  `yaml:"timeout"`
	Filename    string    `yaml:"filename"` // pattern, {date} expands to YYYY-MM-DD
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig returns the editor's built-in behavior.
func DefaultConfig() *Config {
	modes := pipeline.DefaultPageBreakModes()
	pageBreak := make([]string, len(modes))
	for i, m := range modes {
		pageBreak[i] = string(m)
	}

	return &Config{
		Preview: PreviewConfig{Delay: Duration(DefaultPreviewDelay)},
		Autosave: AutosaveConfig{
			Enabled:        true,
			Delay:          Duration(DefaultAutosaveDelay),
			StatusDuration: Duration(DefaultSavedStatus),
		},
		Status: StatusConfig{
			Duration: Duration(DefaultStatusDuration),
			IdleText: DefaultIdleText,
		},
		Export: ExportConfig{
			Format:      string(export.FormatA4),
			Orientation: string(export.Portrait),
			Margins:     []float64{export.DefaultMargin},
			Scale:       export.DefaultScale,
			PageBreak:   pageBreak,
			Timeout:     Duration(export.DefaultTimeout),
			Filename:    export.DefaultFilenamePattern,
		},
	}
}

// Validate checks ranges and lengths. Called automatically by LoadConfig,
// but available for configs built in code.
func (c *Config) Validate() error {
	if err := validateDuration("preview.delay", c.Preview.Delay, 0, MaxDelay); err != nil {
		return err
	}
	if err := validateDuration("autosave.delay", c.Autosave.Delay, 0, MaxDelay); err != nil {
		return err
	}
	if err := validateDuration("autosave.statusDuration", c.Autosave.StatusDuration, 0, MaxStatusDuration); err != nil {
		return err
	}
	if err := validateDuration("status.duration", c.Status.Duration, 0, MaxStatusDuration); err != nil {
		return err
	}
	if err := validateFieldLength("status.idleText", c.Status.IdleText, MaxIdleTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("storage.path", c.Storage.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	// Export
	if err := validateFieldLength("export.outputDir", c.Export.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.filename", c.Export.Filename, MaxFilenameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Export.Filename, "/\\") {
		return fmt.Errorf("%w: export.filename: must not contain path separators", ErrInvalidValue)
	}
	if err := validateDuration("export.timeout", c.Export.Timeout, 0, MaxExportTimeout); err != nil {
		return err
	}
	if _, err := pipeline.ParsePageBreakModes(c.Export.PageBreak); err != nil {
		return fmt.Errorf("%w: export.pageBreak: %v", ErrInvalidValue, err)
	}
	if _, err := c.ExportOptions(); err != nil {
		return err
	}

	return nil
}

// ExportOptions converts the export section into printer options.
// Empty fields fall back to export.DefaultOptions.
func (c *Config) ExportOptions() (export.Options, error) {
	opts := export.DefaultOptions()
	e := c.Export

	if e.Format != "" {
		f, err := export.ParseFormat(e.Format)
		if err != nil {
			return opts, fmt.Errorf("%w: export.format: %v", ErrInvalidValue, err)
		}
		opts.Format = f
	}
	if e.Orientation != "" {
		o, err := export.ParseOrientation(e.Orientation)
		if err != nil {
			return opts, fmt.Errorf("%w: export.orientation: %v", ErrInvalidValue, err)
		}
		opts.Orientation = o
	}

	switch len(e.Margins) {
	case 0:
	case 1:
		opts.Margins = [4]float64{e.Margins[0], e.Margins[0], e.Margins[0], e.Margins[0]}
	case 4:
		copy(opts.Margins[:], e.Margins)
	default:
		return opts, fmt.Errorf("%w: export.margins: want 1 or 4 values, got %d", ErrInvalidValue, len(e.Margins))
	}

	if e.Scale != 0 {
		opts.Scale = e.Scale
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("%w: export: %v", ErrInvalidValue, err)
	}
	return opts, nil
}

// PageBreakModes returns the parsed export.pageBreak list.
func (c *Config) PageBreakModes() ([]pipeline.PageBreakMode, error) {
	return pipeline.ParsePageBreakModes(c.Export.PageBreak)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateDuration(fieldName string, d Duration, lo, hi time.Duration) error {
	if v := d.Std(); v < lo || v > hi {
		return fmt.Errorf("%w: %s: must be between %s and %s, got %s", ErrInvalidValue, fieldName, lo, hi, v)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-mdlive/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
