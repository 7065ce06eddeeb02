package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-mdlive/internal/config"
	"github.com/alnah/go-mdlive/internal/export"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDLIVE_CONFIG: config file name or path
	Storage    string        // MDLIVE_STORAGE: storage file path
	OutputDir  string        // MDLIVE_OUTPUT_DIR: PDF output directory
	AssetPath  string        // MDLIVE_ASSET_PATH: custom styles and templates
	Timeout    time.Duration // MDLIVE_TIMEOUT: PDF export timeout
}

// knownEnvVars lists valid MDLIVE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDLIVE_CONFIG":     true,
	"MDLIVE_STORAGE":    true,
	"MDLIVE_OUTPUT_DIR": true,
	"MDLIVE_ASSET_PATH": true,
	"MDLIVE_TIMEOUT":    true,
	"MDLIVE_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDLIVE_CONFIG"),
		Storage:    os.Getenv("MDLIVE_STORAGE"),
		OutputDir:  os.Getenv("MDLIVE_OUTPUT_DIR"),
		AssetPath:  os.Getenv("MDLIVE_ASSET_PATH"),
	}

	// Invalid durations are ignored rather than reported.
	if timeout := os.Getenv("MDLIVE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDLIVE_* variables.
// Helps catch typos like MDLIVE_OUTPUTDIR instead of MDLIVE_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDLIVE_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty
// or still the default. This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Storage != "" && cfg.Storage.Path == "" {
		cfg.Storage.Path = env.Storage
	}
	if env.OutputDir != "" && cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = env.OutputDir
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Timeout > 0 && cfg.Export.Timeout.Std() == export.DefaultTimeout {
		cfg.Export.Timeout = config.Duration(env.Timeout)
	}
}
