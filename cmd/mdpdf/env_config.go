package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cobalt-rocks/mdpdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	Name       string        // NAME: author name, kept for compatibility
	ConfigPath string        // MDPDF_CONFIG: config file name or path
	Theme      string        // MDPDF_THEME: theme name
	Lang       string        // MDPDF_LANG: document language
	OutputDir  string        // MDPDF_OUTPUT_DIR: default output directory
	Timeout    time.Duration // MDPDF_TIMEOUT: per-document timeout
	Workers    int           // MDPDF_WORKERS: parallel workers
}

// knownEnvVars lists valid MDPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDPDF_CONFIG":     true,
	"MDPDF_THEME":      true,
	"MDPDF_LANG":       true,
	"MDPDF_OUTPUT_DIR": true,
	"MDPDF_TIMEOUT":    true,
	"MDPDF_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed MDPDF_TIMEOUT and MDPDF_WORKERS values are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		Name:       getenv("NAME"),
		ConfigPath: getenv("MDPDF_CONFIG"),
		Theme:      getenv("MDPDF_THEME"),
		Lang:       getenv("MDPDF_LANG"),
		OutputDir:  getenv("MDPDF_OUTPUT_DIR"),
	}

	if timeout := getenv("MDPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MDPDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars warns about unrecognized MDPDF_* variables.
// Helps catch typos like MDPDF_THEMES instead of MDPDF_THEME.
func warnUnknownEnvVars(environ []string, out *printer) {
	for _, env := range environ {
		if !strings.HasPrefix(env, "MDPDF_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			out.Warning(fmt.Sprintf("unknown environment variable %s (typo?)", name))
		}
	}
}

// applyEnvConfig fills config fields left empty by the config file.
// CLI flags are applied afterwards by mergeFlags and win over both.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Name != "" && cfg.Author.Name == "" {
		cfg.Author.Name = env.Name
	}
	if env.Theme != "" && cfg.Style.Theme == "" {
		cfg.Style.Theme = env.Theme
	}
	if env.Lang != "" && cfg.Lang == "" {
		cfg.Lang = env.Lang
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
}
