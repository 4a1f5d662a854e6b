package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cobalt-rocks/mdpdf"
	"github.com/cobalt-rocks/mdpdf/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrMissingArgument    = fmt.Errorf("%w: missing INPUT or OUTPUT argument", ErrUsage)
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrDateRequiresName   = errors.New("date requires an author name")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrCreateOutputDir    = errors.New("failed to create output directory")
	ErrNoMarkdownFiles    = errors.New("no markdown files found")
	ErrConversionsFailed  = errors.New("conversions failed")
)

// configNameError remembers which config name failed to load.
type configNameError struct {
	name string
	err  error
}

func (e *configNameError) Error() string { return e.err.Error() }
func (e *configNameError) Unwrap() error { return e.err }

// runConvert orchestrates a conversion run.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) (err error) {
	out := newPrinter(env)
	out.quiet = flags.common.quiet

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Environ(), out)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}

	// Precedence: CLI flags > env vars > config file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	inputPath, outputPath, err := resolvePaths(positionalArgs, cfg)
	if err != nil {
		return err
	}

	params, err := buildConversionParams(flags, cfg, env.Now(), out)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, outputPath, params.htmlOnly)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMarkdownFiles, inputPath)
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := min(mdpdf.ResolvePoolSize(workers), len(files))

	pool := env.NewPool(poolSize, converterOptions(cfg, timeout)...)
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			out.Warning(fmt.Sprintf("closing browsers: %v", cerr))
		}
	}()

	if flags.common.verbose {
		out.Info(fmt.Sprintf("Pool size: %d, timeout: %v", pool.Size(), timeout))
	}

	results := convertBatch(ctx, pool, files, params)
	return reportResults(results, flags.common.verbose, out)
}

// loadConfig loads the config named by the flag, else by MDPDF_CONFIG.
// Without either, the neutral default config is returned.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", &configNameError{name: name, err: err})
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
// The margin is resolved separately by resolveMargin.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Document
	if flags.document.name != "" {
		cfg.Author.Name = flags.document.name
	}
	if flags.document.date != "" {
		cfg.Footer.Date = flags.document.date
	}
	if flags.document.license != "" {
		cfg.Footer.License = flags.document.license
	}
	if flags.document.lang != "" {
		cfg.Lang = flags.document.lang
	}
	if flags.document.german {
		cfg.Lang = mdpdf.LangGerman
	}

	// Markdown
	if len(flags.markdown.extensions) > 0 {
		cfg.Markdown.Extensions = flags.markdown.extensions
	}
	if flags.markdown.unsafe {
		cfg.Markdown.Unsafe = true
	}

	// Page
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}

	// Style
	if flags.style.theme != "" {
		cfg.Style.Theme = flags.style.theme
	}
	if flags.style.stylesheet != "" {
		cfg.Style.Stylesheet = flags.style.stylesheet
	}
	if flags.style.highlight != "" {
		cfg.Highlight.Style = flags.style.highlight
	}
	if flags.style.assetPath != "" {
		cfg.Assets.BasePath = flags.style.assetPath
	}

	// Output
	if flags.output.keep {
		cfg.Output.Keep = true
	}
	if flags.output.htmlOnly {
		cfg.Output.HTMLOnly = true
	}
}

// resolveTimeout picks the per-document timeout: flag, then MDPDF_TIMEOUT.
// Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdpdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdpdf.MaxPoolSize)
	}
	return nil
}

// converterOptions builds the per-converter options shared by the pool.
func converterOptions(cfg *config.Config, timeout time.Duration) []mdpdf.Option {
	var opts []mdpdf.Option
	if timeout > 0 {
		opts = append(opts, mdpdf.WithTimeout(timeout))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdpdf.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Highlight.Style != "" {
		opts = append(opts, mdpdf.WithHighlightStyle(cfg.Highlight.Style))
	}
	return opts
}
