package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/cobalt-rocks/mdpdf"
	"github.com/cobalt-rocks/mdpdf/internal/config"
	"github.com/cobalt-rocks/mdpdf/internal/hints"
)

// ANSI colors for message prefixes.
const (
	colorBlue   = "\x1b[34m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorReset  = "\x1b[0m"
)

// printer writes [Info], [Warning] and [Error] messages.
// Info goes to stdout and is silenced by --quiet; warnings and errors go to stderr.
type printer struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	quiet  bool
}

func newPrinter(env *Environment) *printer {
	return &printer{stdout: env.Stdout, stderr: env.Stderr, getenv: env.Getenv}
}

func (p *printer) env(key string) string {
	if p.getenv == nil {
		return ""
	}
	return p.getenv(key)
}

// Info prints an informational message.
func (p *printer) Info(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.stdout, "%s: %s\n", p.prefix(p.stdout, "[Info]", colorBlue), msg)
}

// Warning prints a non-fatal problem.
func (p *printer) Warning(msg string) {
	fmt.Fprintf(p.stderr, "%s: %s\n", p.prefix(p.stderr, "[Warning]", colorYellow), msg)
}

// Error prints err with any hint that applies to it.
func (p *printer) Error(err error) {
	fmt.Fprintf(p.stderr, "%s: %v%s\n", p.prefix(p.stderr, "[Error]", colorRed), err, hintFor(err, p.env))
}

// prefix colors label when w is a terminal and NO_COLOR is unset.
func (p *printer) prefix(w io.Writer, label, color string) string {
	if p.env("NO_COLOR") != "" || !isTerminal(w) {
		return label
	}
	return color + label + colorReset
}

// isTerminal reports whether w is a terminal that understands ANSI colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// hintFor returns an actionable hint for well-known failures.
func hintFor(err error, getenv func(string) string) string {
	switch {
	case errors.Is(err, mdpdf.ErrBrowserConnect):
		return hints.ForBrowserConnect(getenv)
	case errors.Is(err, mdpdf.ErrPageLoad), errors.Is(err, mdpdf.ErrPDFGeneration):
		if errors.Is(err, context.DeadlineExceeded) {
			return hints.ForTimeout()
		}
	case errors.Is(err, mdpdf.ErrStyleNotFound):
		return hints.ForStyleNotFound(mdpdf.ThemeNames())
	case errors.Is(err, mdpdf.ErrLicenseRequiresName), errors.Is(err, ErrDateRequiresName):
		return hints.ForLicenseName()
	case errors.Is(err, mdpdf.ErrUnknownExtension):
		return hints.ForUnknownExtension(mdpdf.ExtensionNames())
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, config.ErrConfigNotFound):
		var nameErr *configNameError
		if errors.As(err, &nameErr) {
			return hints.ForConfigNotFound(config.SearchPaths(nameErr.name))
		}
	case errors.Is(err, ErrUsage):
		return hints.ForUsage()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}
