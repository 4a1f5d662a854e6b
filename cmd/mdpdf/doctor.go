package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/cobalt-rocks/mdpdf"
	"github.com/cobalt-rocks/mdpdf/internal/fileutil"
	"github.com/cobalt-rocks/mdpdf/internal/hints"
)

const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Assets   assetsInfo `json:"assets"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// assetsInfo lists the built-in themes that loaded.
type assetsInfo struct {
	Themes []string `json:"themes"`
}

func (r *doctorResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) failf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// doctorChecks are the probes runDoctor uses; replaced in tests.
type doctorChecks struct {
	getenv   func(string) string
	lookPath func() (string, bool)
	version  func(path string) (string, error)
	tempDir  func() string
}

func defaultDoctorChecks(env *Environment) doctorChecks {
	return doctorChecks{
		getenv:   env.Getenv,
		lookPath: launcher.LookPath,
		version: func(path string) (string, error) {
			out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
			return strings.TrimSpace(string(out)), err
		},
		tempDir: os.TempDir,
	}
}

// runDoctorCmd prints the report and exits 1 only when errors were found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(env.Stderr, "[Error] doctor: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(defaultDoctorChecks(env))

	if *asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(checks doctorChecks) *doctorResult {
	r := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  checks.getenv("ROD_NO_SANDBOX"),
			BrowserBin: checks.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(r, checks)
	checkEnvironment(r, checks.getenv)
	checkTempDir(r, checks.tempDir())
	checkAssets(r, checks.getenv)

	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

// checkChrome locates the browser rod will launch: ROD_BROWSER_BIN when set,
// otherwise rod's own lookup.
func checkChrome(r *doctorResult, checks doctorChecks) {
	bin := r.Env.BrowserBin
	if bin == "" {
		var ok bool
		if bin, ok = checks.lookPath(); !ok {
			r.failf("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if !fileutil.FileExists(bin) {
		r.failf("Chrome not found at %s", bin)
		return
	}

	r.Chrome = chromeInfo{Found: true, Path: bin, Sandbox: r.Env.NoSandbox != "1"}
	v, err := checks.version(bin)
	if err != nil {
		r.warnf("Could not get Chrome version: %v", err)
		return
	}
	r.Chrome.Version = v
}

func checkEnvironment(r *doctorResult, getenv func(string) string) {
	r.Env.Container, r.Env.ContainerHint = hints.InContainer(getenv)
	r.Env.CI = hints.InCI(getenv)

	if (r.Env.Container || r.Env.CI) && r.Env.NoSandbox != "1" {
		r.warnf("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkTempDir writes a probe file where pages and footers are staged.
func checkTempDir(r *doctorResult, dir string) {
	f, err := os.CreateTemp(dir, "mdpdf-doctor-*")
	if err != nil {
		r.failf("Temp directory not writable: %s", dir)
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	r.System.TempWritable = true
}

// checkAssets loads every built-in theme and the default templates, then
// validates a theme named in MDPDF_THEME.
func checkAssets(r *doctorResult, getenv func(string) string) {
	loader, err := mdpdf.NewAssetLoader("")
	if err != nil {
		r.failf("Embedded assets unavailable: %v", err)
		return
	}
	themes := mdpdf.ThemeNames()
	for _, name := range themes {
		if _, err := loader.LoadStyle(name); err != nil {
			r.failf("Theme %s: %v", name, err)
			continue
		}
		r.Assets.Themes = append(r.Assets.Themes, name)
	}
	if _, err := loader.LoadTemplateSet(mdpdf.DefaultTemplateSet); err != nil {
		r.failf("Default templates: %v", err)
	}

	theme := getenv("MDPDF_THEME")
	switch {
	case theme == "", slices.Contains(themes, theme):
	case fileutil.IsFilePath(theme):
		if !fileutil.FileExists(theme) {
			r.warnf("MDPDF_THEME points to a missing file: %s", theme)
		}
	default:
		r.warnf("MDPDF_THEME=%s is not a built-in theme (%s)", theme, strings.Join(themes, ", "))
	}
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprint(w, "mdpdf doctor\n\n")

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		report(w, true, "Found at %s", r.Chrome.Path)
		if r.Chrome.Version != "" {
			report(w, true, "Version: %s", r.Chrome.Version)
		}
		sandbox := "enabled"
		if !r.Chrome.Sandbox {
			sandbox = "disabled (ROD_NO_SANDBOX=1)"
		}
		report(w, true, "Sandbox: %s", sandbox)
	} else {
		report(w, false, "Not found")
	}

	fmt.Fprintln(w, "\nEnvironment")
	report(w, true, "Platform: %s/%s", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		report(w, true, "Container: detected (%s)", r.Env.ContainerHint)
	}
	if r.Env.CI {
		report(w, true, "CI: detected")
	}

	fmt.Fprintln(w, "\nSystem")
	if r.System.TempWritable {
		report(w, true, "Temp directory: writable")
	} else {
		report(w, false, "Temp directory: not writable")
	}
	if len(r.Assets.Themes) > 0 {
		report(w, true, "Themes: %s", strings.Join(r.Assets.Themes, ", "))
	}
	fmt.Fprintln(w)

	listing(w, "Warnings:", "[WARN]", r.Warnings)
	listing(w, "Errors:", "[ERROR]", r.Errors)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func report(w io.Writer, ok bool, format string, args ...any) {
	tag := "[OK]"
	if !ok {
		tag = "[ERROR]"
	}
	fmt.Fprintf(w, "  %s %s\n", tag, fmt.Sprintf(format, args...))
}

func listing(w io.Writer, title, tag string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", tag, item)
	}
	fmt.Fprintln(w)
}
