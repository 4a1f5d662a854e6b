package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cobalt-rocks/mdpdf"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpdf [flags] INPUT OUTPUT")
	fmt.Fprintln(w, "       mdpdf <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown to a styled PDF. INPUT may be a file or a directory;")
	fmt.Fprintln(w, "for a directory, OUTPUT is the directory the PDFs are written to.")
	fmt.Fprintln(w, "OUTPUT may be omitted when the config sets output.defaultDir.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  changelog    Show the release notes")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  doctor       Check the PDF rendering environment")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -n, --name <s>            Author name for the footer (env: NAME)")
	fmt.Fprintln(w, "  -t, --title <s>           Document title (default: input file name)")
	fmt.Fprintln(w, "      --date <s>            Footer date: literal, \"auto\", or \"auto:FORMAT\"")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "  -l, --license <s>         CC 4.0 license: "+licenseList())
	fmt.Fprintln(w, "      --lang <s>            Document language: en, de")
	fmt.Fprintln(w, "  -d, --german              Same as --lang de")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --extensions <list>   Extensions: "+strings.Join(mdpdf.ExtensionNames(), ", "))
	fmt.Fprintln(w, "      --unsafe              Skip HTML sanitization")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --pagesize <s>        Page size: a3, a4, a5, a6 (default: a4)")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <mm>         Margin in millimeters (default: 10)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --theme <s>           Theme: "+strings.Join(mdpdf.ThemeNames(), ", ")+" (default: light)")
	fmt.Fprintln(w, "  -s, --stylesheet <path>   Additional CSS file")
	fmt.Fprintln(w, "      --highlight <s>       Code highlighting style (default: monokai)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom themes and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -k, --keep                Keep the HTML document next to the PDF")
	fmt.Fprintln(w, "      --html-only           Write HTML instead of PDF")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --timeout <d>         Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// licenseList joins the supported license variants.
func licenseList() string {
	return strings.Join(licenseNames(), ", ")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "changelog":
		fmt.Fprintln(env.Stdout, "Usage: mdpdf changelog")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show the release notes.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdpdf doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that Chrome is available and the temp directory is writable.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdpdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdpdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
