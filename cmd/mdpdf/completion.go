package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/cobalt-rocks/mdpdf"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// commands lists the subcommands offered for completion.
var commands = []string{"changelog", "completion", "doctor", "help", "version"}

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Bool   bool
	Desc   string
	Values []string // Enumerated values, if any
	Glob   string   // File pattern for path flags, if any
}

// completionMeta holds completion hints the FlagSet does not carry.
type completionMeta struct {
	Values []string
	Glob   string
}

// flagCompletionMeta maps flag names to their completion metadata.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		"pagesize":    {Values: []string{"a3", "a4", "a5", "a6"}},
		"orientation": {Values: []string{mdpdf.OrientationPortrait, mdpdf.OrientationLandscape}},
		"theme":       {Values: mdpdf.ThemeNames()},
		"lang":        {Values: []string{mdpdf.LangEnglish, mdpdf.LangGerman}},
		"license":     {Values: licenseNames()},
		"extensions":  {Values: mdpdf.ExtensionNames()},
		"config":      {Glob: "*.yaml *.yml"},
		"stylesheet":  {Glob: "*.css"},
	}
}

func licenseNames() []string {
	var names []string
	for _, l := range mdpdf.Licenses() {
		names = append(names, string(l))
	}
	return names
}

// completionFlags extracts flag definitions from the conversion FlagSet,
// the single source of truth for flag names and descriptions.
func completionFlags() []flagDef {
	meta := flagCompletionMeta()
	var defs []flagDef

	buildConvertFlagSet(&convertFlags{}).VisitAll(func(f *flag.Flag) {
		d := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Bool:  f.Value.Type() == "bool",
			Desc:  f.Usage,
		}
		if m, ok := meta[f.Name]; ok {
			d.Values = m.Values
			d.Glob = m.Glob
		}
		defs = append(defs, d)
	})

	sort.Slice(defs, func(i, j int) bool { return defs[i].Long < defs[j].Long })
	return defs
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	flags := completionFlags()
	var script string
	switch shell {
	case ShellBash:
		script = bashCompletion(flags)
	case ShellZsh:
		script = zshCompletion(flags)
	case ShellFish:
		script = fishCompletion(flags)
	case ShellPowerShell:
		script = powerShellCompletion(flags)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

func bashCompletion(flags []flagDef) string {
	var b strings.Builder
	var words []string
	b.WriteString("# bash completion for mdpdf\n_mdpdf() {\n")
	b.WriteString("    local cur prev\n    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
		names := "--" + f.Long
		if f.Short != "" {
			names += "|-" + f.Short
		}
		switch {
		case len(f.Values) > 0:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", names, strings.Join(f.Values, " "))
		case f.Glob != "":
			b.WriteString("        " + names + ") COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n")
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words, " "))
	b.WriteString("    elif [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\"))\n", strings.Join(commands, " "))
	b.WriteString("    else\n        COMPREPLY=($(compgen -f -- \"$cur\"))\n    fi\n}\n")
	b.WriteString("complete -o filenames -F _mdpdf mdpdf\n")
	return b.String()
}

func zshCompletion(flags []flagDef) string {
	var b strings.Builder
	b.WriteString("#compdef mdpdf\n\n_mdpdf() {\n    _arguments \\\n")
	for _, f := range flags {
		desc := zshEscape(f.Desc)
		action := ""
		switch {
		case f.Bool:
		case len(f.Values) > 0:
			action = ":value:(" + strings.Join(f.Values, " ") + ")"
		case f.Glob != "":
			action = ":file:_files"
		default:
			action = ":value:"
		}
		if f.Short != "" {
			fmt.Fprintf(&b, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
		} else {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, desc, action)
		}
	}
	fmt.Fprintf(&b, "        '1:input:(%s)' \\\n", strings.Join(commands, " "))
	b.WriteString("        '*:file:_files'\n}\n\ncompdef _mdpdf mdpdf\n")
	return b.String()
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func fishCompletion(flags []flagDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for mdpdf\n")
	fmt.Fprintf(&b, "complete -c mdpdf -n __fish_use_subcommand -a %q\n", strings.Join(commands, " "))
	for _, f := range flags {
		line := "complete -c mdpdf -l " + f.Long
		if f.Short != "" {
			line += " -s " + f.Short
		}
		switch {
		case f.Bool:
		case len(f.Values) > 0:
			line += fmt.Sprintf(" -x -a %q", strings.Join(f.Values, " "))
		case f.Glob != "":
			line += " -r -F"
		default:
			line += " -r"
		}
		line += " -d " + fishQuote(f.Desc)
		b.WriteString(line + "\n")
	}
	return b.String()
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

func powerShellCompletion(flags []flagDef) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion for mdpdf\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName mdpdf -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("    $items = @(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s'\n", c)
	}
	for _, f := range flags {
		fmt.Fprintf(&b, "        '--%s'\n", f.Long)
	}
	b.WriteString("    )\n")
	b.WriteString("    $items | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n}\n")
	return b.String()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(mdpdf completion bash)\"  # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(mdpdf completion zsh)\"   # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:        mdpdf completion fish > ~/.config/fish/completions/mdpdf.fish")
	fmt.Fprintln(w, "  PowerShell:  mdpdf completion powershell | Out-String | Invoke-Expression")
}
