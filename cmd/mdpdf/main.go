package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches subcommands and returns the process exit code.
func runMain(args []string, env *Environment) int {
	out := newPrinter(env)

	if len(args) > 1 {
		switch args[1] {
		case "version", "--version":
			fmt.Fprintf(env.Stdout, "mdpdf %s\n", Version)
			return ExitSuccess
		case "help", "-h", "--help":
			runHelp(args[2:], env)
			return ExitSuccess
		case "changelog":
			return runChangelog(env)
		case "completion":
			if err := runCompletion(args[2:], env); err != nil {
				out.Error(err)
				return exitCodeFor(err)
			}
			return ExitSuccess
		case "doctor":
			return runDoctorCmd(args[2:], env)
		}
	}

	flags, positional, err := parseConvertFlags(args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(env.Stdout)
			return ExitSuccess
		}
		out.Error(fmt.Errorf("%w: %v", ErrUsage, err))
		return ExitUsage
	}

	configureMaxProcs(flags.common.verbose, out)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		out.Error(err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// configureMaxProcs sets GOMAXPROCS from the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func configureMaxProcs(verbose bool, out *printer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			out.Info(fmt.Sprintf(format, args...))
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}
