package main

import (
	_ "embed"
	"fmt"
)

//go:embed CHANGELOG.md
var changelog string

// runChangelog prints the embedded release notes.
func runChangelog(env *Environment) int {
	fmt.Fprint(env.Stdout, changelog)
	return ExitSuccess
}
