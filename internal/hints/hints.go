// Package hints suggests a next step for common failures. Every hint reads
// "\n  hint: <text>" so it can be appended to an error line.
package hints

import (
	"path/filepath"
	"strings"

	"github.com/cobalt-rocks/mdpdf/internal/fileutil"
)

// dockerEnvFile is created by Docker in every container.
var dockerEnvFile = "/.dockerenv"

// ciVariables are set by common CI runners.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// InContainer reports whether the process runs in a container and names
// the signal that said so.
func InContainer(getenv func(string) string) (bool, string) {
	switch {
	case getenv("MDPDF_CONTAINER") == "1":
		return true, "MDPDF_CONTAINER=1"
	case fileutil.FileExists(dockerEnvFile):
		return true, dockerEnvFile
	case getenv("container") != "":
		return true, "container=" + getenv("container")
	case getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// InCI reports whether a CI runner variable is set.
func InCI(getenv func(string) string) bool {
	for _, v := range ciVariables {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the rod variables that usually fix a failed
// browser launch.
func ForBrowserConnect(getenv func(string) string) string {
	var hints []string

	container, _ := InContainer(getenv)
	if (container || InCI(getenv)) && getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound suggests --config, or creating the first searched
// file that lives in an mdpdf config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if filepath.Base(filepath.Dir(p)) == "mdpdf" {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func ForStyleNotFound(available []string) string {
	return listing("available: ", available)
}

func ForLicenseName() string {
	return format("pass --name or set the NAME environment variable")
}

func ForUnknownExtension(names []string) string {
	return listing("recognized: ", names)
}

func ForUsage() string {
	return format("run 'mdpdf help' for usage")
}

// listing formats label plus names, or nothing when names is empty.
func listing(label string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	return format(label + strings.Join(names, ", "))
}

func format(hint string) string {
	return "\n  hint: " + hint
}
