package cli

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// cliBinary is the executable name searched for.
const cliBinary = "claude"

// wellKnownDirs are checked, in order, after $PATH lookup fails. These
// cover the npm, yarn and native installer layouts.
func wellKnownDirs(home string) []string {
	return []string{
		filepath.Join(home, ".claude", "local"),
		filepath.Join(home, ".npm-global", "bin"),
		"/usr/local/bin",
		filepath.Join(home, ".local", "bin"),
		filepath.Join(home, "node_modules", ".bin"),
		filepath.Join(home, ".yarn", "bin"),
	}
}

// findCLI locates the CLI binary. An explicit CLIPath option wins; then
// $PATH; then the well-known install locations.
func (a *Adapter) findCLI() (string, error) {
	if a.opts.CLIPath != nil && *a.opts.CLIPath != "" {
		return *a.opts.CLIPath, nil
	}

	if path, err := exec.LookPath(cliBinary); err == nil {
		return path, nil
	}

	searched := []string{"$PATH"}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	for _, dir := range wellKnownDirs(home) {
		candidate := filepath.Join(dir, cliBinary)
		searched = append(searched, candidate)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", piperrs.NewNotFoundError("claude CLI not found", searched)
}
