package ci

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"cifcommon/internal/logging"
)

// WriteFile writes content to name, relative to the shell's directory.
func WriteFile(sh Shell, name, content string) error {
	logging.L().Info("// Write to file " + name)
	if sh.DryRun {
		return nil
	}
	return os.WriteFile(sh.Path(name), []byte(content), 0o644)
}

// PrintContext prints the toolchain versions the build runs with.
func PrintContext(ctx context.Context, sh Shell) error {
	fmt.Fprintf(sh.stdout(), "Go runtime: %s\n", runtime.Version())
	if err := sh.Sh(ctx, `printf "Node version: $(node --version)\n"`); err != nil {
		return err
	}
	return sh.Sh(ctx, `printf "NPM version: $(npm --version)\n"`)
}

// Checkout clones branch of repo into folder; branch defaults to master.
func Checkout(ctx context.Context, sh Shell, repo, branch, folder string) error {
	if branch == "" {
		branch = "master"
	}
	cmd := "git clone -b " + Quote(branch) + " " + Quote(repo)
	if folder != "" {
		cmd += " " + Quote(folder)
	}
	return sh.Sh(ctx, cmd)
}
