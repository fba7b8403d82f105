package ci

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var banner = color.New(color.FgCyan, color.Bold)

// Stage prints the stage banner.
func Stage(w io.Writer, name string) {
	banner.Fprintf(w, "\n------------------------------\n--\n-- %s\n--\n------------------------------\n", name)
	fmt.Fprintln(w)
}

// Skipped reports a stage that did not run and why.
func Skipped(w io.Writer, name, reason string) {
	color.New(color.FgYellow).Fprintf(w, "// Skipped %s: %s\n", name, reason)
}
