package main

import (
	"github.com/spf13/cobra"

	"cifcommon/internal/engine"
)

func newBuildCmd(load settingsLoader) *cobra.Command {
	var skipContext bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the build stages of the package in the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("spec") {
				s.Spec, _ = f.GetString("spec")
			}
			if f.Changed("package") {
				s.Package, _ = f.GetString("package")
			}
			if f.Changed("dir") {
				s.Dir, _ = f.GetString("dir")
			}
			if f.Changed("dry-run") {
				s.DryRun, _ = f.GetBool("dry-run")
			}
			if f.Changed("metrics-file") {
				s.MetricsFile, _ = f.GetString("metrics-file")
			}

			e, err := engine.Bootstrap(cmd.Context(), engine.Config{
				Settings:    s,
				Stdout:      cmd.OutOrStdout(),
				Stderr:      cmd.ErrOrStderr(),
				SkipContext: skipContext,
			})
			if err != nil {
				return err
			}
			return e.Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String("spec", "", "build spec YAML (built-in npm build when empty)")
	f.String("package", "package.json", "package manifest")
	f.String("dir", ".", "working directory")
	f.Bool("dry-run", false, "print commands without running them")
	f.String("metrics-file", "", "write Prometheus textfile metrics here")
	f.BoolVar(&skipContext, "skip-context", false, "do not print toolchain versions")
	return cmd
}
