package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cifcommon/internal/ci"
)

func newAuditCmd(load settingsLoader) *cobra.Command {
	var failOn string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run npm audit and summarize the findings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if failOn != "" && !ci.ValidSeverity(failOn) {
				return fmt.Errorf("--fail-on: unknown severity %q", failOn)
			}
			s, err := load(cmd)
			if err != nil {
				return err
			}
			sh := ci.Shell{Program: s.Shell, Dir: s.Dir, Stdout: cmd.ErrOrStderr(), Stderr: cmd.ErrOrStderr()}

			report, err := ci.NpmAudit(cmd.Context(), sh)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, sev := range report.Severities() {
				fmt.Fprintf(out, "%s\t%d\n", sev, report.Metadata.Vulnerabilities[sev])
			}
			if failOn != "" {
				if n := report.CountAtLeast(failOn); n > 0 {
					return fmt.Errorf("npm audit: %d vulnerabilities of severity %s or higher", n, failOn)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&failOn, "fail-on", "", "fail on findings of this severity or higher (low, moderate, high, critical)")
	return cmd
}
