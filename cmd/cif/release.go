package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cifcommon/internal/ci"
)

func newReleaseCmd() *cobra.Command {
	var modules map[string]string

	cmd := &cobra.Command{
		Use:   "release <tag>",
		Short: "Resolve the module and version bump a release tag asks for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := args[0]
			bump := ci.ParseVersionBump(tag)
			if bump == "" {
				return fmt.Errorf("tag %q does not end in -patch, -minor or -major", tag)
			}
			out := cmd.OutOrStdout()
			if len(modules) > 0 {
				name, ok := ci.ParseReleaseModule(tag, modules)
				if !ok {
					return fmt.Errorf("tag %q matches no module", tag)
				}
				fmt.Fprintf(out, "module=%s\npath=%s\n", name, modules[name])
			}
			fmt.Fprintf(out, "bump=%s\n", bump)
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&modules, "module", nil, "module name to path mapping, e.g. --module graphql=src/graphql")
	return cmd
}
