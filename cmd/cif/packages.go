package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cifcommon/internal/ci"
)

func newPackagesCmd() *cobra.Command {
	var ignore []string

	cmd := &cobra.Command{
		Use:   "packages [root]",
		Short: "List directories holding a package.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			found, err := ci.FindPackages(root, ignore...)
			if err != nil {
				return err
			}
			for _, dir := range found {
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "directory names to skip (default node_modules,@adobe)")
	return cmd
}
