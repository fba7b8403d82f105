package main

import (
	"github.com/spf13/cobra"

	"cifcommon/internal/config"
	"cifcommon/internal/logging"
)

func newRootCmd() *cobra.Command {
	var settingsPath string

	root := &cobra.Command{
		Use:           "cif",
		Short:         "Build driver and GraphQL argument tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&settingsPath, "config", "cif.yml", "settings file (CIF_* variables override it)")

	load := func(cmd *cobra.Command) (config.Settings, error) {
		s, err := config.LoadSettings(settingsPath)
		if err != nil {
			return s, err
		}
		if s.LogLevel != "" || s.LogJSON {
			logging.Configure(logging.Options{Level: s.LogLevel, JSON: s.LogJSON, Writer: cmd.ErrOrStderr()})
		}
		return s, nil
	}

	root.AddCommand(
		newBuildCmd(load),
		newAuditCmd(load),
		newPackagesCmd(),
		newReleaseCmd(),
		newArgsCmd(),
	)
	return root
}

type settingsLoader func(cmd *cobra.Command) (config.Settings, error)
