package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"cifcommon/internal/config"
)

func newArgsCmd() *cobra.Command {
	var (
		cfgPath   string
		group     string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "args",
		Short: "Normalize the argument mappings of a JSON document read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadArgsConfig(cfgPath)
			if err != nil {
				return err
			}
			tr, err := cfg.Transformer()
			if err != nil {
				return err
			}

			dec := json.NewDecoder(cmd.InOrStdin())
			dec.UseNumber()
			var doc any
			if err := dec.Decode(&doc); err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			if recursive {
				err = tr.TransformRecursive(doc)
			} else {
				err = tr.Transform(doc, group)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfgPath, "args-config", "args.yml", "transformer configuration (args_key, check_fields, pagination)")
	f.StringVar(&group, "group", "", "field group whose required arguments are added")
	f.BoolVar(&recursive, "recursive", false, "normalize every argument mapping in the document")
	cmd.MarkFlagsMutuallyExclusive("group", "recursive")
	return cmd
}
