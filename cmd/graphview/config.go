package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/graphview/internal/config"
	"github.com/comalice/graphview/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long:  "Print the effective configuration as TOML.\nWithout --config this is the built-in default, a good starting file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return cfg.Write(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(configCheckCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.toml>",
		Short: "Validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if _, err := config.Load(args[0]); err != nil {
				fmt.Fprintf(w, "  %s %s\n", ui.StatusIcon(false), args[0])
				return err
			}
			fmt.Fprintf(w, "  %s %s\n", ui.StatusIcon(true), args[0])
			return nil
		},
	}
}
