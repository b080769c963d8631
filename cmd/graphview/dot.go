package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/graphview"
	"github.com/comalice/graphview/internal/script"
)

func dotCmd() *cobra.Command {
	var scriptPath string

	cmd := &cobra.Command{
		Use:   "dot <scene.yaml>",
		Short: "Print the mounted graph as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root, err := graphview.LoadSceneFile(args[0])
			if err != nil {
				return err
			}

			eng := graphview.New(graphview.WithConfig(cfg), graphview.WithLogger(cfg.Log.NewLogger(cmd.ErrOrStderr())))
			eng.Mount(root)
			if scriptPath != "" {
				s, err := script.LoadFile(scriptPath)
				if err != nil {
					return err
				}
				if err := s.Run(eng, root, nil); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), eng.Visualize())
			return nil
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "gesture script to replay before exporting")
	return cmd
}
