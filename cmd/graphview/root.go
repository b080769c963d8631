package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/comalice/graphview/internal/config"
	"github.com/comalice/graphview/internal/ui"
)

var version = "0.3.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "graphview",
	Short: "graphview: drive the node/edge diagram engine from the terminal",
	Long: ui.Brand.Sprint("graphview") + " mounts a YAML scene, replays gestures and shows the result\n" +
		ui.Subtle.Sprint("Render commands go to the terminal or to a socket.io canvas host"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("graphview {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file (defaults apply when empty)")

	rootCmd.AddCommand(
		runCmd(),
		dotCmd(),
		configCmd(),
	)
}

// Execute runs the root command until it finishes or the process is
// interrupted, and prints any error in color.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.Bad.Fprintf(rootCmd.ErrOrStderr(), "graphview: %v\n", err)
	}
	return err
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
