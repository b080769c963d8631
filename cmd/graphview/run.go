package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/comalice/graphview"
	"github.com/comalice/graphview/internal/script"
	"github.com/comalice/graphview/internal/ui"
)

func runCmd() *cobra.Command {
	var (
		scriptPath string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "run <scene.yaml>",
		Short: "Mount a scene, replay a gesture script and print the resulting graph",
		Example: "  graphview run scene.yaml --script drag.yaml\n" +
			"  graphview run scene.yaml -c graphview.toml",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root, err := graphview.LoadSceneFile(args[0])
			if err != nil {
				return err
			}
			var s *script.Script
			if scriptPath != "" {
				if s, err = script.LoadFile(scriptPath); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			commands := w
			if quiet {
				commands = io.Discard
			}
			log := cfg.Log.NewLogger(cmd.ErrOrStderr())
			session := uuid.NewString()

			var eng *graphview.Engine
			out, err := openSink(cmd.Context(), cfg, session, func(h graphview.Handle) string {
				return eng.Name(h)
			}, commands, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := out.close(); err != nil {
					log.Warn("closing renderer", "error", err)
				}
			}()

			eng = graphview.New(
				graphview.WithConfig(cfg),
				graphview.WithLogger(log),
				graphview.WithRenderer(out),
				graphview.WithSessionID(session),
			)

			ui.Banner(w, "session "+session)
			ui.Brand.Fprintf(w, "  mount %s\n", args[0])
			eng.Mount(root)
			out.flush()

			if s != nil {
				err := s.Run(eng, root, func(i int, st script.Step) {
					ui.Brand.Fprintf(w, "  %3d %s", i+1, st)
					ui.Subtle.Fprintf(w, " [%s]\n", eng.Gesture())
					out.flush()
				})
				if err != nil {
					return err
				}
			}

			fmt.Fprintln(w)
			printEntities(w, eng.Entities())
			printLeaks(w, eng)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "gesture script to replay after mounting")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print render commands")
	return cmd
}

func printEntities(w io.Writer, ents []graphview.Entity) {
	rows := make([][]string, 0, len(ents))
	for _, e := range ents {
		pos := "-"
		if e.Placed {
			pos = e.Position.String()
		}
		owner := e.Owner
		if owner == "" {
			owner = "-"
		}
		bound := e.BoundTo
		if bound == "" {
			bound = "-"
		}
		rows = append(rows, []string{e.ID, e.Kind, owner, pos, bound})
	}
	ui.Table(w, []string{"ID", "KIND", "OWNER", "POSITION", "BOUND"}, rows)
}

func printLeaks(w io.Writer, eng *graphview.Engine) {
	leaks := eng.CheckLeaks()
	if len(leaks) == 0 {
		fmt.Fprintf(w, "\n  %s no lifecycle leaks\n", ui.StatusIcon(true))
		return
	}
	fmt.Fprintf(w, "\n  %s %d lifecycle leaks:", ui.StatusIcon(false), len(leaks))
	for _, h := range leaks {
		fmt.Fprintf(w, " %s", eng.Name(h))
	}
	fmt.Fprintln(w)
}
