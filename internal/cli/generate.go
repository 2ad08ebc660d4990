package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/generate"
	"github.com/mithrel/genieblog/internal/present/tui"
)

func newGenerateCmd() *cobra.Command {
	var noTUI bool
	var quiet bool
	cmd := &cobra.Command{
		Use:   "generate <topic...>",
		Short: "Research a topic and write a blog post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.TrimSpace(strings.Join(args, " "))
			if topic == "" {
				return generate.ErrTopicRequired
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			s.useTerminalRender(cmd, cmd.OutOrStdout())
			s.view.Quiet = quiet

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var ui *tui.ProgressUI
			if !noTUI && !quiet && isTTY(cmd.ErrOrStderr()) {
				ui = tui.StartProgress(ctx, topic, os.Stdin, cmd.ErrOrStderr(), cancel)
				s.view.Progress = ui
			}
			genErr := s.ctrl.Generate(ctx, topic)
			if ui != nil {
				ui.Stop(genErr)
				s.view.Progress = nil
			}
			if genErr != nil {
				if s.view.LastError != "" {
					return errors.New(s.view.LastError)
				}
				return genErr
			}
			// the controller reveals the post only after the progress view is gone
			s.view.ShowBlog()
			if err := s.remember(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved as blog %d\n", s.ctrl.State.CurrentID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "print plain progress lines instead of the live view")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}
