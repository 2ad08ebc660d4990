package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/present"
	"github.com/mithrel/genieblog/internal/util"
)

func newListCmd() *cobra.Command {
	var outputMode string
	var match string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved blogs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseOutput(outputMode)
			if err != nil {
				return err
			}
			if mode == present.ModeHTML || mode == present.ModeMarkdown {
				return fmt.Errorf("invalid --output for list: %s", outputMode)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			blogs, err := s.ctrl.Backend.ListBlogs(cmd.Context())
			if err != nil {
				return err
			}
			if match != "" {
				blogs = util.MatchTopics(match, blogs)
			}
			if len(blogs) == 0 && (mode == present.ModePlain || mode == present.ModeTUI) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No saved blogs yet")
				return nil
			}
			opts := present.Options{
				Mode:    mode,
				Headers: !noHeaders,
				Theme:   s.ctrl.State.Theme,
				Width:   termWidth(cmd, cmd.OutOrStdout()),
			}
			if mode == present.ModeTUI {
				id, err := present.RenderBlogs(cmd.Context(), cmd.OutOrStdout(), blogs, opts)
				if err != nil || id == 0 {
					return err
				}
				return readBlog(cmd, s, id, present.Options{Mode: present.ModeTUI, Theme: opts.Theme, Width: opts.Width})
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				_, err := present.RenderBlogs(cmd.Context(), w, blogs, opts)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&outputMode, "output", "plain", "output mode: plain|pretty|json|ndjson|tui")
	cmd.Flags().StringVar(&match, "match", "", "fuzzy filter on topic")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputCompletion(cmd, "plain", "pretty", "json", "ndjson", "tui")
	return cmd
}
