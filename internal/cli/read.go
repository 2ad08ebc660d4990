package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/present"
	"github.com/mithrel/genieblog/internal/render"
)

func newReadCmd() *cobra.Command {
	var outputMode string
	var engine string
	cmd := &cobra.Command{
		Use:   "read [id]",
		Short: "Show a saved blog (defaults to the current one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			id, err := s.resolveID(args)
			if err != nil {
				return err
			}
			opts := present.Options{Theme: s.ctrl.State.Theme, Width: termWidth(cmd, cmd.OutOrStdout()), JSONIndent: true}
			if outputMode != "" {
				if opts.Mode, err = parseOutput(outputMode); err != nil {
					return err
				}
			} else if isTTY(cmd.OutOrStdout()) {
				opts.Mode = present.ModePretty
			} else {
				opts.Mode = present.ModeMarkdown
			}
			if opts.Engine, err = render.ParseEngine(firstNonEmpty(engine, getApp(cmd).Cfg.GetString("render.engine"))); err != nil {
				return err
			}
			return readBlog(cmd, s, id, opts)
		},
	}
	cmd.Flags().StringVar(&outputMode, "output", "", "output mode: pretty|markdown|html|json|plain|tui")
	cmd.Flags().StringVar(&engine, "engine", "", "HTML engine for --output html: preview|commonmark")
	registerOutputCompletion(cmd, "pretty", "markdown", "html", "json", "plain", "tui")
	return cmd
}

// readBlog shows a blog and makes it current. Pretty and Markdown output go
// through the controller; the other modes use the presenters directly.
func readBlog(cmd *cobra.Command, s *session, id int64, opts present.Options) error {
	ctx := cmd.Context()
	switch opts.Mode {
	case present.ModePretty, present.ModeMarkdown:
		if opts.Mode == present.ModePretty {
			s.useTerminalRender(cmd, cmd.OutOrStdout())
		} else {
			s.ctrl.Render = func(md string) string { return md }
		}
		err := withPager(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
			s.view.Out = w
			return s.ctrl.Read(ctx, id)
		})
		s.view.Out = cmd.OutOrStdout()
		if err != nil {
			return err
		}
	default:
		b, err := s.ctrl.Open(ctx, id)
		if err != nil {
			return err
		}
		if opts.Mode == present.ModeTUI {
			err = present.RenderBlog(ctx, cmd.OutOrStdout(), b, opts)
		} else {
			err = withPager(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderBlog(ctx, w, b, opts)
			})
		}
		if err != nil {
			return err
		}
	}
	return s.remember()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
