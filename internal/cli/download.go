package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/controller"
	"github.com/mithrel/genieblog/internal/present/format"
	"github.com/mithrel/genieblog/internal/render"
)

func newDownloadCmd() *cobra.Command {
	var out string
	var fileFormat string
	var engine string
	cmd := &cobra.Command{
		Use:   "download [id]",
		Short: "Save a blog as a Markdown or HTML file",
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
			ctx := cmd.Context()
			switch strings.ToLower(fileFormat) {
			case "md", "markdown":
				s.ctrl.State.CurrentID = id
				s.view.Path = out
				if err := s.ctrl.Download(ctx); err != nil {
					return err
				}
			case "html":
				eng, err := render.ParseEngine(firstNonEmpty(engine, getApp(cmd).Cfg.GetString("render.engine")))
				if err != nil {
					return err
				}
				b, err := s.ctrl.Open(ctx, id)
				if err != nil {
					return err
				}
				var sb strings.Builder
				if err := format.WriteHTMLBlog(&sb, b, eng); err != nil {
					return err
				}
				s.view.Path = out
				name := strings.TrimSuffix(controller.DownloadName(id), ".md") + ".html"
				if err := s.view.SaveFile(name, []byte(sb.String())); err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid --format: %s", fileFormat)
			}
			if s.view.SavedPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", s.view.SavedPath)
			}
			return s.remember()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "target file ('-' for stdout); default blog_<id>.<ext> in the current dir")
	cmd.Flags().StringVar(&fileFormat, "format", "md", "file format: md|html")
	cmd.Flags().StringVar(&engine, "engine", "", "HTML engine: preview|commonmark")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"md", "html"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
