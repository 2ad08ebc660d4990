package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/editor"
)

func newEditCmd() *cobra.Command {
	var fromFile string
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a blog's Markdown in $EDITOR",
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
			b, err := s.ctrl.Backend.GetBlog(ctx, id)
			if err != nil {
				return err
			}
			if err := s.ctrl.BeginEdit(ctx, id); err != nil {
				return err
			}

			var content string
			if fromFile != "" {
				data, err := readInput(cmd, fromFile)
				if err != nil {
					s.ctrl.CancelEdit()
					return err
				}
				content = string(data)
			} else {
				path, err := editor.PathForID(id)
				if err != nil {
					return err
				}
				final, changed, err := editor.OpenAt(path, []byte(editor.ComposeContent(id, b.Topic, s.view.EditContent)))
				if err != nil {
					s.ctrl.CancelEdit()
					return err
				}
				if !changed {
					s.ctrl.CancelEdit()
					fmt.Fprintln(cmd.ErrOrStderr(), "No changes.")
					return nil
				}
				content = editor.ParseEdited(string(final))
			}
			return s.ctrl.SaveEdit(ctx, content)
		},
	}
	cmd.Flags().StringVar(&fromFile, "file", "", "take the new Markdown from a file ('-' for stdin)")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
