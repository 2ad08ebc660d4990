package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/render"
)

func newRenderCmd() *cobra.Command {
	var engine string
	var document bool
	var title string
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render Markdown to HTML offline (stdin when no file)",
		Args:  cobra.MaximumNArgs(1),
		// Rendering needs no config or server.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			md, err := readInput(cmd, src)
			if err != nil {
				return err
			}
			eng, err := render.ParseEngine(engine)
			if err != nil {
				return err
			}
			var out string
			if document {
				out, err = render.Document(title, string(md), eng)
			} else {
				out, err = render.Fragment(string(md), eng)
			}
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			if err == nil && !document {
				_, err = fmt.Fprintln(cmd.OutOrStdout())
			}
			return err
		},
	}
	cmd.Flags().StringVar(&engine, "engine", string(render.EnginePreview), "preview|commonmark")
	cmd.Flags().BoolVar(&document, "document", false, "wrap the output in a full HTML page")
	cmd.Flags().StringVar(&title, "title", "", "page title for --document")
	return cmd
}
