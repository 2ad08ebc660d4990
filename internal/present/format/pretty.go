package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/genieblog/internal/render"
	"github.com/mithrel/genieblog/pkg/api"
)

// WritePrettyBlog renders a blog for the terminal with glamour.
func WritePrettyBlog(w io.Writer, b api.Blog, theme string, width int) error {
	md := fmt.Sprintf("> **ID:** %d | **Topic:** %s | **Created:** %s\n\n---\n\n%s\n",
		b.ID, b.Topic, created(b.CreatedAt), strings.TrimSpace(b.Content))
	out, err := render.Terminal(md, theme, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// WritePrettyBlogs renders the saved list as a Markdown table.
func WritePrettyBlogs(w io.Writer, blogs []api.BlogSummary, theme string, width int) error {
	var b strings.Builder
	b.WriteString("| ID | Topic | Created |\n|---:|---|---|\n")
	for _, s := range blogs {
		topic := strings.ReplaceAll(esc(s.Topic), "|", `\|`)
		fmt.Fprintf(&b, "| %d | %s | %s |\n", s.ID, topic, created(s.CreatedAt))
	}
	out, err := render.Terminal(b.String(), theme, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
