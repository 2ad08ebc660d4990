package format

import (
	"io"
	"strings"

	"github.com/mithrel/genieblog/internal/render"
	"github.com/mithrel/genieblog/pkg/api"
)

// WriteMarkdownBlog writes the stored Markdown unchanged.
func WriteMarkdownBlog(w io.Writer, b api.Blog) error {
	content := b.Content
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, err := io.WriteString(w, content)
	return err
}

// WriteHTMLBlog writes a standalone HTML document for the blog.
func WriteHTMLBlog(w io.Writer, b api.Blog, engine render.Engine) error {
	doc, err := render.Document(b.Topic, b.Content, engine)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}
