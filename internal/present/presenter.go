package present

import (
	"context"
	"fmt"
	"io"

	"github.com/mithrel/genieblog/internal/present/format"
	"github.com/mithrel/genieblog/internal/present/tui"
	"github.com/mithrel/genieblog/internal/render"
	"github.com/mithrel/genieblog/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeHTML
	ModeMarkdown
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Theme      string
	Width      int
	Engine     render.Engine
}

// ParseMode parses "plain", "pretty", "json", "ndjson", "html", "markdown" or "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "html":
		return ModeHTML, true
	case "markdown", "md":
		return ModeMarkdown, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// RenderBlogs renders the saved list. In TUI mode it returns the id picked
// by the user, 0 otherwise.
func RenderBlogs(ctx context.Context, w io.Writer, blogs []api.BlogSummary, opts Options) (int64, error) {
	switch opts.Mode {
	case ModeJSON:
		if blogs == nil {
			blogs = []api.BlogSummary{}
		}
		return 0, format.WriteJSON(w, api.BlogList{Blogs: blogs}, opts.JSONIndent)
	case ModeNDJSON:
		return 0, format.WriteNDJSONBlogs(w, blogs)
	case ModePretty:
		return 0, format.WritePrettyBlogs(w, blogs, opts.Theme, opts.Width)
	case ModeTUI:
		return tui.PickBlog(blogs)
	case ModeHTML, ModeMarkdown:
		return 0, fmt.Errorf("output mode not supported for lists")
	default:
		return 0, format.WritePlainBlogs(w, blogs, opts.Headers)
	}
}

// RenderBlog renders a single blog according to options.
func RenderBlog(ctx context.Context, w io.Writer, b api.Blog, opts Options) error {
	switch opts.Mode {
	case ModeJSON, ModeNDJSON:
		return format.WriteJSON(w, b, opts.JSONIndent && opts.Mode == ModeJSON)
	case ModePretty:
		return format.WritePrettyBlog(w, b, opts.Theme, opts.Width)
	case ModeHTML:
		return format.WriteHTMLBlog(w, b, opts.Engine)
	case ModeMarkdown:
		return format.WriteMarkdownBlog(w, b)
	case ModeTUI:
		out, err := render.Terminal(b.Content, opts.Theme, opts.Width)
		if err != nil {
			return err
		}
		return tui.Read(b.Topic, out)
	default:
		return format.WritePlainBlog(w, b)
	}
}
