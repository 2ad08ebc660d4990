package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/genieblog/pkg/api"
)

// WriteJSON encodes v without HTML escaping so Markdown survives intact.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteNDJSONBlogs writes summaries as newline-delimited JSON objects.
func WriteNDJSONBlogs(w io.Writer, blogs []api.BlogSummary) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, b := range blogs {
		if err := enc.Encode(b); err != nil {
			return err
		}
	}
	return nil
}
