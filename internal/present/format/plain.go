package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/genieblog/pkg/api"
)

const timeLayout = "2006-01-02 15:04"

// TSV columns: id, topic, created
var headerLine = "id\ttopic\tcreated\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func created(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func WritePlainBlogs(w io.Writer, blogs []api.BlogSummary, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, b := range blogs {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", b.ID, esc(b.Topic), created(b.CreatedAt))
	}
	return tw.Flush()
}

// WritePlainBlog prints a header block followed by the raw Markdown.
func WritePlainBlog(w io.Writer, b api.Blog) error {
	_, err := fmt.Fprintf(w, "ID: %d\nTopic: %s\nCreated: %s\n---\n%s\n",
		b.ID, b.Topic, created(b.CreatedAt), strings.TrimRight(b.Content, "\n"))
	return err
}
