// Package compose turns collected research into a Markdown blog post.
package compose

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
)

// Research is everything the pipeline gathered for a topic.
type Research struct {
	Topic       string
	Gaps        json.RawMessage
	Questions   json.RawMessage
	Methodology json.RawMessage
}

// Composer writes a post from research.
type Composer interface {
	Compose(ctx context.Context, r Research) (string, error)
}

type fallback struct {
	primary  Composer
	fallback Composer
	log      *log.Logger
}

// WithFallback returns a Composer that tries primary and falls back on any
// error. A nil primary always uses fallback.
func WithFallback(primary, fb Composer, logger *log.Logger) Composer {
	if primary == nil {
		return fb
	}
	return &fallback{primary: primary, fallback: fb, log: logger}
}

func (f *fallback) Compose(ctx context.Context, r Research) (string, error) {
	out, err := f.primary.Compose(ctx, r)
	if err == nil {
		return out, nil
	}
	if f.log != nil {
		f.log.Printf("compose: primary failed for %q, using fallback: %v", r.Topic, err)
	}
	return f.fallback.Compose(ctx, r)
}

// indented pretty prints raw JSON with two spaces, or "{}" when empty.
func indented(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
