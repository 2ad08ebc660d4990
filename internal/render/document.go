package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Engine selects how Markdown becomes HTML.
type Engine string

const (
	// EnginePreview is the inline preview renderer used by the web page.
	EnginePreview Engine = "preview"
	// EngineCommonMark renders through goldmark with GFM extensions.
	EngineCommonMark Engine = "commonmark"
)

// ErrUnknownEngine is returned by ParseEngine for unsupported names.
var ErrUnknownEngine = errors.New("unknown render engine")

// ParseEngine parses "preview" or "commonmark" (case-insensitive).
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(s))) {
	case EnginePreview, "":
		return EnginePreview, nil
	case EngineCommonMark:
		return EngineCommonMark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, s)
	}
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

var commonMark = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		gmhtml.WithHardWraps(),
		gmhtml.WithXHTML(),
	),
)

// Fragment renders md with the selected engine.
func Fragment(md string, engine Engine) (string, error) {
	switch engine {
	case EngineCommonMark:
		var buf bytes.Buffer
		if err := commonMark.Convert([]byte(md), &buf); err != nil {
			return "", fmt.Errorf("commonmark conversion: %w", err)
		}
		return buf.String(), nil
	case EnginePreview, "":
		return Preview(md), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// Document renders md as a standalone HTML5 page titled title.
func Document(title, md string, engine Engine) (string, error) {
	body, err := Fragment(md, engine)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), body), nil
}
