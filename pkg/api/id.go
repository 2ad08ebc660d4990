package api

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseID parses a blog id from user input. Only positive integers are valid.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid blog id %q", s)
	}
	return id, nil
}

// DownloadName is the attachment name the server uses for a blog's Markdown.
func DownloadName(topic string) string {
	return strings.ReplaceAll(topic, " ", "_") + "_blog.md"
}

// SafeTopic reduces a topic to letters, digits, '-', '_' and spaces, trims
// it, and turns the spaces into underscores. Used for artifact file names.
func SafeTopic(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}
