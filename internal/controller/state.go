package controller

import (
	"encoding/json"

	"github.com/mithrel/genieblog/pkg/api"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Current is the blog on screen together with the research behind it.
type Current struct {
	Content     string
	Gaps        json.RawMessage
	Questions   json.RawMessage
	Methodology json.RawMessage
}

func currentFromBlog(b api.Blog) *Current {
	return &Current{
		Content:     b.Content,
		Gaps:        b.ResearchGaps,
		Questions:   b.ResearchQuestions,
		Methodology: b.Methodology,
	}
}

func currentFromResult(r api.GenerateResult) *Current {
	return &Current{
		Content:     r.Content,
		Gaps:        r.Gaps,
		Questions:   r.Questions,
		Methodology: r.Methodology,
	}
}

// State is the page state shared by all controller operations. Zero ids
// mean "none".
type State struct {
	CurrentID     int64
	Current       *Current
	Theme         string
	PendingDelete int64
	EditingID     int64
}

// NormalizeTheme maps anything but "light" to dark.
func NormalizeTheme(t string) string {
	if t == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}
