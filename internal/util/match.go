package util

import (
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/genieblog/pkg/api"
)

type topics []api.BlogSummary

func (t topics) String(i int) string { return t[i].Topic }
func (t topics) Len() int            { return len(t) }

// MatchTopics keeps blogs whose topic fuzzy-matches query, best match first.
// An empty query returns blogs unchanged.
func MatchTopics(query string, blogs []api.BlogSummary) []api.BlogSummary {
	if query == "" {
		return blogs
	}
	matches := fuzzy.FindFrom(query, topics(blogs))
	out := make([]api.BlogSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, blogs[m.Index])
	}
	return out
}
