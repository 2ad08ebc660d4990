package api

import (
	"encoding/json"
	"time"
)

// Blog is a stored post together with the research it was built from.
// The research payloads are kept as the upstream services returned them.
type Blog struct {
	ID                int64           `json:"id"`
	Topic             string          `json:"topic"`
	Content           string          `json:"content"`
	ResearchGaps      json.RawMessage `json:"research_gaps"`
	ResearchQuestions json.RawMessage `json:"research_questions"`
	Methodology       json.RawMessage `json:"methodology"`
	CreatedAt         time.Time       `json:"created_at"`
}

// BlogSummary is a row of the saved blogs list.
type BlogSummary struct {
	ID        int64     `json:"id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

type BlogList struct {
	Blogs []BlogSummary `json:"blogs"`
}

type GenerateRequest struct {
	Topic string `json:"topic"`
}

// GenerateResult is returned by the generate endpoint.
type GenerateResult struct {
	Success     bool            `json:"success"`
	BlogID      int64           `json:"blog_id"`
	Content     string          `json:"content"`
	Gaps        json.RawMessage `json:"gaps"`
	Questions   json.RawMessage `json:"questions"`
	Methodology json.RawMessage `json:"methodology"`
}

type UpdateRequest struct {
	Content string `json:"content"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ProgressAck struct {
	Status string `json:"status"`
	Step   string `json:"step"`
}

// Gap is a single research gap scored 1-100.
type Gap struct {
	Statement string `json:"statement"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning,omitempty"`
}

type GapSet struct {
	Gaps    []Gap  `json:"gaps"`
	Message string `json:"message,omitempty"`
}

type QuestionData struct {
	MainQuestion string   `json:"main_question"`
	SubQuestions []string `json:"sub_questions"`
}

type QuestionSet struct {
	Data *QuestionData `json:"data,omitempty"`
}

// EmptyObject is stored when an optional research step produced nothing.
var EmptyObject = json.RawMessage(`{}`)

// ParseGaps decodes a research gaps payload. Empty input yields an empty set.
func ParseGaps(raw json.RawMessage) (GapSet, error) {
	var g GapSet
	if len(raw) == 0 {
		return g, nil
	}
	err := json.Unmarshal(raw, &g)
	return g, err
}

// ParseQuestions decodes a research questions payload.
func ParseQuestions(raw json.RawMessage) (QuestionSet, error) {
	var q QuestionSet
	if len(raw) == 0 {
		return q, nil
	}
	err := json.Unmarshal(raw, &q)
	return q, err
}
