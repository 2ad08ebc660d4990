// Package research talks to the upstream services that feed a blog: the
// research gap finder, the question generator and the methodology analyser.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mithrel/genieblog/pkg/api"
)

const (
	DefaultTimeout            = 20 * time.Second
	DefaultMethodologyTimeout = 60 * time.Second
)

// ErrNoGaps means there is nothing to derive questions from.
var ErrNoGaps = errors.New("no research gaps")

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Status)
}

// Endpoints locates the upstream services.
type Endpoints struct {
	GapsURL        string
	QuestionsURL   string
	MethodologyURL string
}

// Client calls the upstream research services.
type Client struct {
	HTTP               *http.Client
	Endpoints          Endpoints
	Timeout            time.Duration
	MethodologyTimeout time.Duration
}

func New(ep Endpoints) *Client {
	return &Client{
		HTTP:               http.DefaultClient,
		Endpoints:          ep,
		Timeout:            DefaultTimeout,
		MethodologyTimeout: DefaultMethodologyTimeout,
	}
}

// ResearchGaps asks the gap finder about topic and returns its raw JSON.
func (c *Client) ResearchGaps(ctx context.Context, topic string) (json.RawMessage, error) {
	u, err := withQuery(c.Endpoints.GapsURL, "query", topic)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, u, nil, c.Timeout)
}

type gapPayload struct {
	GapID       string `json:"gap_id"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Questions turns research gaps into a main question and sub questions.
func (c *Client) Questions(ctx context.Context, topic string, gaps api.GapSet) (json.RawMessage, error) {
	if len(gaps.Gaps) == 0 {
		return nil, ErrNoGaps
	}
	payload := make([]gapPayload, 0, len(gaps.Gaps))
	for i, g := range gaps.Gaps {
		payload = append(payload, gapPayload{
			GapID:       fmt.Sprintf("gap_%d", i+1),
			Description: g.Statement,
			Category:    "methodological_gap",
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	u, err := withQuery(c.Endpoints.QuestionsURL, "topic", topic)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, u, body, c.Timeout)
}

// Methodology asks the methodology analyser how to study the questions.
func (c *Client) Methodology(ctx context.Context, q api.QuestionSet) (json.RawMessage, error) {
	if q.Data == nil {
		return nil, errors.New("questions payload has no data")
	}
	if err := ValidateQuestions(*q.Data); err != nil {
		return nil, err
	}
	body, err := json.Marshal(q.Data)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, c.Endpoints.MethodologyURL, body, c.MethodologyTimeout)
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, timeout time.Duration) (json.RawMessage, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("%s: response is not valid JSON", u)
	}
	return json.RawMessage(b), nil
}

func withQuery(base, key, value string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("bad endpoint %q: %w", base, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
