// Package client is a thin REST client for the genieblog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/genieblog/pkg/api"
)

// ErrNotFound matches 404 responses via errors.Is.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to a genieblog server.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// DefaultTimeout covers the slowest pipeline path (methodology plus compose).
const DefaultTimeout = 5 * time.Minute

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: DefaultTimeout},
	}
}

func (c *Client) GenerateBlog(ctx context.Context, topic string) (api.GenerateResult, error) {
	var out api.GenerateResult
	err := c.doJSON(ctx, http.MethodPost, "/api/generate-blog", api.GenerateRequest{Topic: topic}, &out)
	return out, err
}

func (c *Client) ListBlogs(ctx context.Context) ([]api.BlogSummary, error) {
	var out api.BlogList
	if err := c.doJSON(ctx, http.MethodGet, "/api/blogs", nil, &out); err != nil {
		return nil, err
	}
	return out.Blogs, nil
}

func (c *Client) GetBlog(ctx context.Context, id int64) (api.Blog, error) {
	var out api.Blog
	err := c.doJSON(ctx, http.MethodGet, blogPath(id), nil, &out)
	return out, err
}

func (c *Client) UpdateBlog(ctx context.Context, id int64, content string) error {
	var out api.StatusResponse
	return c.doJSON(ctx, http.MethodPut, blogPath(id), api.UpdateRequest{Content: content}, &out)
}

func (c *Client) DeleteBlog(ctx context.Context, id int64) error {
	var out api.StatusResponse
	return c.doJSON(ctx, http.MethodDelete, blogPath(id), nil, &out)
}

// DownloadBlog returns the Markdown body and the server's ETag.
func (c *Client) DownloadBlog(ctx context.Context, id int64) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, blogPath(id)+"/download", nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return b, strings.Trim(resp.Header.Get("ETag"), `"`), nil
}

// Progress notifies the server of a progress step.
func (c *Client) Progress(ctx context.Context, step string) error {
	var out api.ProgressAck
	return c.doJSON(ctx, http.MethodPost, "/api/progress/"+step, nil, &out)
}

func blogPath(id int64) string { return "/api/blogs/" + strconv.FormatInt(id, 10) }

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// do sends a request and converts non-2xx responses into *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Status: resp.StatusCode}
	var er api.ErrorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		apiErr.Message = er.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return nil, apiErr
}
