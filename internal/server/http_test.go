package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/genieblog/internal/db"
	"github.com/mithrel/genieblog/internal/generate"
	"github.com/mithrel/genieblog/pkg/api"
)

type fakeGen struct {
	store db.Store
	err   error
}

func (f *fakeGen) Generate(ctx context.Context, topic string) (api.GenerateResult, error) {
	if f.err != nil {
		return api.GenerateResult{}, f.err
	}
	if strings.TrimSpace(topic) == "" {
		return api.GenerateResult{}, generate.ErrTopicRequired
	}
	b, err := f.store.CreateBlog(ctx, api.Blog{Topic: topic, Content: "# " + topic})
	if err != nil {
		return api.GenerateResult{}, err
	}
	return api.GenerateResult{Success: true, BlogID: b.ID, Content: b.Content}, nil
}

func newTestServer(t *testing.T, token string) (*httptest.Server, db.Store, *fakeGen) {
	t.Helper()
	st, err := db.Open(context.Background(), "mem://")
	require.NoError(t, err)
	cfg := viper.New()
	cfg.Set("auth.token", token)
	gen := &fakeGen{store: st}
	srv := httptest.NewServer(New(cfg, st, gen, log.New(io.Discard, "", 0)).Router())
	t.Cleanup(func() {
		srv.Close()
		_ = st.Close()
	})
	return srv, st, gen
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestGenerateAndRead(t *testing.T) {
	srv, _, _ := newTestServer(t, "")

	resp := do(t, http.MethodPost, srv.URL+"/api/generate-blog", `{"topic":"tidal energy"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeBody[api.GenerateResult](t, resp)
	assert.True(t, res.Success)

	resp = do(t, http.MethodGet, srv.URL+"/api/blogs", "")
	list := decodeBody[api.BlogList](t, resp)
	require.Len(t, list.Blogs, 1)
	assert.Equal(t, "tidal energy", list.Blogs[0].Topic)

	resp = do(t, http.MethodGet, srv.URL+"/api/blogs/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b := decodeBody[api.Blog](t, resp)
	assert.Equal(t, "# tidal energy", b.Content)
	assert.JSONEq(t, `{}`, string(b.Methodology))
}

func TestGenerateErrors(t *testing.T) {
	srv, _, gen := newTestServer(t, "")

	resp := do(t, http.MethodPost, srv.URL+"/api/generate-blog", `{"topic":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Topic is required", decodeBody[api.ErrorResponse](t, resp).Error)

	gen.err = generate.ErrGapsUnavailable
	resp = do(t, http.MethodPost, srv.URL+"/api/generate-blog", `{"topic":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to fetch research gaps", decodeBody[api.ErrorResponse](t, resp).Error)

	gen.err = errors.New("disk full")
	resp = do(t, http.MethodPost, srv.URL+"/api/generate-blog", `{"topic":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "disk full", decodeBody[api.ErrorResponse](t, resp).Error)
}

func TestUpdateAndDelete(t *testing.T) {
	srv, st, _ := newTestServer(t, "")
	b, err := st.CreateBlog(context.Background(), api.Blog{Topic: "t", Content: "old"})
	require.NoError(t, err)

	resp := do(t, http.MethodPut, srv.URL+"/api/blogs/1", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Content is required", decodeBody[api.ErrorResponse](t, resp).Error)

	resp = do(t, http.MethodPut, srv.URL+"/api/blogs/99", `{"content":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Blog not found", decodeBody[api.ErrorResponse](t, resp).Error)

	resp = do(t, http.MethodPut, srv.URL+"/api/blogs/1", `{"content":"new"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.StatusResponse{Success: true, Message: "Blog updated successfully"}, decodeBody[api.StatusResponse](t, resp))
	got, _ := st.GetBlog(context.Background(), b.ID)
	assert.Equal(t, "new", got.Content)

	resp = do(t, http.MethodDelete, srv.URL+"/api/blogs/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Blog deleted successfully", decodeBody[api.StatusResponse](t, resp).Message)

	resp = do(t, http.MethodDelete, srv.URL+"/api/blogs/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/blogs/abc", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDownloadAndPreview(t *testing.T) {
	srv, st, _ := newTestServer(t, "")
	b, err := st.CreateBlog(context.Background(), api.Blog{Topic: "deep sea mining", Content: "# Title\n**bold**"})
	require.NoError(t, err)

	resp := do(t, http.MethodGet, srv.URL+"/api/blogs/1/download", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/markdown; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=deep_sea_mining_blog.md`, resp.Header.Get("Content-Disposition"))
	etag := resp.Header.Get("ETag")
	assert.Equal(t, `"`+b.Digest()+`"`, etag)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, b.Content, string(body))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/blogs/1/download", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp2.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/blogs/1/preview", "")
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "<p><h1>Title</h1><br><strong>bold</strong></p>", string(body))
}

func TestWriteBodiesAreCapped(t *testing.T) {
	srv, st, _ := newTestServer(t, "")
	_, err := st.CreateBlog(context.Background(), api.Blog{Topic: "t", Content: "old"})
	require.NoError(t, err)

	huge := strings.Repeat("[", maxBodyBytes+1)
	resp := do(t, http.MethodPut, srv.URL+"/api/blogs/1", `{"content":"`+huge+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "Request body too large", decodeBody[api.ErrorResponse](t, resp).Error)

	resp = do(t, http.MethodPost, srv.URL+"/api/generate-blog", `{"topic":"`+huge+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	got, _ := st.GetBlog(context.Background(), 1)
	assert.Equal(t, "old", got.Content)
}

func TestPreviewOfBracketFloodIsFast(t *testing.T) {
	srv, _, _ := newTestServer(t, "")
	resp := do(t, http.MethodPost, srv.URL+"/api/generate-blog", `{"topic":"x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	flood := strings.Repeat("[", 20000)
	resp = do(t, http.MethodPut, srv.URL+"/api/blogs/1", `{"content":"`+flood+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	start := time.Now()
	resp = do(t, http.MethodGet, srv.URL+"/api/blogs/1/preview", "")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<p>"+flood+"</p>", string(body))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestProgressAndHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, "")
	resp := do(t, http.MethodPost, srv.URL+"/api/progress/step2", "")
	assert.Equal(t, api.ProgressAck{Status: "acknowledged", Step: "step2"}, decodeBody[api.ProgressAck](t, resp))

	resp = do(t, http.MethodGet, srv.URL+"/healthz", "")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
}

func TestBearerAuth(t *testing.T) {
	srv, _, _ := newTestServer(t, "s3cret")

	resp := do(t, http.MethodGet, srv.URL+"/api/blogs", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/blogs", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	ok, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	st, _ := db.Open(context.Background(), "mem://")
	s := New(viper.New(), st, &fakeGen{store: st}, log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ServeOptions{Addr: "127.0.0.1:0"}) }()
	cancel()
	assert.NoError(t, <-done)
}

func TestBuildFileTLSRequiresBoth(t *testing.T) {
	_, err := BuildFileTLS("cert.pem", "")
	assert.Error(t, err)
	_, _, err = BuildCertMagicTLS(context.Background(), CertMagicConfig{})
	assert.Error(t, err)
}
