package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/genieblog/internal/db"
	"github.com/mithrel/genieblog/internal/generate"
	"github.com/mithrel/genieblog/internal/render"
	"github.com/mithrel/genieblog/pkg/api"
)

// maxBodyBytes caps JSON request bodies on the write endpoints.
const maxBodyBytes = 1 << 20

// Generator runs the blog pipeline, satisfied by *generate.Service.
type Generator interface {
	Generate(ctx context.Context, topic string) (api.GenerateResult, error)
}

// Server serves the blog REST API backed by a Store.
type Server struct {
	cfg   *viper.Viper
	store db.Store
	gen   Generator
	log   *log.Logger
}

func New(cfg *viper.Viper, store db.Store, gen Generator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, store: store, gen: gen, log: logger}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/generate-blog", s.auth(s.handleGenerate))
	mux.HandleFunc("GET /api/blogs", s.auth(s.handleList))
	mux.HandleFunc("GET /api/blogs/{id}", s.auth(s.handleGet))
	mux.HandleFunc("PUT /api/blogs/{id}", s.auth(s.handleUpdate))
	mux.HandleFunc("DELETE /api/blogs/{id}", s.auth(s.handleDelete))
	mux.HandleFunc("GET /api/blogs/{id}/download", s.auth(s.handleDownload))
	mux.HandleFunc("GET /api/blogs/{id}/preview", s.auth(s.handlePreview))
	mux.HandleFunc("POST /api/progress/{step}", s.auth(s.handleProgress))
	return mux
}

// auth enforces a bearer token when auth.token is configured.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(s.cfg.GetString("auth.token"))
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("Authorization")
		if !strings.HasPrefix(got, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(got, "Bearer ")) != tok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if !bodyTooLarge(w, err) {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
		}
		return
	}
	res, err := s.gen.Generate(r.Context(), req.Topic)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, generate.ErrTopicRequired):
		writeError(w, http.StatusBadRequest, generate.ErrTopicRequired.Error())
	case errors.Is(err, generate.ErrGapsUnavailable), errors.Is(err, generate.ErrQuestionsUnavailable):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.log.Printf("generate %q: %v", req.Topic, err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	blogs, err := s.store.ListBlogs(r.Context())
	if err != nil {
		s.log.Printf("list blogs: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list blogs")
		return
	}
	writeJSON(w, http.StatusOK, api.BlogList{Blogs: blogs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req api.UpdateRequest
	err := decodeJSON(w, r, &req)
	if bodyTooLarge(w, err) {
		return
	}
	if err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if err := s.store.UpdateContent(r.Context(), id, req.Content); err != nil {
		s.storeError(w, "update", id, err)
		return
	}
	writeJSON(w, http.StatusOK, api.StatusResponse{Success: true, Message: "Blog updated successfully"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteBlog(r.Context(), id); err != nil {
		s.storeError(w, "delete", id, err)
		return
	}
	writeJSON(w, http.StatusOK, api.StatusResponse{Success: true, Message: "Blog deleted successfully"})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	etag := `"` + b.Digest() + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": api.DownloadName(b.Topic)}))
	_, _ = w.Write([]byte(b.Content))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(render.Preview(b.Content)))
}

// handleProgress acknowledges a progress step. Nothing is recorded.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.ProgressAck{Status: "acknowledged", Step: r.PathValue("step")})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (api.Blog, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return api.Blog{}, false
	}
	b, err := s.store.GetBlog(r.Context(), id)
	if err != nil {
		s.storeError(w, "get", id, err)
		return api.Blog{}, false
	}
	return b, true
}

func (s *Server) storeError(w http.ResponseWriter, op string, id int64, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	s.log.Printf("%s blog %d: %v", op, id, err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := api.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// bodyTooLarge writes a 413 and reports true when err came from the body cap.
func bodyTooLarge(w http.ResponseWriter, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}
