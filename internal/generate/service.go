// Package generate runs the research to blog pipeline and stores the result.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mithrel/genieblog/internal/compose"
	"github.com/mithrel/genieblog/internal/db"
	"github.com/mithrel/genieblog/pkg/api"
)

var (
	ErrTopicRequired        = errors.New("Topic is required")
	ErrGapsUnavailable      = errors.New("Failed to fetch research gaps")
	ErrQuestionsUnavailable = errors.New("Failed to generate research questions")
)

// Researcher is the upstream research surface, satisfied by *research.Client.
type Researcher interface {
	ResearchGaps(ctx context.Context, topic string) (json.RawMessage, error)
	Questions(ctx context.Context, topic string, gaps api.GapSet) (json.RawMessage, error)
	Methodology(ctx context.Context, q api.QuestionSet) (json.RawMessage, error)
}

type Service struct {
	Research  Researcher
	Composer  compose.Composer
	Store     db.Store
	OutputDir string
	Log       *log.Logger
}

// Generate runs gaps, questions, methodology and composition for topic,
// stores the post and writes the research artifacts.
func (s *Service) Generate(ctx context.Context, topic string) (api.GenerateResult, error) {
	if strings.TrimSpace(topic) == "" {
		return api.GenerateResult{}, ErrTopicRequired
	}

	gapsRaw, err := s.Research.ResearchGaps(ctx, topic)
	if err != nil || isEmpty(gapsRaw) {
		s.logf("research gaps for %q: %v", topic, err)
		return api.GenerateResult{}, ErrGapsUnavailable
	}
	gaps, err := api.ParseGaps(gapsRaw)
	if err != nil {
		s.logf("decode research gaps for %q: %v", topic, err)
		return api.GenerateResult{}, ErrGapsUnavailable
	}

	questionsRaw, err := s.Research.Questions(ctx, topic, gaps)
	if err != nil || isEmpty(questionsRaw) {
		s.logf("research questions for %q: %v", topic, err)
		return api.GenerateResult{}, ErrQuestionsUnavailable
	}

	methodology := api.EmptyObject
	if q, err := api.ParseQuestions(questionsRaw); err == nil && q.Data != nil {
		if m, err := s.Research.Methodology(ctx, q); err == nil && !isEmpty(m) {
			methodology = m
		} else if err != nil {
			s.logf("methodology for %q: %v", topic, err)
		}
	}

	content, err := s.Composer.Compose(ctx, compose.Research{
		Topic:       topic,
		Gaps:        gapsRaw,
		Questions:   questionsRaw,
		Methodology: methodology,
	})
	if err != nil {
		return api.GenerateResult{}, fmt.Errorf("compose blog: %w", err)
	}

	blog, err := s.Store.CreateBlog(ctx, api.Blog{
		Topic:             topic,
		Content:           content,
		ResearchGaps:      gapsRaw,
		ResearchQuestions: questionsRaw,
		Methodology:       methodology,
	})
	if err != nil {
		return api.GenerateResult{}, fmt.Errorf("save blog: %w", err)
	}

	if err := s.writeArtifacts(topic, gapsRaw, methodology); err != nil {
		s.logf("write artifacts for %q: %v", topic, err)
	}

	return api.GenerateResult{
		Success:     true,
		BlogID:      blog.ID,
		Content:     content,
		Gaps:        gapsRaw,
		Questions:   questionsRaw,
		Methodology: methodology,
	}, nil
}

// ArtifactPaths returns the gaps and methodology file paths for topic.
func ArtifactPaths(dir, topic string) (gaps, methodology string) {
	safe := api.SafeTopic(topic)
	return filepath.Join(dir, safe+"_gaps.json"), filepath.Join(dir, safe+"_methodology.json")
}

func (s *Service) writeArtifacts(topic string, gaps, methodology json.RawMessage) error {
	if s.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return err
	}
	gp, mp := ArtifactPaths(s.OutputDir, topic)
	if err := writeJSON(gp, gaps); err != nil {
		return err
	}
	return writeJSON(mp, methodology)
}

func writeJSON(path string, raw json.RawMessage) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// isEmpty reports whether an upstream answer carries nothing usable.
func isEmpty(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return true
	}
	var m map[string]json.RawMessage
	if json.Unmarshal(t, &m) == nil {
		return len(m) == 0
	}
	return false
}

func (s *Service) logf(format string, args ...any) {
	if s.Log != nil {
		s.Log.Printf(format, args...)
	}
}
