package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mithrel/genieblog/pkg/api"
)

type memStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]api.Blog
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, byID: make(map[int64]api.Blog)}
}

func (m *memStore) CreateBlog(ctx context.Context, b api.Blog) (api.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.ResearchGaps = orEmptyObject(b.ResearchGaps)
	b.ResearchQuestions = orEmptyObject(b.ResearchQuestions)
	b.Methodology = orEmptyObject(b.Methodology)
	b.ID = m.nextID
	m.nextID++
	m.byID[b.ID] = b
	return b, nil
}

func (m *memStore) GetBlog(ctx context.Context, id int64) (api.Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.byID[id]
	if !ok {
		return api.Blog{}, ErrNotFound
	}
	return b, nil
}

func (m *memStore) ListBlogs(ctx context.Context) ([]api.BlogSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.BlogSummary, 0, len(m.byID))
	for _, b := range m.byID {
		out = append(out, api.BlogSummary{ID: b.ID, Topic: b.Topic, CreatedAt: b.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) UpdateContent(ctx context.Context, id int64, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	b.Content = content
	m.byID[id] = b
	return nil
}

func (m *memStore) DeleteBlog(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStore) Close() error { return nil }
