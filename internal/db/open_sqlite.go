package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/genieblog/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) CreateBlog(ctx context.Context, b api.Blog) (api.Blog, error) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.ResearchGaps = orEmptyObject(b.ResearchGaps)
	b.ResearchQuestions = orEmptyObject(b.ResearchQuestions)
	b.Methodology = orEmptyObject(b.Methodology)

	res, err := s.db.ExecContext(ctx, `INSERT INTO blogs(topic, content, research_gaps, research_questions, methodology, created_at) VALUES(?,?,?,?,?,?)`,
		b.Topic, b.Content, string(b.ResearchGaps), string(b.ResearchQuestions), string(b.Methodology), b.CreatedAt)
	if err != nil {
		return api.Blog{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return api.Blog{}, err
	}
	b.ID = id
	return b, nil
}

func (s *sqliteStore) GetBlog(ctx context.Context, id int64) (api.Blog, error) {
	var b api.Blog
	var gaps, questions, methodology sql.NullString
	row := s.db.QueryRowContext(ctx, `SELECT id, topic, content, research_gaps, research_questions, methodology, created_at FROM blogs WHERE id=?`, id)
	if err := row.Scan(&b.ID, &b.Topic, &b.Content, &gaps, &questions, &methodology, &b.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return api.Blog{}, ErrNotFound
		}
		return api.Blog{}, err
	}
	b.ResearchGaps = orEmptyObject([]byte(gaps.String))
	b.ResearchQuestions = orEmptyObject([]byte(questions.String))
	b.Methodology = orEmptyObject([]byte(methodology.String))
	return b, nil
}

func (s *sqliteStore) ListBlogs(ctx context.Context) ([]api.BlogSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, topic, created_at FROM blogs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []api.BlogSummary{}
	for rows.Next() {
		var b api.BlogSummary
		if err := rows.Scan(&b.ID, &b.Topic, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *sqliteStore) UpdateContent(ctx context.Context, id int64, content string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE blogs SET content=? WHERE id=?`, content, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) DeleteBlog(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (*sqliteStore, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteStore{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS blogs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  topic TEXT NOT NULL,
  content TEXT NOT NULL,
  research_gaps TEXT,
  research_questions TEXT,
  methodology TEXT,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_blogs_created ON blogs(created_at DESC, id DESC);
`)
	return err
}
