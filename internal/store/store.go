// Package store persists saved articles to a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newshound/newshound/pkg/models"

	_ "modernc.org/sqlite"
)

const createArticlesTable = `
CREATE TABLE IF NOT EXISTS articles (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	url         TEXT NOT NULL,
	title       TEXT,
	byline      TEXT,
	site_name   TEXT,
	body        TEXT NOT NULL,
	markdown    TEXT,
	word_count  INTEGER NOT NULL,
	strategy    TEXT NOT NULL,
	retrieved_at TIMESTAMP NOT NULL,
	saved_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_articles_url ON articles(url);
`

// Store wraps the SQLite database connection.
type Store struct {
	conn *sql.DB
}

// Open creates the database (and its directory) if needed and initializes
// the schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := conn.Exec(createArticlesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create articles schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Save persists an article and returns its row ID.
func (s *Store) Save(art *models.Article) (int64, error) {
	res, err := s.conn.Exec(`
		INSERT INTO articles (url, title, byline, site_name, body, markdown, word_count, strategy, retrieved_at, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		art.URL, art.Title, art.Byline, art.SiteName, art.Body, art.Markdown,
		art.WordCount, string(art.Strategy), art.RetrievedAt, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("save article: %w", err)
	}
	return res.LastInsertId()
}

// Get returns one saved article by row ID.
func (s *Store) Get(id int64) (*models.SavedArticle, error) {
	row := s.conn.QueryRow(`
		SELECT id, url, title, byline, site_name, body, markdown, word_count, strategy, retrieved_at, saved_at
		FROM articles WHERE id = ?`, id)
	return scanSaved(row)
}

// List returns saved articles, most recent first.
func (s *Store) List(limit int) ([]models.SavedArticle, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(`
		SELECT id, url, title, byline, site_name, body, markdown, word_count, strategy, retrieved_at, saved_at
		FROM articles ORDER BY saved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []models.SavedArticle
	for rows.Next() {
		saved, err := scanSaved(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *saved)
	}
	return out, rows.Err()
}

// Delete removes a saved article.
func (s *Store) Delete(id int64) error {
	_, err := s.conn.Exec(`DELETE FROM articles WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaved(row rowScanner) (*models.SavedArticle, error) {
	var saved models.SavedArticle
	var strategy string
	err := row.Scan(
		&saved.ID,
		&saved.Article.URL,
		&saved.Article.Title,
		&saved.Article.Byline,
		&saved.Article.SiteName,
		&saved.Article.Body,
		&saved.Article.Markdown,
		&saved.Article.WordCount,
		&strategy,
		&saved.Article.RetrievedAt,
		&saved.SavedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}
	saved.Article.Strategy = models.StrategyID(strategy)
	return &saved, nil
}
