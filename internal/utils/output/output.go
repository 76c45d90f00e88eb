// Package output writes retrieved articles to files in several formats.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/newshound/newshound/pkg/models"
)

// Save writes the article to path, picking the format from the file
// extension: .json, .md, or anything else as plain text.
func Save(art *models.Article, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(art, path)
	case ".md", ".markdown":
		return SaveMarkdown(art, path)
	default:
		return SaveText(art, path)
	}
}

// SaveJSON writes an indented JSON export of the article.
func SaveJSON(art *models.Article, path string) error {
	content, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// SaveMarkdown writes the article's markdown rendering with a small
// metadata header.
func SaveMarkdown(art *models.Article, path string) error {
	var b strings.Builder
	if art.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", art.Title)
	}
	if art.Byline != "" {
		fmt.Fprintf(&b, "*%s*\n\n", art.Byline)
	}
	fmt.Fprintf(&b, "<%s>\n\n", art.URL)
	body := art.Markdown
	if body == "" {
		body = art.Body
	}
	b.WriteString(body)
	b.WriteString("\n")
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// SaveText writes the plain article text.
func SaveText(art *models.Article, path string) error {
	var b strings.Builder
	if art.Title != "" {
		b.WriteString(art.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(art.Body)
	b.WriteString("\n")
	return os.WriteFile(path, []byte(b.String()), 0644)
}
