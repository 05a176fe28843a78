// Package search provides full-text title search for the tools catalog
// using Bleve. Matching is substring-based and case-insensitive, so a
// query like "gpt" finds "ChatGPT Helper".
package search

import (
	"strings"

	"github.com/aiportalapp/aiportal-server/internal/domain"
)

// ToolDocument is the document structure for the Bleve index.
type ToolDocument struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
}

// DocumentFromTool builds a ToolDocument from a catalog tool.
func DocumentFromTool(tool *domain.Tool) *ToolDocument {
	return &ToolDocument{
		ID:         tool.ID,
		Title:      tool.Title,
		Categories: tool.Category,
	}
}

// ToMap converts the document to a map so field names match the index
// mapping exactly. title_exact carries the pre-lowered title for the
// keyword field that substring queries run against.
func (d *ToolDocument) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":          d.ID,
		"title":       d.Title,
		"title_exact": strings.ToLower(d.Title),
		"categories":  d.Categories,
	}
}
