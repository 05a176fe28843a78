package assistant

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"slices"
	"strings"

	"github.com/aiportalapp/aiportal-server/internal/domain"
)

// catalogEntry is the shape each tool takes inside the system message.
type catalogEntry struct {
	Title       string   `json:"title"`
	Category    []string `json:"category"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	LikesCount  int      `json:"likesCount"`
}

// BuildSystemMessage renders the assistant persona with the full tool
// catalog embedded, so the model can only recommend tools that exist.
// Output is deterministic for a given catalog: entries keep their input
// order and the category overview is sorted by label.
func BuildSystemMessage(tools []domain.Tool) string {
	entries := make([]catalogEntry, 0, len(tools))
	for i := range tools {
		t := &tools[i]
		entries = append(entries, catalogEntry{
			Title:       t.Title,
			Category:    t.Category,
			Description: t.Caption,
			Link:        t.Link,
			LikesCount:  t.LikesCount,
		})
	}

	catalogJSON, err := json.Marshal(entries, jsontext.WithIndent("  "))
	if err != nil {
		catalogJSON = []byte("[]")
	}

	return fmt.Sprintf(`You are AIPortal Assistant, a knowledgeable AI companion specializing in helping users discover and understand AI tools.

Available Tools in our catalog:
%s

Categories Overview:
%s

Your main functions include:
1. Finding and recommending specific AI tools from our catalog based on user needs
2. Explaining how our listed tools work
3. Making personalized tool recommendations from our catalog
4. Answering questions about AI technology
5. Providing insights about AI trends and best practices

When recommending tools:
- Only recommend tools that exist in our catalog
- Include tool names exactly as they appear in the catalog
- Mention relevant categories when appropriate
- Consider tools' like counts as a popularity indicator
- Include the tool's link when making specific recommendations

You are friendly, professional, and always aim to provide practical, accurate information about our AI tools and technologies. When users ask about specific tasks or needs, prioritize recommending relevant tools from our catalog.`,
		catalogJSON, categoriesOverview(tools))
}

// categoriesOverview groups tool titles by category label, one line per
// category, sorted by label for stable output.
func categoriesOverview(tools []domain.Tool) string {
	grouped := make(map[string][]string)
	for i := range tools {
		for _, label := range tools[i].Category {
			grouped[label] = append(grouped[label], tools[i].Title)
		}
	}

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	lines := make([]string, 0, len(labels))
	for _, label := range labels {
		lines = append(lines, fmt.Sprintf("%s: %s", label, strings.Join(grouped[label], ", ")))
	}
	return strings.Join(lines, "\n")
}
