package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// maxResults caps how many tool IDs a single search can return. The search
// endpoint is unpaginated, so the cap keeps pathological queries bounded.
const maxResults = 200

// SearchTitles returns the IDs of tools whose title matches the query,
// best match first. Matching is case-insensitive and includes substrings
// inside words, so "gpt" matches "ChatGPT Helper".
func (s *SearchIndex) SearchTitles(ctx context.Context, q string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}

	searchRequest := bleve.NewSearchRequestOptions(buildTitleQuery(q), maxResults, 0, false)

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make([]string, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// buildTitleQuery combines a stemmed word match on the title with a
// wildcard substring match on the pre-lowered keyword field. Either one
// matching is enough.
func buildTitleQuery(q string) query.Query {
	matchQuery := bleve.NewMatchQuery(q)
	matchQuery.SetField("title")

	wildcardQuery := bleve.NewWildcardQuery("*" + escapeWildcard(strings.ToLower(q)) + "*")
	wildcardQuery.SetField("title_exact")

	return bleve.NewDisjunctionQuery(matchQuery, wildcardQuery)
}

// escapeWildcard neutralizes wildcard metacharacters in user input so the
// query only carries the wildcards we add around it.
func escapeWildcard(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)
	return r.Replace(s)
}
