package domain

import (
	"encoding/json/v2"
	"strings"
	"time"
)

// CategoryList is a set of category labels for a tool.
//
// Historical catalog documents stored a single category string; newer ones
// store an array. The set representation is authoritative: JSON decoding
// accepts both shapes and normalizes to a de-duplicated list, so downstream
// filtering never branches on representation.
type CategoryList []string

// UnmarshalJSON accepts either a bare string or an array of strings.
func (c *CategoryList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*c = normalizeCategories(many)
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*c = normalizeCategories([]string{one})
	return nil
}

// Contains reports whether the set holds label, compared case-insensitively.
func (c CategoryList) Contains(label string) bool {
	for _, cat := range c {
		if strings.EqualFold(cat, label) {
			return true
		}
	}
	return false
}

func normalizeCategories(in []string) CategoryList {
	out := make(CategoryList, 0, len(in))
	for _, cat := range in {
		cat = strings.TrimSpace(cat)
		if cat == "" || out.Contains(cat) {
			continue
		}
		out = append(out, cat)
	}
	return out
}

// Comment is a user remark attached to a tool.
type Comment struct {
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tool is a catalog entry for an AI tool.
//
// LikesCount is a denormalized counter over the user liked-set relation. It
// is adjusted in its own store transaction, separately from the liked-set
// write, so it can briefly drift under concurrent toggles; it never goes
// negative. CommentsCount is maintained the same way, from Comments.
type Tool struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Caption       string       `json:"caption"`
	Image         string       `json:"image"`
	Link          string       `json:"link"`
	Category      CategoryList `json:"category"`
	LikesCount    int          `json:"likesCount"`
	Comments      []Comment    `json:"comments,omitempty"`
	CommentsCount int          `json:"commentsCount"`
	Timestamps
}
