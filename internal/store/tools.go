package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/aiportalapp/aiportal-server/internal/domain"
)

const toolPrefix = "tool:"

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "All"

// ToolPage is one page of the catalog plus paging metadata.
type ToolPage struct {
	Tools       []domain.Tool `json:"tools"`
	CurrentPage int           `json:"currentPage"`
	TotalTools  int           `json:"totalTools"`
	TotalPages  int           `json:"totalPages"`
	HasMore     bool          `json:"hasMore"`
}

// CreateTool stores a new catalog entry and indexes its title for search.
func (s *Store) CreateTool(ctx context.Context, tool *domain.Tool) error {
	key := []byte(toolPrefix + tool.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check tool exists: %w", err)
	}
	if exists {
		return ErrToolExists
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return setInTxn(txn, key, tool)
	})
	if err != nil {
		return err
	}

	s.indexTool(ctx, tool)
	return nil
}

// GetTool retrieves a tool by ID.
func (s *Store) GetTool(_ context.Context, id string) (*domain.Tool, error) {
	key := []byte(toolPrefix + id)

	var tool domain.Tool
	if err := s.get(key, &tool); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("get tool: %w", err)
	}

	return &tool, nil
}

// UpdateTool persists changes to an existing tool and refreshes its search entry.
func (s *Store) UpdateTool(ctx context.Context, tool *domain.Tool) error {
	key := []byte(toolPrefix + tool.ID)

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrToolNotFound
			}
			return fmt.Errorf("get tool: %w", err)
		}
		return setInTxn(txn, key, tool)
	})
	if err != nil {
		return err
	}

	s.indexTool(ctx, tool)
	return nil
}

// DeleteTool removes a tool and its search entry. Idempotent.
func (s *Store) DeleteTool(ctx context.Context, id string) error {
	key := []byte(toolPrefix + id)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return err
	}

	if err := s.searchIndexer.DeleteTool(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("Failed to remove tool from search index", "tool_id", id, "error", err)
	}
	return nil
}

// ListTools returns one page of the catalog, newest first.
//
// category filters on exact label membership; CategoryAll (or empty) means no
// filter. page and limit must be >= 1 (the service layer coerces defaults).
// A skip beyond the end of the catalog yields an empty page, not an error.
func (s *Store) ListTools(ctx context.Context, category string, page, limit int) (*ToolPage, error) {
	tools, err := s.scanTools(ctx, func(t *domain.Tool) bool {
		if category == "" || category == CategoryAll {
			return true
		}
		return slices.Contains(t.Category, category)
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(tools)

	total := len(tools)
	totalPages := (total + limit - 1) / limit

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	return &ToolPage{
		Tools:       tools[start:end],
		CurrentPage: page,
		TotalTools:  total,
		TotalPages:  totalPages,
		HasMore:     page < totalPages,
	}, nil
}

// AllTools returns the full catalog, newest first.
func (s *Store) AllTools(ctx context.Context) ([]domain.Tool, error) {
	tools, err := s.scanTools(ctx, func(*domain.Tool) bool { return true })
	if err != nil {
		return nil, err
	}
	sortNewestFirst(tools)
	return tools, nil
}

// GetToolsByIDs resolves tool IDs to documents, preserving the input order.
// IDs that no longer resolve (tool deleted since it was liked) are skipped.
func (s *Store) GetToolsByIDs(_ context.Context, ids []string) ([]domain.Tool, error) {
	tools := make([]domain.Tool, 0, len(ids))

	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var tool domain.Tool
			err := getInTxn(txn, []byte(toolPrefix+id), &tool)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get tool %s: %w", id, err)
			}
			tools = append(tools, tool)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tools, nil
}

// AdjustLikes applies delta to a tool's like counter inside a single
// transaction, flooring at zero. The floor guards against counter drift:
// the liked-set write and this write are separate transactions, so a lost
// race must never push the counter negative.
// Returns the new counter value.
func (s *Store) AdjustLikes(_ context.Context, toolID string, delta int) (int, error) {
	key := []byte(toolPrefix + toolID)

	var newCount int
	err := s.db.Update(func(txn *badger.Txn) error {
		var tool domain.Tool
		if err := getInTxn(txn, key, &tool); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrToolNotFound
			}
			return fmt.Errorf("get tool: %w", err)
		}

		tool.LikesCount = max(0, tool.LikesCount+delta)
		tool.Touch()
		newCount = tool.LikesCount

		return setInTxn(txn, key, &tool)
	})
	if err != nil {
		return 0, err
	}

	return newCount, nil
}

// AppendComment attaches a comment to a tool inside a single transaction and
// returns the updated document. CommentsCount is kept denormalized the same
// way LikesCount is.
func (s *Store) AppendComment(_ context.Context, toolID string, comment domain.Comment) (*domain.Tool, error) {
	key := []byte(toolPrefix + toolID)

	var updated domain.Tool
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getInTxn(txn, key, &updated); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrToolNotFound
			}
			return fmt.Errorf("get tool: %w", err)
		}

		updated.Comments = append(updated.Comments, comment)
		updated.CommentsCount = len(updated.Comments)
		updated.Touch()

		return setInTxn(txn, key, &updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// scanTools iterates all tool documents, keeping those matching the filter.
func (s *Store) scanTools(ctx context.Context, keep func(*domain.Tool) bool) ([]domain.Tool, error) {
	// Non-nil so an empty catalog serializes as [] rather than null.
	tools := []domain.Tool{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(toolPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(toolPrefix)); it.ValidForPrefix([]byte(toolPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var tool domain.Tool
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tool)
			})
			if err != nil {
				return err
			}

			if keep(&tool) {
				tools = append(tools, tool)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tools, nil
}

// sortNewestFirst orders tools by creation time descending, ID as tiebreak
// for deterministic paging.
func sortNewestFirst(tools []domain.Tool) {
	slices.SortFunc(tools, func(a, b domain.Tool) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// indexTool updates the search entry for a tool, best effort.
func (s *Store) indexTool(ctx context.Context, tool *domain.Tool) {
	if err := s.searchIndexer.IndexTool(ctx, tool); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index tool for search", "tool_id", tool.ID, "error", err)
	}
}
