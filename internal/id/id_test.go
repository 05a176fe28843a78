package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id, err := Generate("tool")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "tool-"))
	assert.Len(t, id, len("tool-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("user")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	id := MustGenerate("tool")
	assert.True(t, Valid("tool", id))

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"wrong prefix", "user-V1StGXR8_Z5jdHi6BmyTa"},
		{"no separator", "toolV1StGXR8_Z5jdHi6BmyTa"},
		{"too short", "tool-abc"},
		{"too long", "tool-" + strings.Repeat("a", 22)},
		{"bad characters", "tool-V1StGXR8 Z5jdHi6BmyT!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Valid("tool", tt.in))
		})
	}
}
