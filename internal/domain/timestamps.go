// Package domain contains the core entities of the AIPortal catalog.
package domain

import "time"

// Timestamps tracks entity creation and modification times.
// The store owns these; services call InitTimestamps on create and Touch on update.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InitTimestamps sets both timestamps to now. Call once, at creation.
func (t *Timestamps) InitTimestamps() {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Touch bumps the modification time.
func (t *Timestamps) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
