package domain

import "slices"

// User is a registered account in the directory.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password,omitempty"` // Stored hashed, filter from API responses
	Name         string `json:"name,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`

	// LikedTools is the user's liked set: tool IDs, insertion-ordered,
	// no duplicates. Mirrored by the LikesCount counter on each tool.
	LikedTools []string `json:"likedTools"`

	Timestamps
}

// HasLiked reports whether toolID is in the user's liked set.
func (u *User) HasLiked(toolID string) bool {
	return slices.Contains(u.LikedTools, toolID)
}

// Like adds toolID to the liked set. Adding an already-liked tool is a no-op.
func (u *User) Like(toolID string) {
	if !u.HasLiked(toolID) {
		u.LikedTools = append(u.LikedTools, toolID)
	}
}

// Unlike removes toolID from the liked set.
func (u *User) Unlike(toolID string) {
	u.LikedTools = slices.DeleteFunc(u.LikedTools, func(id string) bool {
		return id == toolID
	})
}

// PublicUser is the projection of a user safe to return to clients.
// The password hash never leaves the server.
type PublicUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
	}
}
