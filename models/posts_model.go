package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	Published bool      `json:"published"`
	AuthorID  uuid.UUID `json:"authorId"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author is the public part of a User attached to listed posts.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PostCreateData carries the fields of a new post. The author is
// connected by email rather than by id.
type PostCreateData struct {
	Title       string
	Content     *string
	Published   bool
	AuthorEmail string
}

// IsDraft reports whether the post is still unpublished.
func (p Post) IsDraft() bool {
	return !p.Published
}
