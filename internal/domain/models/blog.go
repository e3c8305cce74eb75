package models

import (
	"time"

	"github.com/google/uuid"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type BlogPost struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Slug          string     `db:"slug" json:"slug"`
	Excerpt       *string    `db:"excerpt" json:"excerpt,omitempty"`
	Content       string     `db:"content" json:"content"`
	AuthorID      uuid.UUID  `db:"author_id" json:"author_id"`
	Status        PostStatus `db:"status" json:"status"`
	PublishedAt   *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	CoverImageURL *string    `db:"cover_image_url" json:"cover_image_url,omitempty"`

	// Resolved by the per-post fan-out, not stored on the blogs row.
	Author *Author `json:"author,omitempty"`
	Tags   []Tag   `json:"tags"`
}

// HasTag reports whether one of the post's resolved tags carries slug.
func (p BlogPost) HasTag(slug string) bool {
	for _, t := range p.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (p BlogPost) ExcerptText() string {
	if p.Excerpt == nil {
		return ""
	}
	return *p.Excerpt
}

type Author struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Email string    `db:"email" json:"email"`
	Bio   *string   `db:"bio" json:"bio,omitempty"`
}

type Tag struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
	Slug string    `db:"slug" json:"slug"`
}

// PostFilter narrows the base row set of a post listing.
type PostFilter struct {
	Status         PostStatus
	Search         string
	IncludeContent bool
}

type PostInput struct {
	Title         string
	Excerpt       string
	Content       string
	Status        PostStatus
	CoverImageURL string
	Tags          []string
}

// PostUpdate carries only the fields to change; a nil Tags leaves the
// associations alone, an empty non-nil slice removes them all.
type PostUpdate struct {
	Title         *string
	Excerpt       *string
	Content       *string
	Status        *PostStatus
	CoverImageURL *string
	Tags          []string
}

type PostStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
}
