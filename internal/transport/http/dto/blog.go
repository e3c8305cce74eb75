package dto

import (
	"strings"
	"time"

	"portfolio/internal/domain/models"

	"github.com/google/uuid"
)

type CreateBlogPostRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Excerpt       string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content       string   `json:"content" validate:"required"`
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	CoverImageURL string   `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
}

func (r CreateBlogPostRequest) ToInput() models.PostInput {
	return models.PostInput{
		Title:         r.Title,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		Status:        models.PostStatus(r.Status),
		CoverImageURL: r.CoverImageURL,
		Tags:          r.Tags,
	}
}

// UpdateBlogPostRequest is a partial update: absent fields stay unchanged,
// an absent tags list keeps the current tags.
type UpdateBlogPostRequest struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Excerpt       *string  `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content       *string  `json:"content,omitempty"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	CoverImageURL *string  `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
}

func (r UpdateBlogPostRequest) ToUpdate() models.PostUpdate {
	upd := models.PostUpdate{
		Title:         r.Title,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		CoverImageURL: r.CoverImageURL,
		Tags:          r.Tags,
	}
	if r.Status != nil {
		status := models.PostStatus(*r.Status)
		upd.Status = &status
	}
	return upd
}

type BlogPostResponse struct {
	ID            uuid.UUID       `json:"id" swaggertype:"string" format:"uuid"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Excerpt       string          `json:"excerpt,omitempty"`
	Content       string          `json:"content,omitempty"`
	Status        string          `json:"status"`
	CoverImageURL string          `json:"cover_image_url,omitempty"`
	Author        *AuthorResponse `json:"author,omitempty"`
	Tags          []TagResponse   `json:"tags"`
	PublishedAt   *time.Time      `json:"published_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type AuthorResponse struct {
	ID   uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Name string    `json:"name"`
	Bio  string    `json:"bio,omitempty"`
}

type TagResponse struct {
	ID   uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type BlogPostListResponse struct {
	Posts      []BlogPostResponse `json:"posts"`
	TotalCount int                `json:"total_count"`
}

func NewBlogPostResponse(p *models.BlogPost) BlogPostResponse {
	resp := BlogPostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.ExcerptText(),
		Content:     p.Content,
		Status:      string(p.Status),
		Tags:        NewTagResponses(p.Tags),
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CoverImageURL != nil {
		resp.CoverImageURL = *p.CoverImageURL
	}
	if p.Author != nil {
		resp.Author = &AuthorResponse{ID: p.Author.ID, Name: p.Author.Name}
		if p.Author.Bio != nil {
			resp.Author.Bio = *p.Author.Bio
		}
	}
	return resp
}

func NewBlogPostListResponse(posts []models.BlogPost) BlogPostListResponse {
	out := make([]BlogPostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewBlogPostResponse(&posts[i]))
	}
	return BlogPostListResponse{Posts: out, TotalCount: len(out)}
}

func NewTagResponses(tags []models.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return out
}

// PostForm is the editor form. Tags arrive as one comma separated field.
type PostForm struct {
	Title         string `form:"title"`
	Excerpt       string `form:"excerpt"`
	Content       string `form:"content"`
	Status        string `form:"status"`
	CoverImageURL string `form:"cover_image_url"`
	Tags          string `form:"tags"`
}

// TagNames splits the tags field, dropping blanks.
func (f PostForm) TagNames() []string {
	names := []string{}
	for _, name := range strings.Split(f.Tags, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (f PostForm) ToInput() models.PostInput {
	return models.PostInput{
		Title:         strings.TrimSpace(f.Title),
		Excerpt:       strings.TrimSpace(f.Excerpt),
		Content:       f.Content,
		Status:        models.PostStatus(f.Status),
		CoverImageURL: strings.TrimSpace(f.CoverImageURL),
		Tags:          f.TagNames(),
	}
}

// ToUpdate replaces every editable field, tags included.
func (f PostForm) ToUpdate() models.PostUpdate {
	in := f.ToInput()
	upd := models.PostUpdate{
		Title:         &in.Title,
		Excerpt:       &in.Excerpt,
		Content:       &in.Content,
		CoverImageURL: &in.CoverImageURL,
		Tags:          in.Tags,
	}
	if in.Status != "" {
		upd.Status = &in.Status
	}
	return upd
}
