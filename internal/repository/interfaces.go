package repository

import (
	"context"
	"time"

	"portfolio/internal/domain/models"

	"github.com/google/uuid"
)

type BlogRepository interface {
	SaveBlogPost(ctx context.Context, post models.BlogPost) (*models.BlogPost, error)
	UpdateBlogPostFields(ctx context.Context, postID uuid.UUID, updates map[string]interface{}) (*models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, postID uuid.UUID) error
	GetBlogPostByID(ctx context.Context, postID uuid.UUID) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	GetBlogPosts(ctx context.Context, filter models.PostFilter) ([]models.BlogPost, error)
}

type AuthorRepository interface {
	GetAuthorByID(ctx context.Context, id uuid.UUID) (*models.Author, error)
	GetAuthorByEmail(ctx context.Context, email string) (*models.Author, error)
	EnsureAuthor(ctx context.Context, name, email string) (*models.Author, error)
}

type TagRepository interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	SaveTag(ctx context.Context, name, slug string) (*models.Tag, error)
	GetTagsByPostID(ctx context.Context, postID uuid.UUID) ([]models.Tag, error)
	DeletePostTags(ctx context.Context, postID uuid.UUID) error
	AddPostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, subject, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, subject, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, subject, token string) error
	DeleteAllTokens(ctx context.Context, subject string) error
}

type RateLimitRepository interface {
	// Hit counts one request under key and reports the count inside the window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}
