package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var blogColumns = []string{
	"id", "title", "slug", "excerpt", "content", "author_id", "status",
	"published_at", "created_at", "updated_at", "cover_image_url",
}

type BlogRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepo {
	return &BlogRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (b *BlogRepo) SaveBlogPost(ctx context.Context, post models.BlogPost) (*models.BlogPost, error) {
	const op = "repository.blog_repository.SaveBlogPost"

	query, args, err := b.sb.Insert("blogs").
		Columns(
			"title",
			"slug",
			"excerpt",
			"content",
			"author_id",
			"status",
			"published_at",
			"cover_image_url",
		).
		Values(
			post.Title,
			post.Slug,
			post.Excerpt,
			post.Content,
			post.AuthorID,
			string(post.Status),
			post.PublishedAt,
			post.CoverImageURL,
		).
		Suffix("RETURNING " + strings.Join(blogColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := scanBlogPost(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

// UpdateBlogPostFields sets the given columns, bumps updated_at and returns
// the stored row.
func (b *BlogRepo) UpdateBlogPostFields(ctx context.Context, postID uuid.UUID, updates map[string]interface{}) (*models.BlogPost, error) {
	const op = "repository.blog_repository.UpdateBlogPostFields"

	allowedFields := map[string]bool{
		"title":           true,
		"slug":            true,
		"excerpt":         true,
		"content":         true,
		"status":          true,
		"published_at":    true,
		"cover_image_url": true,
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNoFields)
	}

	updateBuilder := b.sb.Update("blogs").
		Set("updated_at", time.Now())

	for field, value := range updates {
		if !allowedFields[field] {
			return nil, fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}
		if s, ok := value.(models.PostStatus); ok {
			value = string(s)
		}

		updateBuilder = updateBuilder.Set(field, value)
	}

	query, args, err := updateBuilder.
		Where(sq.Eq{"id": postID}).
		Suffix("RETURNING " + strings.Join(blogColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post, err := scanBlogPost(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		case isUniqueViolation(err):
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

func (b *BlogRepo) DeleteBlogPost(ctx context.Context, postID uuid.UUID) error {
	const op = "repository.blog_repository.DeleteBlogPost"

	query, args, err := b.sb.Delete("blogs").
		Where(sq.Eq{"id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return nil
}

func (b *BlogRepo) GetBlogPostByID(ctx context.Context, postID uuid.UUID) (*models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostByID"

	return b.getOne(ctx, op, sq.Eq{"id": postID})
}

func (b *BlogRepo) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostBySlug"

	return b.getOne(ctx, op, sq.Eq{"slug": slug})
}

func (b *BlogRepo) getOne(ctx context.Context, op string, where sq.Eq) (*models.BlogPost, error) {
	query, args, err := b.sb.Select(blogColumns...).
		From("blogs").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post, err := scanBlogPost(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// GetBlogPosts returns the base rows only; authors and tags are resolved by
// the caller.
func (b *BlogRepo) GetBlogPosts(ctx context.Context, filter models.PostFilter) ([]models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPosts"

	columns := make([]string, len(blogColumns))
	copy(columns, blogColumns)
	if !filter.IncludeContent {
		columns[4] = "'' AS content"
	}

	queryBuilder := b.sb.Select(columns...).From("blogs")

	switch filter.Status {
	case "":
	case models.StatusDraft, models.StatusPublished:
		queryBuilder = queryBuilder.Where(sq.Eq{"status": string(filter.Status)})
	default:
		return nil, fmt.Errorf("%s: invalid status filter '%s'", op, filter.Status)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		queryBuilder = queryBuilder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"excerpt": pattern},
		})
	}

	if filter.Status == models.StatusPublished {
		queryBuilder = queryBuilder.OrderBy("published_at DESC", "created_at DESC")
	} else {
		queryBuilder = queryBuilder.OrderBy("created_at DESC")
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := make([]models.BlogPost, 0)
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return posts, nil
}

func scanBlogPost(row pgx.Row) (*models.BlogPost, error) {
	var (
		post   models.BlogPost
		status string
	)

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Excerpt,
		&post.Content,
		&post.AuthorID,
		&status,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.CoverImageURL,
	)
	if err != nil {
		return nil, err
	}

	post.Status = models.PostStatus(status)
	post.Tags = []models.Tag{}

	return &post, nil
}
