package repository

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/domain/models"
	"portfolio/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type TagRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewTagRepository(db *pgxpool.Pool) *TagRepo {
	return &TagRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TagRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "repository.tag_repository.ListTags"

	query, args, err := r.sb.Select("id", "name", "slug").
		From("tags").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryTags(ctx, op, query, args)
}

func (r *TagRepo) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	const op = "repository.tag_repository.GetTagBySlug"

	query, args, err := r.sb.Select("id", "name", "slug").
		From("tags").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var tag models.Tag
	if err := r.db.QueryRow(ctx, query, args...).Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrTagNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tag, nil
}

func (r *TagRepo) SaveTag(ctx context.Context, name, slug string) (*models.Tag, error) {
	const op = "repository.tag_repository.SaveTag"

	query, args, err := r.sb.Insert("tags").
		Columns("name", "slug").
		Values(name, slug).
		Suffix("RETURNING id, name, slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var tag models.Tag
	if err := r.db.QueryRow(ctx, query, args...).Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tag, nil
}

func (r *TagRepo) GetTagsByPostID(ctx context.Context, postID uuid.UUID) ([]models.Tag, error) {
	const op = "repository.tag_repository.GetTagsByPostID"

	query, args, err := r.sb.Select("t.id", "t.name", "t.slug").
		From("tags t").
		Join("blog_tags bt ON bt.tag_id = t.id").
		Where(sq.Eq{"bt.blog_id": postID}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryTags(ctx, op, query, args)
}

func (r *TagRepo) DeletePostTags(ctx context.Context, postID uuid.UUID) error {
	const op = "repository.tag_repository.DeletePostTags"

	query, args, err := r.sb.Delete("blog_tags").
		Where(sq.Eq{"blog_id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AddPostTags inserts all associations in a single statement.
func (r *TagRepo) AddPostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	const op = "repository.tag_repository.AddPostTags"

	if len(tagIDs) == 0 {
		return nil
	}

	insert := r.sb.Insert("blog_tags").Columns("blog_id", "tag_id")
	for _, id := range tagIDs {
		insert = insert.Values(postID, id)
	}

	query, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *TagRepo) queryTags(ctx context.Context, op, query string, args []interface{}) ([]models.Tag, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tags, nil
}
