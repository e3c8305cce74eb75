package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio/internal/domain/models"
	"portfolio/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type AuthorRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewAuthorRepository(db *pgxpool.Pool) *AuthorRepo {
	return &AuthorRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *AuthorRepo) GetAuthorByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	const op = "repository.author_repository.GetAuthorByID"

	return r.getOne(ctx, op, sq.Eq{"id": id})
}

func (r *AuthorRepo) GetAuthorByEmail(ctx context.Context, email string) (*models.Author, error) {
	const op = "repository.author_repository.GetAuthorByEmail"

	return r.getOne(ctx, op, sq.Expr("lower(email) = ?", strings.ToLower(email)))
}

func (r *AuthorRepo) getOne(ctx context.Context, op string, where sq.Sqlizer) (*models.Author, error) {
	query, args, err := r.sb.Select("id", "name", "email", "bio").
		From("authors").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var author models.Author
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&author.ID,
		&author.Name,
		&author.Email,
		&author.Bio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAuthorNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &author, nil
}

// EnsureAuthor inserts the author row for email unless it already exists.
func (r *AuthorRepo) EnsureAuthor(ctx context.Context, name, email string) (*models.Author, error) {
	const op = "repository.author_repository.EnsureAuthor"

	query, args, err := r.sb.Insert("authors").
		Columns("name", "email").
		Values(name, email).
		Suffix("ON CONFLICT (email) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	author, err := r.GetAuthorByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return author, nil
}
