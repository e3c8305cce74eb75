package repository

import (
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// Repository groups the postgres repositories sharing one pool.
type Repository struct {
	Blog   BlogRepository
	Author AuthorRepository
	Tag    TagRepository
}

func New(db *pgxpool.Pool) *Repository {
	return &Repository{
		Blog:   NewBlogRepository(db),
		Author: NewAuthorRepository(db),
		Tag:    NewTagRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
