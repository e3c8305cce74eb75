package storage

import "errors"

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrAuthorNotFound = errors.New("author not found")
	ErrTagNotFound    = errors.New("tag not found")
	ErrSlugExists     = errors.New("slug already exists")
	ErrNoFields       = errors.New("no fields to update")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)
