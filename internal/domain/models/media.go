package models

import (
	"fmt"
	"strings"
)

// UploadedImage is the result of storing a blog image.
type UploadedImage struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// ImageUpload describes an incoming image before it reaches the bucket.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
}

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Extension returns the canonical file extension for the upload's content type.
func (u ImageUpload) Extension() string {
	return allowedImageTypes[u.ContentType]
}

func (u ImageUpload) Validate(maxSize int64) error {
	var validationErrors []string

	if u.Filename == "" {
		validationErrors = append(validationErrors, "filename is required")
	}
	if len(u.Filename) > 255 {
		validationErrors = append(validationErrors, "filename must be 255 characters or less")
	}
	if u.Size <= 0 {
		validationErrors = append(validationErrors, "file is empty")
	}
	if maxSize > 0 && u.Size > maxSize {
		validationErrors = append(validationErrors, fmt.Sprintf("file exceeds %d bytes", maxSize))
	}
	if _, ok := allowedImageTypes[u.ContentType]; !ok {
		validationErrors = append(validationErrors,
			fmt.Sprintf("unsupported content type %q", u.ContentType))
	}

	if len(validationErrors) > 0 {
		return &ImageValidationError{Errors: validationErrors}
	}

	return nil
}

type ImageValidationError struct {
	Errors []string
}

func (e *ImageValidationError) Error() string {
	return fmt.Sprintf("image validation failed: %s", strings.Join(e.Errors, "; "))
}
