package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/metrics"
	"portfolio/internal/storage"

	"golang.org/x/image/draw"
)

const (
	keyPrefix      = "blog-images"
	jpegQuality    = 85
	defaultMaxSize = 10 << 20
	// maxPixels caps what downsize will decode, about 200 MB as RGBA.
	maxPixels = 50_000_000
)

// ObjectStorage is the bucket the images end up in.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type MediaService struct {
	log      *slog.Logger
	store    ObjectStorage
	maxSize  int64
	maxWidth int
	now      func() time.Time
}

func NewMediaService(log *slog.Logger, store ObjectStorage, maxSize int64, maxWidth int) *MediaService {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}

	return &MediaService{
		log:      log,
		store:    store,
		maxSize:  maxSize,
		maxWidth: maxWidth,
		now:      time.Now,
	}
}

// UploadImage validates, optionally downsizes and stores one blog image.
// The declared content type must match what the bytes sniff as.
func (s *MediaService) UploadImage(ctx context.Context, upload models.ImageUpload, r io.Reader) (*models.UploadedImage, error) {
	const op = "media_service.UploadImage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", upload.Filename),
		slog.String("content_type", upload.ContentType),
	)

	if upload.Size > s.maxSize {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}
	if upload.Extension() == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		log.Error("failed to read upload", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	upload.Size = int64(len(data))
	if err := upload.Validate(s.maxSize); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if sniffed := http.DetectContentType(data); sniffed != upload.ContentType {
		log.Warn("content type mismatch", slog.String("sniffed", sniffed))
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	data, err = s.downsize(data, upload.ContentType)
	if err != nil {
		var imageErr *models.ImageValidationError
		if errors.As(err, &imageErr) {
			log.Warn("image rejected", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Warn("failed to process image", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	key := s.objectKey(upload.Extension())

	if err := s.store.Upload(ctx, key, upload.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		log.Error("failed to store image", sl.Err(err), slog.String("key", key))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ImageUploadBytes.Observe(float64(len(data)))
	log.Info("image stored", slog.String("key", key), slog.Int("bytes", len(data)))

	return &models.UploadedImage{
		URL:  s.store.PublicURL(key),
		Path: key,
	}, nil
}

func (s *MediaService) DeleteImage(ctx context.Context, path string) error {
	const op = "media_service.DeleteImage"

	if err := s.store.Delete(ctx, path); err != nil {
		if !errors.Is(err, storage.ErrFileNotFound) {
			s.log.Error("failed to delete image", slog.String("op", op), sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// downsize scales jpeg and png images wider than maxWidth. Other formats and
// narrow images are returned untouched. Dimensions are read from the header
// first, and images over maxPixels are rejected before any pixel is decoded.
func (s *MediaService) downsize(data []byte, contentType string) ([]byte, error) {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, &models.ImageValidationError{Errors: []string{
			fmt.Sprintf("image is %dx%d pixels, the limit is %d pixels", cfg.Width, cfg.Height, maxPixels),
		}}
	}
	if s.maxWidth <= 0 || cfg.Width <= s.maxWidth {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	newH := bounds.Dy() * s.maxWidth / bounds.Dx()
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch contentType {
	case "image/jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), nil
}

// objectKey is blog-images/<unix millis>-<random base36>.<ext>.
func (s *MediaService) objectKey(ext string) string {
	return fmt.Sprintf("%s/%d-%s.%s",
		keyPrefix,
		s.now().UnixMilli(),
		strconv.FormatUint(rand.Uint64(), 36),
		ext,
	)
}
