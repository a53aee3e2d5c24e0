// Package storage stores uploaded images and returns their public URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appConfig "github.com/festy23/eventhub/internal/config"
)

var (
	// ErrUnsupportedType is returned for uploads that are not a supported image.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("file too large")
)

// Storage persists objects and exposes them under a public URL.
type Storage interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// New creates the backend selected by cfg.
func New(ctx context.Context, cfg *appConfig.StorageConfig, logger *zap.SugaredLogger) (Storage, error) {
	switch cfg.Backend {
	case appConfig.StorageBackendLocal:
		return NewLocal(cfg.LocalDir, cfg.PublicBaseURL, logger)
	case appConfig.StorageBackendGCS:
		return NewGCS(ctx, cfg.Bucket, cfg.CredentialsFile, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ImageExtension returns the file extension for a supported image content type.
func ImageExtension(contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// Uploader validates multipart image uploads and writes them to a Storage.
type Uploader struct {
	store    Storage
	maxBytes int64
}

// NewUploader creates an Uploader with the given size limit.
func NewUploader(store Storage, maxBytes int64) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes}
}

// UploadImage stores an image under prefix with a random name and returns its URL.
// The content type is sniffed from the file contents rather than trusted from the client.
func (u *Uploader) UploadImage(ctx context.Context, prefix string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > u.maxBytes {
		return "", ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, u.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, err := ImageExtension(contentType)
	if err != nil {
		return "", err
	}

	key := path.Join(prefix, uuid.NewString()+ext)
	return u.store.Upload(ctx, key, contentType, bytes.NewReader(data))
}
