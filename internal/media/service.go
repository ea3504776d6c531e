package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"community-service/internal/shared/httpx"

	"github.com/google/uuid"
)

// MaxUploadSize matches the bucket's max-object-size configuration.
const MaxUploadSize = 5 << 20

const storageTimeout = 15 * time.Second

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var (
	ErrTooLarge       = fmt.Errorf("%w: image exceeds the 5 MiB limit", httpx.ErrValidation)
	ErrBadContentType = fmt.Errorf("%w: unsupported image type", httpx.ErrValidation)
	ErrEmptyUpload    = fmt.Errorf("%w: empty image upload", httpx.ErrValidation)
)

type Store interface {
	BucketExists(ctx context.Context) (bool, error)
	MakeBucket(ctx context.Context) error
	Put(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
}

type Service struct {
	store Store
	ready atomic.Bool
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// EnsureBucket confirms the shared media bucket exists, creating it if
// needed. Safe under concurrent invocation: a lost creation race is resolved
// by re-probing, and the ready flag only short-circuits after a confirmed
// bucket. Re-deriving the flag after a restart is cheap and side-effect free.
func (s *Service) EnsureBucket(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	exists, err := s.store.BucketExists(ctx)
	if err != nil {
		// Transient probe failure: treat as absent and let creation decide.
		exists = false
	}
	if !exists {
		if err := s.store.MakeBucket(ctx); err != nil {
			exists, probeErr := s.store.BucketExists(ctx)
			if probeErr != nil || !exists {
				return fmt.Errorf("provision bucket: %w", err)
			}
			// Another caller created it first; that is success.
		}
	}
	s.ready.Store(true)
	return nil
}

// Ingest validates and durably writes one image, returning its public URL.
// The generated name keeps only the original extension, never the filename.
func (s *Service) Ingest(ctx context.Context, data []byte, contentType, originalName string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}
	if !allowedTypes[contentType] {
		return "", ErrBadContentType
	}

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	key := uuid.NewString() + strings.ToLower(path.Ext(originalName))
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	return s.store.PublicURL(key), nil
}
