package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/config"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// ObjectPutter is the subset of the MinIO client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// AttachmentStore uploads grievance attachments to object storage.
type AttachmentStore struct {
	client   ObjectPutter
	bucket   string
	baseURL  string
	maxBytes int64
	clock    clockwork.Clock
}

// NewAttachmentStore connects to MinIO. It returns a nil store when storage is
// not configured; a nil store rejects uploads.
func NewAttachmentStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*AttachmentStore, error) {
	if !cfg.Enabled() {
		logger.Info("attachment storage disabled")
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		logger.Warn("unable to check attachment bucket", zap.String("bucket", cfg.Bucket), zap.Error(err))
	} else if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("created attachment bucket", zap.String("bucket", cfg.Bucket))
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}
	return NewAttachmentStoreWithClient(client, cfg.Bucket, baseURL, cfg.MaxUploadBytes(), clockwork.NewRealClock()), nil
}

// NewAttachmentStoreWithClient builds a store around an existing client.
func NewAttachmentStoreWithClient(client ObjectPutter, bucket, baseURL string, maxBytes int64, clock clockwork.Clock) *AttachmentStore {
	return &AttachmentStore{
		client:   client,
		bucket:   bucket,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		clock:    clock,
	}
}

// Upload stores the file under <userID>/<yyyy/mm/dd>/<uuid>-<name> and returns its URL.
func (s *AttachmentStore) Upload(ctx context.Context, userID, filename, contentType string, size int64, body io.Reader) (string, error) {
	if s == nil {
		return "", apperrors.NewValidationError("attachments are not enabled", nil)
	}
	if size <= 0 {
		return "", apperrors.NewValidationError("file is empty", nil)
	}
	if size > s.maxBytes {
		return "", apperrors.NewValidationError("file exceeds upload limit", map[string]any{
			"max_bytes": s.maxBytes,
			"size":      size,
		})
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := path.Join(userID, s.clock.Now().UTC().Format("2006/01/02"), uuid.NewString()+"-"+sanitizeFilename(filename))
	if _, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}
	return s.baseURL + "/" + s.bucket + "/" + escapeKey(key), nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if cleaned == "" || cleaned == "." || cleaned == ".." || cleaned == "/" {
		return "file"
	}
	return cleaned
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
