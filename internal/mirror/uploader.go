// Package mirror uploads sealed archive files to MinIO object storage.
package mirror

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jonesrussell/geosearch/internal/archive"
	"github.com/jonesrussell/geosearch/internal/config"
	"github.com/jonesrussell/geosearch/internal/logger"
)

const (
	// archiveContentType is the content type for uploaded archives.
	archiveContentType = "application/json"
	// uploadMaxRetries is the number of retries after a failed upload.
	uploadMaxRetries = 3
)

// Uploader mirrors sealed archive files to a MinIO bucket.
type Uploader struct {
	client *miniogo.Client
	config *config.MirrorConfig
	logger logger.Interface
}

// NewUploader creates a new archive mirror uploader.
func NewUploader(cfg *config.MirrorConfig, log logger.Interface) (*Uploader, error) {
	if cfg == nil {
		return nil, errors.New("mirror config is nil")
	}

	uploader := &Uploader{
		config: cfg,
		logger: log,
	}

	// If disabled, return early
	if !cfg.Enabled {
		log.Info("Archive mirroring disabled")
		return uploader, nil
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		if cfg.FailSilently {
			log.Warn("Failed to create MinIO client, continuing without mirroring", "error", err)
			return uploader, nil
		}
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	uploader.client = client

	log.Info("Archive mirror initialized",
		"endpoint", cfg.Endpoint,
		"bucket", cfg.Bucket,
		"compress", cfg.Compress)

	return uploader, nil
}

// Enabled reports whether uploads will actually be attempted.
func (u *Uploader) Enabled() bool {
	return u != nil && u.config.Enabled && u.client != nil
}

// Upload mirrors the sealed archive file at path under the given archive
// key. Failed uploads are retried with backoff; when FailSilently is set
// the last error is logged instead of returned so sealing never depends
// on object storage availability.
func (u *Uploader) Upload(ctx context.Context, key, path string) error {
	if !u.Enabled() {
		return nil
	}

	objectKey, err := ObjectKey(key)
	if err != nil {
		return fmt.Errorf("derive object key: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= uploadMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			u.logger.Debug("Retrying archive upload",
				"attempt", attempt,
				"backoff", backoff,
				"key", key)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := u.putArchive(ctx, objectKey, path)
		if err == nil {
			u.logger.Debug("Mirrored archive",
				"key", key,
				"object_key", objectKey)
			return nil
		}

		lastErr = err
		// A missing local file never resolves by retrying.
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		u.logger.Warn("Archive upload failed",
			"attempt", attempt+1,
			"error", err,
			"key", key)
	}

	if u.config.FailSilently {
		u.logger.Error("Archive upload failed after all retries, continuing",
			"error", lastErr,
			"key", key)
		return nil
	}
	return fmt.Errorf("upload archive %s: %w", key, lastErr)
}

// putArchive performs one upload attempt.
func (u *Uploader) putArchive(ctx context.Context, objectKey, path string) error {
	if u.config.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.config.UploadTimeout)
		defer cancel()
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive file: %w", err)
	}
	defer file.Close()

	opts := miniogo.PutObjectOptions{ContentType: archiveContentType}

	if u.config.Compress {
		raw, err := io.ReadAll(file)
		if err != nil {
			return fmt.Errorf("read archive file: %w", err)
		}

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(raw); err != nil {
			return fmt.Errorf("compress archive: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("compress archive: %w", err)
		}

		opts.ContentEncoding = "gzip"
		_, err = u.client.PutObject(ctx, u.config.Bucket, objectKey,
			bytes.NewReader(buf.Bytes()), int64(buf.Len()), opts)
		if err != nil {
			return fmt.Errorf("put object: %w", err)
		}
		return nil
	}

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat archive file: %w", err)
	}
	_, err = u.client.PutObject(ctx, u.config.Bucket, objectKey,
		file, info.Size(), opts)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// HealthCheck verifies MinIO connectivity.
func (u *Uploader) HealthCheck(ctx context.Context) error {
	if !u.Enabled() {
		return nil // Not enabled, skip health check
	}

	exists, err := u.client.BucketExists(ctx, u.config.Bucket)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", u.config.Bucket)
	}

	return nil
}

// ObjectKey derives the object path for an archive key.
// Format: archives/{location}/{year}/{month}/{day}/{key}.json
func ObjectKey(key string) (string, error) {
	day, location, err := archive.ParseKey(key)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("archives/%s/%s/%s.json",
		sanitizeLocation(location), day.Format("2006/01/02"), key), nil
}

var (
	// invalidObjectNameChars matches characters that are problematic in
	// MinIO/S3 object names: control chars, \, ?, *, |, <, >, :, "
	invalidObjectNameChars = regexp.MustCompile(`[\\?*|<>:"\x00-\x1F]`)
	// consecutiveUnderscores matches two or more consecutive underscores.
	consecutiveUnderscores = regexp.MustCompile(`_{2,}`)
)

// sanitizeLocation sanitizes a location name for use in object keys.
func sanitizeLocation(location string) string {
	if location == "" {
		return "unknown"
	}

	normalized := strings.ToLower(location)
	normalized = invalidObjectNameChars.ReplaceAllString(normalized, "_")
	normalized = strings.ReplaceAll(normalized, ".", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "/", "_")
	normalized = consecutiveUnderscores.ReplaceAllString(normalized, "_")
	normalized = strings.Trim(normalized, "_")

	if normalized == "" {
		return "unknown"
	}
	return normalized
}
