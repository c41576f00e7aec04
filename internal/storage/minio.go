package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/radiocast/backend-go/internal/config"
)

// listTimeout bounds every single list call against the store.
const listTimeout = 30 * time.Second

// MinioStore is the privileged backend: direct bucket access with service
// credentials and native start-after pagination.
type MinioStore struct {
	client   *minio.Client
	bucket   string
	audioExt string
}

// NewMinioStore connects the privileged backend.
func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	if !cfg.PrivilegedConfigured() {
		return nil, ErrNotConfigured
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}
	return &MinioStore{
		client:   client,
		bucket:   cfg.Bucket,
		audioExt: cfg.AudioExt,
	}, nil
}

func (s *MinioStore) Mode() Mode { return ModePrivileged }

// ListPage lists up to pageSize keys after the cursor position and surfaces
// the audio objects among them. The next cursor resumes after the last raw
// key, not the last audio key, so pages full of filtered-out noise still make
// forward progress.
func (s *MinioStore) ListPage(ctx context.Context, prefix string, pageSize int, cursor *Cursor) ([]Object, *Cursor, error) {
	if cursor != nil && cursor.Kind != ModePrivileged {
		return nil, nil, ErrCursorInvalid
	}
	startAfter := ""
	if cursor != nil {
		startAfter = cursor.Value
	}

	lctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	objects := make([]Object, 0, pageSize)
	var lastKey string
	listed := 0
	for info := range s.client.ListObjects(lctx, s.bucket, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: startAfter,
		MaxKeys:    pageSize,
	}) {
		if info.Err != nil {
			return nil, nil, fmt.Errorf("list objects: %w", info.Err)
		}
		listed++
		lastKey = info.Key
		if hasAudioExt(info.Key, s.audioExt) {
			objects = append(objects, Object{
				Path: info.Key,
				Name: Basename(info.Key),
				Size: info.Size,
			})
		}
		if listed >= pageSize {
			// Stop the listing goroutine; anything past this key belongs
			// to the next page.
			cancel()
			break
		}
	}

	if listed < pageSize {
		return objects, nil, nil
	}
	return objects, &Cursor{
		Kind:     ModePrivileged,
		Value:    lastKey,
		Prefix:   prefix,
		PageSize: pageSize,
	}, nil
}

// SignedURL mints a presigned URL. Write URLs are pinned to the request
// content type so the capability cannot be reused to upload arbitrary media.
func (s *MinioStore) SignedURL(ctx context.Context, req SignRequest) (string, error) {
	switch req.Action {
	case SignWrite:
		headers := http.Header{}
		if req.ContentType != "" {
			headers.Set("Content-Type", req.ContentType)
		}
		u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, req.Path, req.TTL, url.Values{}, headers)
		if err != nil {
			return "", fmt.Errorf("presign upload url: %w", err)
		}
		return u.String(), nil
	case SignRead:
		u, err := s.client.PresignedGetObject(ctx, s.bucket, req.Path, req.TTL, url.Values{})
		if err != nil {
			return "", fmt.Errorf("presign read url: %w", err)
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unknown sign action %q", req.Action)
	}
}

// Get opens the object bytes for reading. The caller closes the reader.
func (s *MinioStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", path, err)
	}
	return obj, nil
}

// Put writes one object. Pass size -1 when it is unknown; the client falls
// back to multipart streaming.
func (s *MinioStore) Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", path, err)
	}
	return nil
}

// Delete removes one object. A missing key is reported as ErrNotFound rather
// than the silent success S3 would give.
func (s *MinioStore) Delete(ctx context.Context, path string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{}); err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return ErrNotFound
		}
		return fmt.Errorf("stat object: %w", err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

var _ ObjectStore = (*MinioStore)(nil)
