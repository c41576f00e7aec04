package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// Mode identifies which backend tier served a call. The cursor codec embeds it
// so a token minted against one tier is never replayed against the other.
type Mode string

const (
	// ModePrivileged is the service-credentialed S3 backend with native
	// list pagination.
	ModePrivileged Mode = "privileged"
	// ModeRestricted is the public gateway backend, api-key only, with
	// string page tokens.
	ModeRestricted Mode = "restricted"
)

var (
	// ErrNotConfigured means the selected backend cannot perform the
	// operation because its credentials are absent or invalid. Handlers map
	// it to 503 with a remediation hint; it is never swallowed into an
	// empty result.
	ErrNotConfigured = errors.New("object storage is not configured: set STORAGE_ENDPOINT, STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY")

	// ErrCursorInvalid means a page token does not fit the currently
	// selected backend or listing configuration. Callers restart from the
	// beginning instead of resuming.
	ErrCursorInvalid = errors.New("page token is not valid for the current listing; restart from the first page")

	// ErrNotFound means the referenced object path does not exist.
	ErrNotFound = errors.New("object not found")
)

// Object is one audio file as listed from the store. Lifecycle is owned by
// the external store; nothing here is cached beyond one request.
type Object struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SignAction scopes a signed URL to reads or writes.
type SignAction string

const (
	SignRead  SignAction = "read"
	SignWrite SignAction = "write"
)

// SignRequest describes one signed-URL mint.
type SignRequest struct {
	Path        string
	Action      SignAction
	ContentType string
	TTL         time.Duration
}

// ObjectStore is the capability surface shared by both backend tiers.
// ListPage surfaces only objects carrying the configured audio extension;
// non-audio noise never reaches callers.
type ObjectStore interface {
	Mode() Mode
	ListPage(ctx context.Context, prefix string, pageSize int, cursor *Cursor) ([]Object, *Cursor, error)
	SignedURL(ctx context.Context, req SignRequest) (string, error)
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, path string) error
}

// Basename extracts the object name from its full path.
func Basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// hasAudioExt reports whether path ends in ext, case-insensitively.
func hasAudioExt(path, ext string) bool {
	return ext != "" && strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext))
}
