package storage

import (
	"context"
	"time"
)

// URL lifetimes. Upload and preview URLs lean on a short TTL instead of
// single-use enforcement. The published-read TTL is deliberately long: the
// URL is snapshotted into the catalog row at publish time and must stay
// playable without a refresh job.
const (
	WriteURLTTL         = time.Hour
	PreviewReadURLTTL   = time.Hour
	PublishedReadURLTTL = 365 * 24 * time.Hour
)

// Signer issues time-boxed, action-scoped URLs against whichever backend the
// selector picks. When the backend cannot sign (credentials absent) the
// typed ErrNotConfigured surfaces; an unsigned or empty URL is never
// returned.
type Signer struct {
	selector Provider
}

func NewSigner(selector Provider) *Signer {
	return &Signer{selector: selector}
}

// UploadURL mints a 1-hour write URL pinned to contentType.
func (s *Signer) UploadURL(ctx context.Context, path, contentType string) (string, error) {
	store, err := s.selector.Select()
	if err != nil {
		return "", err
	}
	return store.SignedURL(ctx, SignRequest{
		Path:        path,
		Action:      SignWrite,
		ContentType: contentType,
		TTL:         WriteURLTTL,
	})
}

// PreviewURL mints a short-lived read URL for a reconciliation browse
// session.
func (s *Signer) PreviewURL(ctx context.Context, path string) (string, error) {
	return s.readURL(ctx, path, PreviewReadURLTTL)
}

// PublishedURL mints the long-lived read URL embedded in a catalog row when
// an item is published.
func (s *Signer) PublishedURL(ctx context.Context, path string) (string, error) {
	return s.readURL(ctx, path, PublishedReadURLTTL)
}

func (s *Signer) readURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	store, err := s.selector.Select()
	if err != nil {
		return "", err
	}
	return store.SignedURL(ctx, SignRequest{
		Path:   path,
		Action: SignRead,
		TTL:    ttl,
	})
}
