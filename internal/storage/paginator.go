package storage

import (
	"context"
	"errors"
	"fmt"
)

const (
	// DefaultPageSize is the browse page size when the caller does not ask
	// for one.
	DefaultPageSize = 50

	// drainBatchSize is the fixed batch size used by full-corpus drains.
	drainBatchSize = 500

	// DrainCap bounds a drain against a runaway or enormous bucket. It
	// counts keys listed from the backend, not audio objects surfaced, so a
	// bucket full of non-audio noise is bounded too. Hitting it stops the
	// scan and reports a truncated partial result instead of hanging.
	DrainCap = 50000
)

// Paginator drives repeated prefix listings through opaque page tokens,
// normalizing the two backends' cursor shapes at its boundary.
type Paginator struct {
	selector Provider
}

func NewPaginator(selector Provider) *Paginator {
	return &Paginator{selector: selector}
}

// Page fetches exactly one page. The returned token is "" when the listing
// is exhausted. A token minted against the other backend tier, or under a
// different (prefix, pageSize), restarts the listing from the beginning
// rather than resuming inconsistently.
func (p *Paginator) Page(ctx context.Context, prefix string, pageSize int, pageToken string) ([]Object, string, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	store, err := p.selector.Select()
	if err != nil {
		return nil, "", err
	}

	cursor, err := DecodeCursor(pageToken, store.Mode(), prefix, pageSize)
	if err != nil {
		if errors.Is(err, ErrCursorInvalid) {
			// Backend switched mid-session or the token was tampered
			// with; a forward-only cursor cannot be translated, so the
			// scan restarts.
			cursor = nil
		} else {
			return nil, "", err
		}
	}

	objects, next, err := store.ListPage(ctx, prefix, pageSize, cursor)
	if err != nil {
		return nil, "", fmt.Errorf("list page: %w", err)
	}
	return objects, EncodeCursor(next), nil
}

// DrainResult reports how a full drain ended.
type DrainResult struct {
	Scanned   int
	Truncated bool
}

// Drain walks every page under prefix, handing each batch to fn before the
// next backend call is issued. It stops at the first of: listing exhausted,
// fn returning an error, ctx cancelled (checked at each batch boundary), or
// the DrainCap reached, in which case the result is marked truncated.
func (p *Paginator) Drain(ctx context.Context, prefix string, fn func(batch []Object) error) (DrainResult, error) {
	var res DrainResult
	listed := 0
	token := ""
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		objects, next, err := p.Page(ctx, prefix, drainBatchSize, token)
		if err != nil {
			return res, err
		}
		res.Scanned += len(objects)

		if len(objects) > 0 {
			if err := fn(objects); err != nil {
				return res, err
			}
		}

		if next == "" {
			return res, nil
		}
		// A continuation token means the backend listed a full batch of raw
		// keys, whatever the audio filter let through.
		listed += drainBatchSize
		if listed >= DrainCap {
			res.Truncated = true
			return res, nil
		}
		token = next
	}
}
