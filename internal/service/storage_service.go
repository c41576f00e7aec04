// backend-go/internal/service/storage_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/radiocast/backend-go/internal/audit"
	"github.com/radiocast/backend-go/internal/auth"
	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/reconcile"
	"github.com/radiocast/backend-go/internal/repository"
	"github.com/radiocast/backend-go/internal/search"
	"github.com/radiocast/backend-go/internal/storage"
)

// ErrForbidden is returned before any backend call when the actor lacks the
// role or assignment for an operation.
var ErrForbidden = errors.New("you do not have permission to perform this action")

// ErrInvalidDate rejects upload requests whose broadcast date is not a
// calendar date. The value is embedded verbatim in the object key, so
// anything but YYYY-MM-DD could steer the write URL outside the derived key.
var ErrInvalidDate = errors.New("broadcasted_date must be a calendar date formatted YYYY-MM-DD")

// BrowsePage is one page of the reconciliation browse view. CatalogError is
// set when the object listing succeeded but the catalog join did not; the
// items are then served unlinked rather than failing the whole page.
type BrowsePage struct {
	Items         []domain.ReconciledItem `json:"items"`
	NextPageToken string                  `json:"nextPageToken"`
	CatalogError  string                  `json:"catalogError,omitempty"`
}

// StorageService fronts the reconciliation core: browse, streaming search,
// stats, upload tickets and object deletion.
type StorageService struct {
	selector   storage.Provider
	paginator  *storage.Paginator
	signer     *storage.Signer
	builder    *reconcile.Builder
	engine     *search.Engine
	programmes repository.ProgrammeRepository
	authorizer *auth.Authorizer
	recorder   *audit.Recorder
	prefix     string
	audioExt   string
}

func NewStorageService(
	selector storage.Provider,
	paginator *storage.Paginator,
	signer *storage.Signer,
	builder *reconcile.Builder,
	engine *search.Engine,
	programmes repository.ProgrammeRepository,
	authorizer *auth.Authorizer,
	recorder *audit.Recorder,
	prefix, audioExt string,
) *StorageService {
	return &StorageService{
		selector:   selector,
		paginator:  paginator,
		signer:     signer,
		builder:    builder,
		engine:     engine,
		programmes: programmes,
		authorizer: authorizer,
		recorder:   recorder,
		prefix:     prefix,
		audioExt:   audioExt,
	}
}

// Browse returns one reconciled page of the storage listing.
func (s *StorageService) Browse(ctx context.Context, limit int, pageToken string) (*BrowsePage, error) {
	objects, next, err := s.paginator.Page(ctx, s.prefix, limit, pageToken)
	if err != nil {
		return nil, err
	}

	items, err := s.builder.Build(ctx, objects)
	if err != nil {
		// The objects are already in hand; a catalog outage degrades the
		// page to unlinked items with an error marker instead of a 502.
		log.Warn().Err(err).Msg("catalog join failed, serving unlinked page")
		items = make([]domain.ReconciledItem, len(objects))
		for i, obj := range objects {
			items[i] = domain.ReconciledItem{Path: obj.Path, Name: obj.Name, Size: obj.Size}
		}
		return &BrowsePage{Items: items, NextPageToken: next, CatalogError: err.Error()}, nil
	}

	return &BrowsePage{Items: items, NextPageToken: next}, nil
}

// Search starts a full-corpus streaming search.
func (s *StorageService) Search(ctx context.Context, query string) <-chan search.Event {
	return s.engine.Run(ctx, query)
}

// Stats drains the corpus for a total object count and joins it with the
// published count from the catalog.
func (s *StorageService) Stats(ctx context.Context) (*domain.StorageStats, error) {
	result, err := s.paginator.Drain(ctx, s.prefix, func([]storage.Object) error { return nil })
	if err != nil {
		return nil, err
	}

	published, err := s.programmes.CountPublished(ctx)
	if err != nil {
		return nil, err
	}

	remaining := result.Scanned - published
	if remaining < 0 {
		remaining = 0
	}
	return &domain.StorageStats{
		Total:     result.Scanned,
		Published: published,
		Remaining: remaining,
		Truncated: result.Truncated,
	}, nil
}

// UploadRequest carries the fields the path is derived from.
type UploadRequest struct {
	CategoryName    string `json:"category_name" binding:"required"`
	SubcategoryName string `json:"subcategory_name" binding:"required"`
	BroadcastedDate string `json:"broadcasted_date" binding:"required"`
	ContentType     string `json:"content_type"`
}

// RequestUpload derives the object path deterministically from the request
// fields plus a timestamp and mints a 1-hour write URL for it. Viewers are
// denied; uploading is open to every other authenticated role.
func (s *StorageService) RequestUpload(ctx context.Context, actor domain.Actor, req UploadRequest) (*domain.UploadTicket, error) {
	if actor.Role == domain.RoleViewer || actor.Role == "" {
		return nil, ErrForbidden
	}
	if _, err := time.Parse("2006-01-02", req.BroadcastedDate); err != nil {
		return nil, ErrInvalidDate
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	path := fmt.Sprintf("%s%s_%s_%s_%d%s",
		s.prefix,
		sanitizeName(req.CategoryName),
		sanitizeName(req.SubcategoryName),
		req.BroadcastedDate,
		time.Now().Unix(),
		s.audioExt,
	)

	url, err := s.signer.UploadURL(ctx, path, contentType)
	if err != nil {
		return nil, err
	}

	return &domain.UploadTicket{UploadURL: url, Path: path}, nil
}

// DeleteObject removes one object after authorizing the actor against the
// catalog entity owning the path, if any. Authorization runs before the
// store is touched, so a denied actor cannot probe object existence.
func (s *StorageService) DeleteObject(ctx context.Context, actor domain.Actor, path string) error {
	var categoryID, subcategoryID *int64
	owner, err := s.programmes.ByStoragePath(ctx, path)
	switch {
	case err == nil:
		categoryID = &owner.CategoryID
		subcategoryID = owner.SubcategoryID
	case errors.Is(err, repository.ErrNotFound):
		// No owning entity: only admins pass the nil/nil check below.
	default:
		return err
	}

	allowed, err := s.authorizer.CanMutate(ctx, actor, categoryID, subcategoryID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}

	store, err := s.selector.Select()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, path); err != nil {
		return err
	}

	s.recorder.Record(ctx, domain.AuditEvent{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "storage.delete",
		EntityType: "storage_object",
		EntityID:   path,
	})
	log.Info().Str("path", path).Int64("actor_id", actor.ID).Msg("storage object deleted")
	return nil
}

// sanitizeName lowercases a category or subcategory name and strips it to
// letters, digits and single dashes so it can be embedded in an object key.
func sanitizeName(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
