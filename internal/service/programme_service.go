// backend-go/internal/service/programme_service.go
package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/radiocast/backend-go/internal/audit"
	"github.com/radiocast/backend-go/internal/auth"
	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
	"github.com/radiocast/backend-go/internal/storage"
)

// ProgrammeService owns catalog mutations. Every mutation passes the
// authorization engine first and records exactly one audit event on success.
type ProgrammeService struct {
	programmes repository.ProgrammeRepository
	authorizer *auth.Authorizer
	recorder   *audit.Recorder
	signer     *storage.Signer
}

func NewProgrammeService(
	programmes repository.ProgrammeRepository,
	authorizer *auth.Authorizer,
	recorder *audit.Recorder,
	signer *storage.Signer,
) *ProgrammeService {
	return &ProgrammeService{
		programmes: programmes,
		authorizer: authorizer,
		recorder:   recorder,
		signer:     signer,
	}
}

// Create publishes a programme. When a storage path is attached, the
// long-lived read URL is minted once here and snapshotted into the row; it
// is never re-derived on reads, so playback needs no refresh job.
func (s *ProgrammeService) Create(ctx context.Context, actor domain.Actor, p *domain.Programme) error {
	allowed, err := s.authorizer.CanMutate(ctx, actor, &p.CategoryID, p.SubcategoryID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}

	if p.StoragePath != "" {
		url, err := s.signer.PublishedURL(ctx, p.StoragePath)
		if err != nil {
			return fmt.Errorf("issue published url: %w", err)
		}
		p.StorageURL = url
	}

	if err := s.programmes.Create(ctx, p); err != nil {
		return err
	}

	s.record(ctx, actor, "programme.create", p)
	return nil
}

// Update rewrites a programme. Authorization is evaluated against both the
// current and the target category, so a programme manager can neither edit
// an entity outside their assignments nor move one into a category they are
// not assigned to.
func (s *ProgrammeService) Update(ctx context.Context, actor domain.Actor, p *domain.Programme) error {
	// Roles that can never mutate are rejected before the row is even
	// looked up, so they cannot probe catalog ids.
	if actor.Role == domain.RoleViewer || actor.Role == "" {
		return ErrForbidden
	}

	current, err := s.programmes.ByID(ctx, p.ID)
	if err != nil {
		return err
	}

	for _, scope := range []*domain.Programme{current, p} {
		allowed, err := s.authorizer.CanMutate(ctx, actor, &scope.CategoryID, scope.SubcategoryID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrForbidden
		}
	}

	if p.StoragePath != "" && p.StoragePath != current.StoragePath {
		url, err := s.signer.PublishedURL(ctx, p.StoragePath)
		if err != nil {
			return fmt.Errorf("issue published url: %w", err)
		}
		p.StorageURL = url
	} else if p.StorageURL == "" {
		p.StorageURL = current.StorageURL
	}

	if err := s.programmes.Update(ctx, p); err != nil {
		return err
	}

	s.record(ctx, actor, "programme.update", p)
	return nil
}

// Delete removes a programme after authorizing against its category.
// Authorization is checked before existence is disclosed: an actor without
// rights to the entity's category gets ErrForbidden, not a 404 probe.
func (s *ProgrammeService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if actor.Role == domain.RoleViewer || actor.Role == "" {
		return ErrForbidden
	}

	current, err := s.programmes.ByID(ctx, id)
	if err != nil {
		return err
	}

	allowed, err := s.authorizer.CanMutate(ctx, actor, &current.CategoryID, current.SubcategoryID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}

	if err := s.programmes.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "programme.delete", current)
	return nil
}

func (s *ProgrammeService) record(ctx context.Context, actor domain.Actor, action string, p *domain.Programme) {
	s.recorder.Record(ctx, domain.AuditEvent{
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Action:      action,
		EntityType:  "programme",
		EntityID:    strconv.FormatInt(p.ID, 10),
		EntityTitle: p.Title,
	})
}
