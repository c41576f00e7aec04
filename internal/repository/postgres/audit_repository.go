// backend-go/internal/repository/postgres/audit_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
)

type auditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

// Insert appends one event. The table is append-only; no update or delete
// path exists anywhere in the codebase.
func (r *auditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			id, actor_id, actor_role, action,
			entity_type, entity_id, entity_title, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, event.ID, event.ActorID, event.ActorRole, event.Action,
		event.EntityType, event.EntityID, event.EntityTitle, event.Details,
		event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
