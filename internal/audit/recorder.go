// backend-go/internal/audit/recorder.go
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
)

// Recorder appends audit events best-effort. A failed write is logged and
// swallowed; it never surfaces to the caller and never rolls back the
// mutation that triggered it.
type Recorder struct {
	repo repository.AuditRepository
}

func NewRecorder(repo repository.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record appends one event for a successful state-mutating operation.
// Callers invoke it after the mutation commits, never for reads or failed
// mutations.
func (r *Recorder) Record(ctx context.Context, event domain.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := r.repo.Insert(ctx, event); err != nil {
		log.Error().Err(err).
			Str("action", event.Action).
			Int64("actor_id", event.ActorID).
			Msg("failed to record audit event")
	}
}
