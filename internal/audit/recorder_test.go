package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiocast/backend-go/internal/domain"
)

type captureAuditRepo struct {
	events []domain.AuditEvent
	err    error
}

func (r *captureAuditRepo) Insert(ctx context.Context, event domain.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func TestRecordFillsIDAndTimestamp(t *testing.T) {
	repo := &captureAuditRepo{}
	recorder := NewRecorder(repo)

	recorder.Record(context.Background(), domain.AuditEvent{
		ActorID:    7,
		ActorRole:  domain.RoleAdmin,
		Action:     "programme.create",
		EntityType: "programme",
		EntityID:   "42",
	})

	require.Len(t, repo.events, 1)
	got := repo.events[0]
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, "programme.create", got.Action)
}

func TestRecordSwallowsInsertFailure(t *testing.T) {
	recorder := NewRecorder(&captureAuditRepo{err: assert.AnError})

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), domain.AuditEvent{Action: "storage.delete"})
	})
}
