// backend-go/internal/repository/catalog_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/radiocast/backend-go/internal/domain"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

type ProgrammeRepository interface {
	// ByStoragePaths resolves a batch of object paths to their published
	// programmes in one query, keyed by storage path.
	ByStoragePaths(ctx context.Context, paths []string) (map[string]*domain.Programme, error)

	// TitleMatchPaths returns the storage paths of programmes whose title
	// contains q, case-insensitively.
	TitleMatchPaths(ctx context.Context, q string) ([]string, error)

	ByID(ctx context.Context, id int64) (*domain.Programme, error)
	ByStoragePath(ctx context.Context, path string) (*domain.Programme, error)
	Create(ctx context.Context, p *domain.Programme) error
	Update(ctx context.Context, p *domain.Programme) error
	Delete(ctx context.Context, id int64) error
	CountPublished(ctx context.Context) (int, error)
}

type AssignmentRepository interface {
	// ForUser returns every category/subcategory grant held by one user.
	ForUser(ctx context.Context, userID int64) ([]domain.Assignment, error)
}

type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

type SettingRepository interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
}
