// backend-go/internal/repository/postgres/assignment_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ForUser(ctx context.Context, userID int64) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	err := sqlx.SelectContext(ctx, r.db, &assignments, `
		SELECT id, user_id, category_id, subcategory_id
		FROM assignments
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query assignments for user %d: %w", userID, err)
	}
	return assignments, nil
}
