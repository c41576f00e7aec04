// backend-go/internal/auth/authorizer.go
package auth

import (
	"context"
	"fmt"

	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
)

// Authorizer decides whether an actor may mutate catalog entities.
// Admins may mutate anything, viewers nothing, programme managers only the
// categories or subcategories they hold an assignment for. Unknown roles are
// denied.
type Authorizer struct {
	assignments repository.AssignmentRepository
}

func NewAuthorizer(assignments repository.AssignmentRepository) *Authorizer {
	return &Authorizer{assignments: assignments}
}

// CanMutate reports whether actor may create, update or delete an entity
// living under the given category/subcategory. Callers re-check against the
// target category when an update moves an entity, so a programme manager
// cannot move an item into a category they are not assigned to.
func (a *Authorizer) CanMutate(ctx context.Context, actor domain.Actor, categoryID, subcategoryID *int64) (bool, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return true, nil
	case domain.RoleViewer:
		return false, nil
	case domain.RoleProgrammeManager:
		if categoryID == nil && subcategoryID == nil {
			return false, nil
		}
		assignments, err := a.assignments.ForUser(ctx, actor.ID)
		if err != nil {
			return false, fmt.Errorf("load assignments: %w", err)
		}
		for _, assignment := range assignments {
			if categoryID != nil && assignment.CategoryID != nil && *assignment.CategoryID == *categoryID {
				return true, nil
			}
			if subcategoryID != nil && assignment.SubcategoryID != nil && *assignment.SubcategoryID == *subcategoryID {
				return true, nil
			}
		}
		return false, nil
	default:
		// Default-deny for anything unrecognized.
		return false, nil
	}
}
