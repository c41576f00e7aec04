// backend-go/internal/domain/models.go
package domain

import "time"

// Role is the coarse access level carried by an authenticated actor.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleProgrammeManager Role = "programme_manager"
	RoleViewer           Role = "viewer"
)

// Actor is the opaque identity the session layer hands us: an id and a role.
// Session/cookie mechanics live outside this backend.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// Programme is one published catalog entry. StoragePath joins it back to the
// object store; StorageURL is a long-lived read URL snapshot taken at publish
// time, not re-derived on every read.
type Programme struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	BroadcastedDate string    `json:"broadcasted_date" db:"broadcasted_date"`
	CategoryID      int64     `json:"category_id" db:"category_id"`
	SubcategoryID   *int64    `json:"subcategory_id,omitempty" db:"subcategory_id"`
	StoragePath     string    `json:"storage_path" db:"storage_path"`
	StorageURL      string    `json:"storage_url" db:"storage_url"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Assignment grants a programme-manager actor mutation rights within one
// category or one subcategory. Admin CRUD owns the lifecycle; read-only here.
type Assignment struct {
	ID            int64  `json:"id" db:"id"`
	UserID        int64  `json:"user_id" db:"user_id"`
	CategoryID    *int64 `json:"category_id,omitempty" db:"category_id"`
	SubcategoryID *int64 `json:"subcategory_id,omitempty" db:"subcategory_id"`
}

// ReconciledItem is the ephemeral join of one storage object with its catalog
// entry, if any. Built per request, never persisted.
type ReconciledItem struct {
	Path    string     `json:"path"`
	Name    string     `json:"name"`
	Size    int64      `json:"size"`
	ReadURL string     `json:"read_url,omitempty"`
	Linked  *Programme `json:"linked"`
}

// StorageStats summarizes the reconciliation state of the whole corpus.
type StorageStats struct {
	Total     int  `json:"total"`
	Published int  `json:"published"`
	Remaining int  `json:"remaining"`
	Truncated bool `json:"truncated,omitempty"`
}

// UploadTicket is the response to an upload-URL request: where to PUT the
// bytes and the object path the catalog entry should later reference.
type UploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	Path      string `json:"path"`
}

// AuditEvent is one append-only record of a state-mutating call.
type AuditEvent struct {
	ID          string    `json:"id" db:"id"`
	ActorID     int64     `json:"actor_id" db:"actor_id"`
	ActorRole   Role      `json:"actor_role" db:"actor_role"`
	Action      string    `json:"action" db:"action"`
	EntityType  string    `json:"entity_type,omitempty" db:"entity_type"`
	EntityID    string    `json:"entity_id,omitempty" db:"entity_id"`
	EntityTitle string    `json:"entity_title,omitempty" db:"entity_title"`
	Details     string    `json:"details,omitempty" db:"details"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
