// backend-go/internal/repository/postgres/programme_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
)

type programmeRepository struct {
	db *DB
}

func NewProgrammeRepository(db *DB) repository.ProgrammeRepository {
	return &programmeRepository{db: db}
}

const programmeColumns = `
	id, title, broadcasted_date, category_id, subcategory_id,
	firebase_storage_path AS storage_path,
	firebase_storage_url AS storage_url,
	created_at, updated_at
`

// ByStoragePaths resolves the whole batch with a single IN query. Browse and
// search join every page against the catalog, so one round-trip per object
// would dominate the request at scale.
func (r *programmeRepository) ByStoragePaths(ctx context.Context, paths []string) (map[string]*domain.Programme, error) {
	result := make(map[string]*domain.Programme, len(paths))
	if len(paths) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+programmeColumns+` FROM programmes WHERE firebase_storage_path IN (?)`, paths)
	if err != nil {
		return nil, fmt.Errorf("build storage path query: %w", err)
	}

	var rows []*domain.Programme
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query programmes by storage path: %w", err)
	}

	for _, p := range rows {
		result[p.StoragePath] = p
	}
	return result, nil
}

func (r *programmeRepository) TitleMatchPaths(ctx context.Context, q string) ([]string, error) {
	var paths []string
	err := sqlx.SelectContext(ctx, r.db, &paths,
		`SELECT firebase_storage_path FROM programmes
		 WHERE title ILIKE '%' || $1 || '%' AND firebase_storage_path <> ''`, q)
	if err != nil {
		return nil, fmt.Errorf("query programmes by title: %w", err)
	}
	return paths, nil
}

func (r *programmeRepository) ByID(ctx context.Context, id int64) (*domain.Programme, error) {
	var p domain.Programme
	err := sqlx.GetContext(ctx, r.db, &p,
		`SELECT `+programmeColumns+` FROM programmes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query programme %d: %w", id, err)
	}
	return &p, nil
}

func (r *programmeRepository) ByStoragePath(ctx context.Context, path string) (*domain.Programme, error) {
	var p domain.Programme
	err := sqlx.GetContext(ctx, r.db, &p,
		`SELECT `+programmeColumns+` FROM programmes WHERE firebase_storage_path = $1`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query programme by path %s: %w", path, err)
	}
	return &p, nil
}

func (r *programmeRepository) Create(ctx context.Context, p *domain.Programme) error {
	query := `
		INSERT INTO programmes (
			title, broadcasted_date, category_id, subcategory_id,
			firebase_storage_path, firebase_storage_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.Title, p.BroadcastedDate, p.CategoryID, p.SubcategoryID,
		p.StoragePath, p.StorageURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert programme: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of one programme. The current row is
// re-read inside the transaction so a concurrent delete surfaces as
// ErrNotFound rather than a silent no-op.
func (r *programmeRepository) Update(ctx context.Context, p *domain.Programme) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var lockedID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM programmes WHERE id = $1 FOR UPDATE`, p.ID,
		).Scan(&lockedID)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock programme %d: %w", p.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE programmes SET
				title = $2, broadcasted_date = $3, category_id = $4,
				subcategory_id = $5, firebase_storage_path = $6,
				firebase_storage_url = $7, updated_at = NOW()
			WHERE id = $1
		`, p.ID, p.Title, p.BroadcastedDate, p.CategoryID, p.SubcategoryID,
			p.StoragePath, p.StorageURL)
		if err != nil {
			return fmt.Errorf("update programme %d: %w", p.ID, err)
		}
		p.UpdatedAt = time.Now()
		return nil
	})
}

func (r *programmeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programmes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete programme %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *programmeRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count,
		`SELECT COUNT(*) FROM programmes WHERE firebase_storage_path <> ''`)
	if err != nil {
		return 0, fmt.Errorf("count published programmes: %w", err)
	}
	return count, nil
}
