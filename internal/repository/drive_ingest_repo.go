package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DriveIngestRepository tracks which Drive files were already copied into
// the object store, so repeated folder ingests stay idempotent.
type DriveIngestRepository struct {
	db *sql.DB
}

func NewDriveIngestRepository(db *sql.DB) *DriveIngestRepository {
	return &DriveIngestRepository{db: db}
}

// Ingested reports whether fileID was ingested before and the object path it
// landed at.
func (r *DriveIngestRepository) Ingested(ctx context.Context, fileID string) (bool, string, error) {
	var path string
	err := r.db.QueryRowContext(ctx,
		`SELECT storage_path FROM drive_ingests WHERE drive_file_id = $1`, fileID,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("query drive ingest %s: %w", fileID, err)
	}
	return true, path, nil
}

// MarkIngested records one completed transfer.
func (r *DriveIngestRepository) MarkIngested(ctx context.Context, fileID, fileName, path string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drive_ingests (drive_file_id, file_name, storage_path, ingested_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (drive_file_id)
		DO UPDATE SET file_name = EXCLUDED.file_name, storage_path = EXCLUDED.storage_path, ingested_at = NOW()
	`, fileID, fileName, path)
	if err != nil {
		return fmt.Errorf("record drive ingest %s: %w", fileID, err)
	}
	return nil
}
