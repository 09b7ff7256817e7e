package photo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultRepoTimeout = 5 * time.Second

// The cursor predicate compares the same tuple, in the same order, that the
// listing sorts by. Both columns sort DESC, so "after" means "<".
const (
	selectRecords = `
SELECT photo_name, bucket_name, file_size, upload_time, content_type
FROM photo_metadata`
	keysetOrder = `
ORDER BY upload_time DESC, photo_name DESC`

	listQuery      = selectRecords + keysetOrder + "\nLIMIT $1;"
	listAfterQuery = selectRecords + "\nWHERE (upload_time, photo_name) < ($1, $2)" + keysetOrder + "\nLIMIT $3;"
)

// Repository provides access to photo metadata storage.
type Repository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewRepository builds a new photo metadata repository. Each call is bounded by timeout.
func NewRepository(pool *pgxpool.Pool, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = defaultRepoTimeout
	}
	return &Repository{pool: pool, timeout: timeout}
}

// Upsert writes rec keyed by photo name. Writing the same record twice leaves one row.
func (r *Repository) Upsert(ctx context.Context, rec Record) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
INSERT INTO photo_metadata (photo_name, bucket_name, file_size, upload_time, content_type)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (photo_name) DO UPDATE
SET bucket_name  = EXCLUDED.bucket_name,
    file_size    = EXCLUDED.file_size,
    upload_time  = EXCLUDED.upload_time,
    content_type = EXCLUDED.content_type;`

	if _, err := r.pool.Exec(ctx, query,
		rec.PhotoName,
		rec.BucketName,
		rec.FileSize,
		rec.UploadTime,
		rec.ContentType,
	); err != nil {
		return fmt.Errorf("upsert photo metadata %q: %w", rec.PhotoName, err)
	}
	return nil
}

// List returns up to limit records, most recent first, starting after cursor when given.
func (r *Repository) List(ctx context.Context, limit int, after *Cursor) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		rows, err = r.pool.Query(ctx, listQuery, limit)
	} else {
		rows, err = r.pool.Query(ctx, listAfterQuery, after.UploadTime, after.PhotoName, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list photo metadata: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.PhotoName, &rec.BucketName, &rec.FileSize, &rec.UploadTime, &rec.ContentType); err != nil {
			return nil, fmt.Errorf("scan photo metadata: %w", err)
		}
		rec.UploadTime = rec.UploadTime.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photo metadata: %w", err)
	}
	return records, nil
}

