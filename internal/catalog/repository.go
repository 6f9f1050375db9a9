package catalog

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context, sessionID string) ([]*Asset, error)
	DeleteAsset(ctx context.Context, id string) (bool, error)

	CreateExport(ctx context.Context, export *Export) error
	GetExport(ctx context.Context, id string) (*Export, error)
	ListExports(ctx context.Context, sessionID string, limit int) ([]*Export, error)
	UpdateExportStatus(ctx context.Context, id, status, outputPath, errorMsg string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, kind, filename, content_type, size, path, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Kind, a.Filename, a.ContentType, a.Size, a.Path, nullString(a.SessionID), a.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, filename, content_type, size, path, session_id, created_at
		FROM assets WHERE id = ?
	`, id)

	a, err := scanAsset(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *SQLiteRepository) ListAssets(ctx context.Context, sessionID string) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, filename, content_type, size, path, session_id, created_at
		FROM assets WHERE session_id = ? ORDER BY created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// DeleteAsset reports whether a row was actually removed.
func (r *SQLiteRepository) DeleteAsset(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanAsset(scan func(dest ...any) error) (*Asset, error) {
	var a Asset
	var sessionID sql.NullString
	var createdAt string

	if err := scan(&a.ID, &a.Kind, &a.Filename, &a.ContentType, &a.Size, &a.Path, &sessionID, &createdAt); err != nil {
		return nil, err
	}
	a.SessionID = sessionID.String
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

func (r *SQLiteRepository) CreateExport(ctx context.Context, e *Export) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exports (id, session_id, format, status, output_path, segment_count, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.SessionID, e.Format, e.Status, nullString(e.OutputPath), e.SegmentCount, nullString(e.Error),
		e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetExport(ctx context.Context, id string) (*Export, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, format, status, output_path, segment_count, error, created_at, updated_at
		FROM exports WHERE id = ?
	`, id)

	e, err := scanExport(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *SQLiteRepository) ListExports(ctx context.Context, sessionID string, limit int) ([]*Export, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, format, status, output_path, segment_count, error, created_at, updated_at
		FROM exports WHERE session_id = ? ORDER BY created_at DESC LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*Export
	for rows.Next() {
		e, err := scanExport(rows.Scan)
		if err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

func (r *SQLiteRepository) UpdateExportStatus(ctx context.Context, id, status, outputPath, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE exports SET status = ?, output_path = COALESCE(?, output_path), error = ?, updated_at = ?
		WHERE id = ?
	`, status, nullString(outputPath), nullString(errorMsg), time.Now().Format(time.RFC3339), id)
	return err
}

func scanExport(scan func(dest ...any) error) (*Export, error) {
	var e Export
	var outputPath, errMsg sql.NullString
	var createdAt, updatedAt string

	if err := scan(&e.ID, &e.SessionID, &e.Format, &e.Status, &outputPath, &e.SegmentCount, &errMsg, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.OutputPath = outputPath.String
	e.Error = errMsg.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &e, nil
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
