package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lib/pq"
	"github.com/princekumarofficial/upload-service/internal/config"
	"github.com/princekumarofficial/upload-service/internal/types"
)

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Connected to Postgres database", slog.String("host", cfg.PGSQL.Host))

	pg := &Postgres{Db: db}
	if err := pg.CreateTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) CreateTables() error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS uploads (
			id SERIAL PRIMARY KEY,
			file_name TEXT NOT NULL,
			path TEXT NOT NULL,
			media_type VARCHAR(255) NOT NULL,
			declared_size BIGINT NOT NULL,
			client_addr VARCHAR(255) NOT NULL DEFAULT '',
			request_id VARCHAR(64) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'stored' CHECK (status IN ('stored', 'missing')),
			stored_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`CREATE INDEX IF NOT EXISTS uploads_stored_at_idx ON uploads (stored_at DESC);`,
	}

	for _, q := range queries {
		if _, err := p.Db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

func (p *Postgres) RecordUpload(ctx context.Context, rec types.UploadRecord) (string, error) {
	var id int64
	query := `
	INSERT INTO uploads (file_name, path, media_type, declared_size, client_addr, request_id, status, stored_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query,
		rec.FileName, rec.Path, rec.MediaType, rec.DeclaredSize,
		rec.ClientAddr, rec.RequestID, string(rec.Status), rec.StoredAt,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(id, 10), nil
}

func (p *Postgres) ListUploads(ctx context.Context, statuses []types.UploadStatus, limit int) ([]types.UploadRecord, error) {
	var filter []string
	for _, s := range statuses {
		filter = append(filter, string(s))
	}

	query := `
	SELECT id, file_name, path, media_type, declared_size, client_addr, request_id, status, stored_at
	FROM uploads
	WHERE $1::text[] IS NULL OR status = ANY($1)
	ORDER BY stored_at DESC, id DESC
	LIMIT $2
	`

	rows, err := p.Db.QueryContext(ctx, query, pq.Array(filter), limit)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func (p *Postgres) ScanUploads(ctx context.Context, status types.UploadStatus, afterID string, limit int) ([]types.UploadRecord, error) {
	var after int64
	if afterID != "" {
		id, err := strconv.ParseInt(afterID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor %q: %w", afterID, err)
		}
		after = id
	}

	query := `
	SELECT id, file_name, path, media_type, declared_size, client_addr, request_id, status, stored_at
	FROM uploads
	WHERE status = $1 AND id > $2
	ORDER BY id
	LIMIT $3
	`

	rows, err := p.Db.QueryContext(ctx, query, string(status), after, limit)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]types.UploadRecord, error) {
	defer rows.Close()

	records := []types.UploadRecord{}
	for rows.Next() {
		var (
			rec    types.UploadRecord
			id     int64
			status string
		)
		if err := rows.Scan(&id, &rec.FileName, &rec.Path, &rec.MediaType, &rec.DeclaredSize,
			&rec.ClientAddr, &rec.RequestID, &status, &rec.StoredAt); err != nil {
			return nil, err
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.Status = types.UploadStatus(status)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (p *Postgres) MarkMissing(ctx context.Context, id string) error {
	result, err := p.Db.ExecContext(ctx, `UPDATE uploads SET status = 'missing' WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}
