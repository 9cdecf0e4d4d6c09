package document

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the sqlite driver

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS documents (
	key TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT 0
)`

// SQLiteRepository stores the document in a single row of a SQLite file
type SQLiteRepository struct {
	sqlDB *sql.DB
	key   string
}

// OpenSQLite opens the database at path, creating the schema when needed
func OpenSQLite(path, key string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("sqlite path is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "open sqlite db")
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "ping sqlite db").WithMeta("path", cleanPath)
	}

	if _, err := sqlDB.Exec(createDocumentsTable); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "create documents table")
	}

	return &SQLiteRepository{sqlDB: sqlDB, key: key}, nil
}

// Close releases the underlying SQLite connection
func (r *SQLiteRepository) Close() error {
	if r == nil || r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}

// Load returns the saved document text
func (r *SQLiteRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	row := r.sqlDB.QueryRowContext(ctx, `SELECT data, updated_at FROM documents WHERE key = ?`, r.key)

	output := &LoadOutput{}
	if err := row.Scan(&output.Data, &output.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return &LoadOutput{}, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("load document %s", r.key))
	}
	output.Found = true
	return output, nil
}

// Save upserts the document text
func (r *SQLiteRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.Data == "" {
		return nil, errors.InvalidArgument(errDataEmpty)
	}

	_, err := r.sqlDB.ExecContext(
		ctx,
		`INSERT INTO documents (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		    data = excluded.data,
		    updated_at = excluded.updated_at`,
		r.key, input.Data, input.UpdatedAt,
	)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("save document %s", r.key))
	}
	return &SaveOutput{}, nil
}

// Clear deletes the document row
func (r *SQLiteRepository) Clear(ctx context.Context, input *ClearInput) (*ClearOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	result, err := r.sqlDB.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, r.key)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("clear document %s", r.key))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "clear document rows affected")
	}
	return &ClearOutput{Existed: affected > 0}, nil
}
