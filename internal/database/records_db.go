// Package database provides the SQLite backed record store
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/go-while/go-shelflist/internal/models"
	"github.com/go-while/go-shelflist/internal/records"
)

// RecordsDB holds a record table imported from a CSV file.
// The table is stored column-agnostic: one header row per column and one
// cell per (row, column) so any CSV header round-trips unchanged.
type RecordsDB struct {
	db   *sql.DB
	path string
}

// ImportInfo describes the last import into the store
type ImportInfo struct {
	ID         int64
	Source     string
	Rows       int
	ImportedAt time.Time
}

const query_RecordsDB_initSchema = `
CREATE TABLE IF NOT EXISTS header (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cells (
	row_num INTEGER NOT NULL,
	position INTEGER NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	PRIMARY KEY(row_num, position)
);

CREATE TABLE IF NOT EXISTS imports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	rows INTEGER NOT NULL DEFAULT 0,
	imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// OpenRecordsDB opens (and creates if needed) the store for writing
func OpenRecordsDB(ctx context.Context, dbPath string) (*RecordsDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open records database: %w", err)
	}

	rdb := &RecordsDB{db: db, path: dbPath}
	if err := rdb.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return rdb, nil
}

// OpenRecordsDBReadOnly opens an existing store for serving.
// A missing file is reported as records.ErrSourceUnavailable.
func OpenRecordsDBReadOnly(dbPath string) (*RecordsDB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %w", records.ErrSourceUnavailable, err)
	}
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", records.ErrSourceUnavailable, dbPath, err)
	}
	return &RecordsDB{db: db, path: dbPath}, nil
}

func (r *RecordsDB) initSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, query_RecordsDB_initSchema)
	return err
}

// Close closes the underlying database
func (r *RecordsDB) Close() error {
	return r.db.Close()
}

// String identifies the source in log lines
func (r *RecordsDB) String() string {
	return "sqlite:" + r.path
}

// Import replaces the stored table with col in a single transaction
func (r *RecordsDB) Import(ctx context.Context, source string, col *models.Collection) error {
	return retryableTransactionExec(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cells`); err != nil {
			return fmt.Errorf("clear cells: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM header`); err != nil {
			return fmt.Errorf("clear header: %w", err)
		}

		headerStmt, err := tx.PrepareContext(ctx, `INSERT INTO header (position, name) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer headerStmt.Close()
		for pos, name := range col.Header {
			if _, err := headerStmt.ExecContext(ctx, pos, name); err != nil {
				return fmt.Errorf("insert header %q: %w", name, err)
			}
		}

		cellStmt, err := tx.PrepareContext(ctx, `INSERT INTO cells (row_num, position, value) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer cellStmt.Close()
		for rowNum, rec := range col.Records {
			for pos, name := range col.Header {
				if _, err := cellStmt.ExecContext(ctx, rowNum, pos, rec.Values[name]); err != nil {
					return fmt.Errorf("insert cell %d/%d: %w", rowNum, pos, err)
				}
			}
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO imports (source, rows) VALUES (?, ?)`, source, col.Len())
		return err
	})
}

// Load rebuilds the collection from the store. Nothing is cached.
func (r *RecordsDB) Load(ctx context.Context) (*models.Collection, error) {
	header, err := r.loadHeader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", records.ErrSourceUnavailable, r, err)
	}

	col := &models.Collection{Header: header}
	if len(header) == 0 {
		return col, nil
	}

	rows, err := retryableQuery(ctx, r.db, `SELECT row_num, position, value FROM cells ORDER BY row_num, position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", records.ErrSourceUnavailable, r, err)
	}
	defer rows.Close()

	currentRow := -1
	var cells []string
	flush := func() {
		if currentRow >= 0 {
			col.Records = append(col.Records, models.NewRecord(header, cells))
		}
	}
	for rows.Next() {
		var rowNum, pos int
		var value string
		if err := rows.Scan(&rowNum, &pos, &value); err != nil {
			return nil, fmt.Errorf("%w: scan cell: %w", records.ErrMalformedSource, err)
		}
		if rowNum != currentRow {
			flush()
			currentRow = rowNum
			cells = make([]string, len(header))
		}
		if pos < 0 || pos >= len(header) {
			return nil, fmt.Errorf("%w: cell %d/%d outside header", records.ErrMalformedSource, rowNum, pos)
		}
		cells[pos] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", records.ErrSourceUnavailable, r, err)
	}
	flush()

	return col, nil
}

func (r *RecordsDB) loadHeader(ctx context.Context) ([]string, error) {
	rows, err := retryableQuery(ctx, r.db, `SELECT name FROM header ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var header []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		header = append(header, name)
	}
	return header, rows.Err()
}

// LastImport returns the most recent import, or nil if the store is empty
func (r *RecordsDB) LastImport(ctx context.Context) (*ImportInfo, error) {
	info := &ImportInfo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source, rows, imported_at FROM imports ORDER BY id DESC LIMIT 1`,
	).Scan(&info.ID, &info.Source, &info.Rows, &info.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last import: %w", err)
	}
	return info, nil
}
