package render

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSink appends every table to a roster history database
type SQLiteSink struct {
	DB *sql.DB
}

func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	sink := &SQLiteSink{DB: db}
	if err := sink.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sink, nil
}

func (sink *SQLiteSink) Close() error {
	if sink == nil || sink.DB == nil {
		return nil
	}
	return sink.DB.Close()
}

func (sink *SQLiteSink) migrate(ctx context.Context) error {
	stmts := []string{
		"PRAGMA foreign_keys=ON;",
		`CREATE TABLE IF NOT EXISTS rosters (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  solution INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS cells (
  roster_id INTEGER NOT NULL REFERENCES rosters(id) ON DELETE CASCADE,
  row_index INTEGER NOT NULL,
  col_index INTEGER NOT NULL,
  label TEXT NOT NULL,
  text TEXT NOT NULL,
  header INTEGER NOT NULL,
  pinned INTEGER NOT NULL,
  holiday INTEGER NOT NULL,
  total INTEGER NOT NULL,
  PRIMARY KEY (roster_id, row_index, col_index)
);`,
	}
	for _, q := range stmts {
		if _, err := sink.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("cannot migrate roster history: %w", err)
		}
	}
	return nil
}

func (sink *SQLiteSink) Write(table Table) error {
	ctx := context.Background()
	tx, err := sink.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO rosters (title, solution, created_at) VALUES (?, ?, ?)`, table.Title, table.Index, time.Now().Unix())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cells (roster_id, row_index, col_index, label, text, header, pinned, holiday, total) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range table.Rows {
		for j, cell := range row.Cells {
			if _, err := stmt.ExecContext(ctx, id, i, j, row.Label, cell.Text, cell.Style.Header, cell.Style.Pinned, cell.Style.Holiday, cell.Style.Total); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
