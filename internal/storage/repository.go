package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryPath keeps the journal for the lifetime of the process only.
const MemoryPath = ":memory:"

// Repository journals which items were opened in detail view.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Every pooled connection to :memory: would get its own empty database.
	db.SetMaxOpenConns(1)
	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS read_items (
  id INTEGER PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  first_read_at TEXT NOT NULL,
  last_read_at TEXT NOT NULL,
  visits INTEGER NOT NULL DEFAULT 1
);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS write_probe (x INTEGER)`); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	return nil
}

// MarkRead records a visit to the item, keeping the first visit time.
func (r *Repository) MarkRead(ctx context.Context, id int64, title string) error {
	now := r.now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO read_items (id, title, first_read_at, last_read_at, visits)
VALUES (?, ?, ?, ?, 1)
ON CONFLICT(id) DO UPDATE SET
  title=CASE WHEN excluded.title <> '' THEN excluded.title ELSE read_items.title END,
  last_read_at=excluded.last_read_at,
  visits=read_items.visits + 1
`, id, title, now, now)
	if err != nil {
		return fmt.Errorf("mark item %d read: %w", id, err)
	}
	return nil
}

func (r *Repository) ReadIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM read_items ORDER BY first_read_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query read items: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 16)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan read item: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return ids, nil
}

// Visit describes one journal row.
type Visit struct {
	ID          int64
	Title       string
	FirstReadAt time.Time
	LastReadAt  time.Time
	Visits      int
}

func (r *Repository) Visit(ctx context.Context, id int64) (Visit, bool, error) {
	var v Visit
	var first, last string
	err := r.db.QueryRowContext(ctx, `
SELECT id, title, first_read_at, last_read_at, visits
FROM read_items
WHERE id = ?
`, id).Scan(&v.ID, &v.Title, &first, &last, &v.Visits)
	if err == sql.ErrNoRows {
		return Visit{}, false, nil
	}
	if err != nil {
		return Visit{}, false, fmt.Errorf("query read item %d: %w", id, err)
	}
	if v.FirstReadAt, err = time.Parse(time.RFC3339Nano, first); err != nil {
		return Visit{}, false, fmt.Errorf("parse first_read_at %q: %w", first, err)
	}
	if v.LastReadAt, err = time.Parse(time.RFC3339Nano, last); err != nil {
		return Visit{}, false, fmt.Errorf("parse last_read_at %q: %w", last, err)
	}
	return v, true, nil
}
