package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/tincture/internal/history"
)

const snapshotColumns = `id, path, reason, document, created_at`

// snapshotModel is a row of the snapshots table. created_at holds Unix
// nanoseconds so snapshots taken in the same second keep their order.
type snapshotModel struct {
	ID        string
	Path      string
	Reason    string
	Document  []byte
	CreatedAt int64
}

func toSnapshotModel(s history.Snapshot) snapshotModel {
	return snapshotModel{
		ID:        s.ID,
		Path:      s.Path,
		Reason:    s.Reason,
		Document:  s.Document,
		CreatedAt: s.CreatedAt.UnixNano(),
	}
}

func (m snapshotModel) toDomain() history.Snapshot {
	return history.Snapshot{
		ID:        m.ID,
		Path:      m.Path,
		Reason:    m.Reason,
		Document:  m.Document,
		CreatedAt: time.Unix(0, m.CreatedAt),
	}
}

// snapshotRepository implements history.Repository using SQLite.
type snapshotRepository struct {
	db *sql.DB
}

var _ history.Repository = (*snapshotRepository)(nil)

func newSnapshotRepository(db *sql.DB) *snapshotRepository {
	return &snapshotRepository{db: db}
}

func scanSnapshot(scanner interface{ Scan(...any) error }) (snapshotModel, error) {
	var m snapshotModel
	err := scanner.Scan(&m.ID, &m.Path, &m.Reason, &m.Document, &m.CreatedAt)
	return m, err
}

// Save inserts a snapshot.
func (r *snapshotRepository) Save(s history.Snapshot) error {
	m := toSnapshotModel(s)
	_, err := r.db.Exec(
		`INSERT INTO snapshots (`+snapshotColumns+`) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Path, m.Reason, m.Document, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// FindByID returns history.ErrSnapshotNotFound when no row matches.
func (r *snapshotRepository) FindByID(id string) (history.Snapshot, error) {
	row := r.db.QueryRow(`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	m, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Snapshot{}, fmt.Errorf("%w: %s", history.ErrSnapshotNotFound, id)
	}
	if err != nil {
		return history.Snapshot{}, fmt.Errorf("failed to find snapshot: %w", err)
	}
	return m.toDomain(), nil
}

// List returns the newest snapshots of path first.
func (r *snapshotRepository) List(path string, limit int) ([]history.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT `+snapshotColumns+` FROM snapshots WHERE path = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		path, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []history.Snapshot
	for rows.Next() {
		m, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return out, nil
}

// Prune deletes all but the newest keep snapshots of path.
func (r *snapshotRepository) Prune(path string, keep int) (int, error) {
	result, err := r.db.Exec(
		`DELETE FROM snapshots WHERE path = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE path = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`,
		path, path, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}
	return int(n), nil
}
