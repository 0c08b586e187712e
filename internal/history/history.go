// Package history keeps earlier versions of the settings document so a save
// can be undone.
package history

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/settings"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// DefaultKeep is how many snapshots per settings file are retained.
const DefaultKeep = 50

// Snapshot is one recorded version of a settings document.
type Snapshot struct {
	ID        string
	Path      string
	Reason    string
	Document  []byte
	CreatedAt time.Time
}

// NewSnapshot creates a snapshot with a fresh id.
func NewSnapshot(path, reason string, document []byte, now time.Time) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Path:      path,
		Reason:    reason,
		Document:  document,
		CreatedAt: now,
	}
}

// Repository persists snapshots.
type Repository interface {
	Save(s Snapshot) error
	FindByID(id string) (Snapshot, error)
	// List returns the newest snapshots of path first, at most limit when
	// limit is positive.
	List(path string, limit int) ([]Snapshot, error)
	// Prune deletes all but the newest keep snapshots of path.
	Prune(path string, keep int) (int, error)
}

// Recorder snapshots the settings file before it changes.
type Recorder struct {
	repo  Repository
	keep  int
	clock func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithKeep sets how many snapshots per file are retained.
func WithKeep(n int) Option {
	return func(r *Recorder) { r.keep = n }
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option {
	return func(r *Recorder) { r.clock = fn }
}

// NewRecorder creates a recorder over repo.
func NewRecorder(repo Repository, opts ...Option) *Recorder {
	r := &Recorder{repo: repo, keep: DefaultKeep, clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stores the current content of path. A missing file, or content
// identical to the newest snapshot, records nothing.
func (r *Recorder) Record(path, reason string) (Snapshot, bool, error) {
	doc, err := settings.ReadDocument(path)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("reading %s: %w", path, err)
	}
	if doc == nil {
		return Snapshot{}, false, nil
	}

	latest, err := r.repo.List(path, 1)
	if err != nil {
		return Snapshot{}, false, err
	}
	if len(latest) == 1 && bytes.Equal(latest[0].Document, doc) {
		return latest[0], false, nil
	}

	snap := NewSnapshot(path, reason, doc, r.clock())
	if err := r.repo.Save(snap); err != nil {
		return Snapshot{}, false, err
	}
	if r.keep > 0 {
		if n, err := r.repo.Prune(path, r.keep); err != nil {
			log.ErrorErr(log.CatHistory, "Pruning snapshots failed", err, "path", path)
		} else if n > 0 {
			log.Debug(log.CatHistory, "Pruned snapshots", "path", path, "count", n)
		}
	}
	log.Debug(log.CatHistory, "Recorded snapshot", "id", snap.ID, "path", path, "reason", reason)
	return snap, true, nil
}

// List returns the snapshots of path, newest first.
func (r *Recorder) List(path string, limit int) ([]Snapshot, error) {
	return r.repo.List(path, limit)
}

// Get returns one snapshot.
func (r *Recorder) Get(id string) (Snapshot, error) {
	return r.repo.FindByID(id)
}

// Restore writes a snapshot back to its file, recording the content it
// replaces first.
func (r *Recorder) Restore(id string) (Snapshot, error) {
	snap, err := r.repo.FindByID(id)
	if err != nil {
		return Snapshot{}, err
	}
	if _, _, err := r.Record(snap.Path, "restore "+snap.ID); err != nil {
		return Snapshot{}, err
	}
	if err := settings.WriteDocument(snap.Path, snap.Document); err != nil {
		return Snapshot{}, fmt.Errorf("restoring %s: %w", snap.ID, err)
	}
	log.Info(log.CatHistory, "Restored snapshot", "id", snap.ID, "path", snap.Path)
	return snap, nil
}
