package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hostwatch/lastseen/internal/domain/login"
)

// ErrNoSnapshots indicates the archive holds no snapshots yet.
var ErrNoSnapshots = errors.New("no snapshots archived")

// Snapshot describes one archived resolution run.
type Snapshot struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	TakenAt time.Time `json:"taken_at"`
	Records int       `json:"records"`
}

// Archiver persists resolution snapshots.
type Archiver struct {
	db *DB
}

// NewArchiver creates a new Archiver
func NewArchiver(db *DB) *Archiver {
	return &Archiver{db: db}
}

// Archive stores one resolution run as a new snapshot.
func (a *Archiver) Archive(ctx context.Context, source string, records []login.Record) (*Snapshot, error) {
	snap := &Snapshot{
		ID:      uuid.NewString(),
		Source:  source,
		TakenAt: time.Now().UTC(),
		Records: len(records),
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, taken_at) VALUES (?, ?, ?)`,
		snap.ID, snap.Source, snap.TakenAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for _, rec := range records {
		var uid any
		if rec.UID != nil {
			uid = int64(*rec.UID)
		}
		var lastLogin any
		if rec.LastLogin.LoggedIn {
			lastLogin = rec.LastLogin.At
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_records (snapshot_id, uid, name, tty, kind, last_login)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			snap.ID, uid, rec.Name, rec.TTY, int64(rec.Kind), lastLogin,
		); err != nil {
			return nil, fmt.Errorf("failed to insert snapshot record for %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return snap, nil
}

// List returns snapshots newest-first.
func (a *Archiver) List(ctx context.Context, limit int) ([]Snapshot, error) {
	query := `
		SELECT s.id, s.source, s.taken_at, COUNT(r.name)
		FROM snapshots s
		LEFT JOIN snapshot_records r ON r.snapshot_id = s.id
		GROUP BY s.id
		ORDER BY s.taken_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.TakenAt, &snap.Records); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snaps, nil
}

// Latest returns the most recent snapshot.
func (a *Archiver) Latest(ctx context.Context) (*Snapshot, error) {
	snaps, err := a.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, ErrNoSnapshots
	}
	return &snaps[0], nil
}

// Records returns the login records archived under a snapshot.
func (a *Archiver) Records(ctx context.Context, snapshotID string) ([]login.Record, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT uid, name, tty, kind, last_login
		 FROM snapshot_records WHERE snapshot_id = ? ORDER BY name`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot records: %w", err)
	}
	defer rows.Close()

	var records []login.Record
	for rows.Next() {
		var (
			rec       login.Record
			uid       sql.NullInt64
			kind      int64
			lastLogin sql.NullTime
		)
		if err := rows.Scan(&uid, &rec.Name, &rec.TTY, &kind, &lastLogin); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot record: %w", err)
		}
		if uid.Valid {
			v := uint32(uid.Int64)
			rec.UID = &v
		}
		rec.Kind = login.Kind(kind)
		if lastLogin.Valid {
			rec.LastLogin = login.LoginTime{At: lastLogin.Time.UTC(), LoggedIn: true}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot record rows: %w", err)
	}
	return records, nil
}
