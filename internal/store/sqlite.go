package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	params     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS checkpoints (
	id         TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	stage      TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_checkpoints_run_id ON checkpoints(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, params model.RunParams) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal params")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, params, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(paramsJSON), string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Params:    params,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run status %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, params, status, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, params, status, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE run_id = ?`, runID); err != nil {
		return eris.Wrapf(err, "sqlite: delete checkpoints for run %s", runID)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) SaveCheckpoint(ctx context.Context, runID, stage string, payload model.CheckpointPayload) (*model.Checkpoint, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal checkpoint payload")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (id, run_id, stage, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, runID, stage, string(payloadJSON), now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert checkpoint for run %s", runID)
	}

	return &model.Checkpoint{
		ID:        id,
		RunID:     runID,
		Stage:     stage,
		Payload:   payload,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) LatestCheckpoint(ctx context.Context, runID string) (*model.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, run_id, stage, payload, created_at FROM checkpoints
		 WHERE run_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		runID,
	)

	cp, err := scanCheckpoint(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cp, err
}

func (s *SQLiteStore) ListCheckpoints(ctx context.Context, runID string) ([]model.Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, stage, payload, created_at FROM checkpoints
		 WHERE run_id = ? ORDER BY created_at ASC, rowid ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list checkpoints for run %s", runID)
	}
	defer rows.Close()

	var cps []model.Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		cps = append(cps, *cp)
	}
	return cps, eris.Wrap(rows.Err(), "sqlite: list checkpoints iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var paramsJSON string

	err := row.Scan(&r.ID, &paramsJSON, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if err := json.Unmarshal([]byte(paramsJSON), &r.Params); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal params")
	}
	return &r, nil
}

func scanCheckpoint(row scannable) (*model.Checkpoint, error) {
	var cp model.Checkpoint
	var payloadJSON string

	err := row.Scan(&cp.ID, &cp.RunID, &cp.Stage, &payloadJSON, &cp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan checkpoint")
	}

	if err := json.Unmarshal([]byte(payloadJSON), &cp.Payload); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal checkpoint payload")
	}
	return &cp, nil
}
