package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, satisfied by pgxmock
// pools in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	params     JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS checkpoints (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	stage      TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_checkpoints_run_id ON checkpoints(run_id);
CREATE INDEX IF NOT EXISTS idx_checkpoints_run_created ON checkpoints(run_id, created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, params model.RunParams) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal params")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, params, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, paramsJSON, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Params:    params,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, params, status, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	)

	r, err := scanPgRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.New("run not found")
	}
	return r, err
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, params, status, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) DeleteRun(ctx context.Context, runID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM checkpoints WHERE run_id = $1`, runID); err != nil {
		return eris.Wrapf(err, "postgres: delete checkpoints for run %s", runID)
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM runs WHERE id = $1`, runID)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) SaveCheckpoint(ctx context.Context, runID, stage string, payload model.CheckpointPayload) (*model.Checkpoint, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal checkpoint payload")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO checkpoints (id, run_id, stage, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, runID, stage, payloadJSON, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert checkpoint for run %s", runID)
	}

	return &model.Checkpoint{
		ID:        id,
		RunID:     runID,
		Stage:     stage,
		Payload:   payload,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) LatestCheckpoint(ctx context.Context, runID string) (*model.Checkpoint, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, run_id, stage, payload, created_at FROM checkpoints
		 WHERE run_id = $1 ORDER BY created_at DESC LIMIT 1`,
		runID,
	)

	cp, err := scanPgCheckpoint(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return cp, err
}

func (s *PostgresStore) ListCheckpoints(ctx context.Context, runID string) ([]model.Checkpoint, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, run_id, stage, payload, created_at FROM checkpoints
		 WHERE run_id = $1 ORDER BY created_at ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list checkpoints for run %s", runID)
	}
	defer rows.Close()

	var cps []model.Checkpoint
	for rows.Next() {
		cp, err := scanPgCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		cps = append(cps, *cp)
	}
	return cps, eris.Wrap(rows.Err(), "postgres: list checkpoints iterate")
}

func scanPgRun(row scannable) (*model.Run, error) {
	var r model.Run
	var paramsJSON []byte

	err := row.Scan(&r.ID, &paramsJSON, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan run")
	}

	if err := json.Unmarshal(paramsJSON, &r.Params); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal params")
	}
	return &r, nil
}

func scanPgCheckpoint(row scannable) (*model.Checkpoint, error) {
	var cp model.Checkpoint
	var payloadJSON []byte

	err := row.Scan(&cp.ID, &cp.RunID, &cp.Stage, &payloadJSON, &cp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan checkpoint")
	}

	if err := json.Unmarshal(payloadJSON, &cp.Payload); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal checkpoint payload")
	}
	return &cp, nil
}

