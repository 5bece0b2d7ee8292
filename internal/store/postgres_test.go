package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit
// testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), string(model.RunStatusRunning), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	paramsJSON, err := json.Marshal(testParams())
	require.NoError(t, err)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, params, status, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "params", "status", "created_at", "updated_at"}).
			AddRow("run-1", paramsJSON, "running", now, now))

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, []string{"CA"}, run.Params.Countries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, params, status, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRunStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("failed", pgxmock.AnyArg(), "nonexistent-run").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateRunStatus(context.Background(), "nonexistent-run", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveCheckpoint(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO checkpoints`).
		WithArgs(pgxmock.AnyArg(), "run-1", "grouped", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	group := model.NewBrandGroup("healthy planet")
	cp, err := s.SaveCheckpoint(context.Background(), "run-1", "grouped", model.CheckpointPayload{
		Groups: []*model.BrandGroup{group},
	})
	require.NoError(t, err)
	assert.Equal(t, "grouped", cp.Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LatestCheckpoint_None(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, run_id, stage, payload, created_at FROM checkpoints`).
		WithArgs("run-1").
		WillReturnError(pgx.ErrNoRows)

	cp, err := s.LatestCheckpoint(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Nil(t, cp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LatestCheckpoint(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	payload, err := json.Marshal(model.CheckpointPayload{
		Leads: []*model.Lead{{BrandName: "Healthy Planet", Qualified: true}},
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, run_id, stage, payload, created_at FROM checkpoints`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "run_id", "stage", "payload", "created_at"}).
			AddRow("cp-1", "run-1", "gated", payload, time.Now().UTC()))

	cp, err := s.LatestCheckpoint(context.Background(), "run-1")
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, "gated", cp.Stage)
	require.Len(t, cp.Payload.Leads, 1)
	assert.Equal(t, "Healthy Planet", cp.Payload.Leads[0].BrandName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM checkpoints WHERE run_id = \$1`).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM runs WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.DeleteRun(context.Background(), "run-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
