package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testParams() model.RunParams {
	return model.RunParams{
		Verticals:      []string{"apparel boutique"},
		Countries:      []string{"CA"},
		CitiesSearched: 25,
	}
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, []string{"apparel boutique"}, got.Params.Verticals)
	assert.Equal(t, 25, got.Params.CitiesSearched)
}

func TestSQLite_GetRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusComplete))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
}

func TestSQLite_UpdateRunStatus_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "nonexistent", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListRuns_FilterByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	r1, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, r1.ID, model.RunStatusComplete))

	complete, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, r1.ID, complete[0].ID)

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLite_SaveAndLatestCheckpoint(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)

	group := model.NewBrandGroup("healthy planet")
	group.LocationCount = 4
	_, err = st.SaveCheckpoint(ctx, run.ID, "grouped", model.CheckpointPayload{
		Groups: []*model.BrandGroup{group},
	})
	require.NoError(t, err)

	lead := &model.Lead{BrandName: "Healthy Planet", LocationCount: 4, Qualified: true}
	cp2, err := st.SaveCheckpoint(ctx, run.ID, "gated", model.CheckpointPayload{
		Leads: []*model.Lead{lead},
	})
	require.NoError(t, err)

	latest, err := st.LatestCheckpoint(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, cp2.ID, latest.ID)
	assert.Equal(t, "gated", latest.Stage)
	require.Len(t, latest.Payload.Leads, 1)
	assert.Equal(t, "Healthy Planet", latest.Payload.Leads[0].BrandName)
}

func TestSQLite_LatestCheckpoint_None(t *testing.T) {
	st := newTestSQLiteStore(t)

	cp, err := st.LatestCheckpoint(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestSQLite_ListCheckpoints_Ordered(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)

	for _, stage := range []string{"deduped", "grouped", "verified"} {
		_, err := st.SaveCheckpoint(ctx, run.ID, stage, model.CheckpointPayload{})
		require.NoError(t, err)
	}

	cps, err := st.ListCheckpoints(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, cps, 3)
	assert.Equal(t, "deduped", cps[0].Stage)
	assert.Equal(t, "verified", cps[2].Stage)
}

func TestSQLite_DeleteRun_RemovesCheckpoints(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	_, err = st.SaveCheckpoint(ctx, run.ID, "deduped", model.CheckpointPayload{})
	require.NoError(t, err)

	require.NoError(t, st.DeleteRun(ctx, run.ID))

	_, err = st.GetRun(ctx, run.ID)
	assert.Error(t, err)

	cps, err := st.ListCheckpoints(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, cps)
}

func TestSQLite_DeleteRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.DeleteRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
