package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aomi-research/edinet-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRun(company, docID string) *model.ExtractionRun {
	return &model.ExtractionRun{
		Company: company,
		DocID:   docID,
		Status:  model.RunStatusComplete,
		Result: &model.NormalizedResult{
			IssuerType: model.IssuerGeneralCompany,
			FieldOrder: []string{"net_sales"},
			Fields: map[string]model.FieldResolution{
				"net_sales": {Value: "1000", DisplayName: "売上高"},
			},
		},
	}
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := sampleRun("テスト株式会社", "S100TEST")
	require.NoError(t, s.SaveRun(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Company, got.Company)
	assert.Equal(t, run.DocID, got.DocID)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "1000", got.Result.Fields["net_sales"].Value)
	assert.Equal(t, []string{"net_sales"}, got.Result.FieldOrder)
}

func TestSQLiteStore_SaveRun_NilResult(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := &model.ExtractionRun{
		Company: "テスト",
		DocID:   "S100FAIL",
		Status:  model.RunStatusFailed,
		Error:   "download timed out",
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Result)
	assert.Equal(t, "download timed out", got.Error)
	assert.Equal(t, model.RunStatusFailed, got.Status)
}

func TestSQLiteStore_GetRun_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_ListRuns_Filters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, sampleRun("会社A", "DOC1")))
	require.NoError(t, s.SaveRun(ctx, sampleRun("会社B", "DOC2")))
	failed := sampleRun("会社A", "DOC3")
	failed.Status = model.RunStatusFailed
	failed.Result = nil
	require.NoError(t, s.SaveRun(ctx, failed))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byCompany, err := s.ListRuns(ctx, RunFilter{Company: "会社A"})
	require.NoError(t, err)
	assert.Len(t, byCompany, 2)

	byStatus, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "DOC3", byStatus[0].DocID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}
