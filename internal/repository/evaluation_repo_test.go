package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/proof-of-love/pol-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.EvaluationRecord{}))
	require.NoError(t, db.Exec("DELETE FROM evaluation_records").Error)
	return db
}

func TestEvaluationRepositoryLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	record := &models.EvaluationRecord{
		Title:   "Runtime upgrade guide",
		Summary: "wrote a runtime upgrade guide",
		State:   models.SettlementStateAwaitingSignature,
	}
	require.NoError(t, repo.Create(ctx, record))
	require.NotZero(t, record.ID)

	require.NoError(t, repo.MarkSubmitted(ctx, record.ID, "0xhash"))

	var reloaded models.EvaluationRecord
	require.NoError(t, db.First(&reloaded, record.ID).Error)
	require.Equal(t, models.SettlementStatePendingConfirmation, reloaded.State)
	require.Equal(t, "0xhash", reloaded.TxHash)

	assigned := uint64(11)
	require.NoError(t, repo.MarkConfirmed(ctx, record.ID, "0xhash", &assigned))
	require.NoError(t, db.First(&reloaded, record.ID).Error)
	require.Equal(t, models.SettlementStateConfirmed, reloaded.State)
	require.NotNil(t, reloaded.ContributionID)
	require.Equal(t, uint64(11), *reloaded.ContributionID)
}

func TestEvaluationRepositoryMarkFailed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	record := &models.EvaluationRecord{State: models.SettlementStateAwaitingSignature}
	require.NoError(t, repo.Create(ctx, record))
	require.NoError(t, repo.MarkFailed(ctx, record.ID, "registry transaction reverted"))

	var reloaded models.EvaluationRecord
	require.NoError(t, db.First(&reloaded, record.ID).Error)
	require.Equal(t, models.SettlementStateFailed, reloaded.State)
	require.Equal(t, "registry transaction reverted", reloaded.FailureReason)
}

func TestEvaluationRepositoryListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &models.EvaluationRecord{
			Title: title,
			State: models.SettlementStateConfirmed,
		}))
	}

	records, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	records, err = repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3, "zero limit falls back to default")
}
