package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/proof-of-love/pol-api/internal/models"
)

// EvaluationRepository persists settlement audit records.
type EvaluationRepository interface {
	Create(ctx context.Context, record *models.EvaluationRecord) error
	MarkSubmitted(ctx context.Context, id uint, txHash string) error
	MarkConfirmed(ctx context.Context, id uint, txHash string, contributionID *uint64) error
	MarkFailed(ctx context.Context, id uint, reason string) error
	ListRecent(ctx context.Context, limit int) ([]models.EvaluationRecord, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository constructs a repository backed by GORM.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(ctx context.Context, record *models.EvaluationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *evaluationRepository) MarkSubmitted(ctx context.Context, id uint, txHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.EvaluationRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":   models.SettlementStatePendingConfirmation,
			"tx_hash": txHash,
		}).
		Error
}

func (r *evaluationRepository) MarkConfirmed(ctx context.Context, id uint, txHash string, contributionID *uint64) error {
	updates := map[string]interface{}{
		"state":   models.SettlementStateConfirmed,
		"tx_hash": txHash,
	}
	if contributionID != nil {
		updates["contribution_id"] = *contributionID
	}

	return r.db.WithContext(ctx).
		Model(&models.EvaluationRecord{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (r *evaluationRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	return r.db.WithContext(ctx).
		Model(&models.EvaluationRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":          models.SettlementStateFailed,
			"failure_reason": reason,
		}).
		Error
}

func (r *evaluationRepository) ListRecent(ctx context.Context, limit int) ([]models.EvaluationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []models.EvaluationRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).
		Error
	return records, err
}
