package repository

import (
	"context"

	"gorm.io/gorm"

	"sgea/backend/internal/model"
)

// EvaluationRepository 评审数据访问接口（评审只增不改）
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *model.Evaluation) error
	ListByWork(ctx context.Context, workID string) ([]model.Evaluation, error)
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *evaluationRepo) ListByWork(ctx context.Context, workID string) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.WithContext(ctx).
		Where("work_id = ?", workID).
		Order("created_at ASC").
		Find(&evaluations).Error
	return evaluations, err
}
