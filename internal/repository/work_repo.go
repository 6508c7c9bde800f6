package repository

import (
	"context"

	"gorm.io/gorm"

	"sgea/backend/internal/model"
)

// WorkRepository 投稿数据访问接口
type WorkRepository interface {
	Create(ctx context.Context, work *model.Work) error
	GetByID(ctx context.Context, id string) (*model.Work, error)
	Update(ctx context.Context, work *model.Work) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Work, error)
	ListByAuthor(ctx context.Context, authorID string) ([]model.Work, error)
	ListByStatus(ctx context.Context, status model.WorkStatus) ([]model.Work, error)
}

type workRepo struct {
	db *gorm.DB
}

// NewWorkRepo 创建 WorkRepository 实例
func NewWorkRepo(db *gorm.DB) WorkRepository {
	return &workRepo{db: db}
}

func (r *workRepo) Create(ctx context.Context, work *model.Work) error {
	return r.db.WithContext(ctx).Create(work).Error
}

func (r *workRepo) GetByID(ctx context.Context, id string) (*model.Work, error) {
	var work model.Work
	err := r.db.WithContext(ctx).
		Where("work_id = ?", id).
		First(&work).Error
	if err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *workRepo) Update(ctx context.Context, work *model.Work) error {
	return r.db.WithContext(ctx).Save(work).Error
}

func (r *workRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&works).Error
	return works, err
}

func (r *workRepo) ListByAuthor(ctx context.Context, authorID string) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at ASC").
		Find(&works).Error
	return works, err
}

func (r *workRepo) ListByStatus(ctx context.Context, status model.WorkStatus) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&works).Error
	return works, err
}
