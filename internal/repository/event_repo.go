package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sgea/backend/internal/model"
	pkgerrors "sgea/backend/pkg/errors"
)

// EventRepository 活动数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	// Update 带乐观锁的全量更新，版本不符时返回 ErrOptimisticLock
	Update(ctx context.Context, event *model.Event) error
	List(ctx context.Context) ([]model.Event, error)
	ListStartingAfter(ctx context.Context, day time.Time) ([]model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	if event.Version == 0 {
		event.Version = 1
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("event_id = ? AND version = ?", event.EventID, event.Version).
		Updates(map[string]interface{}{
			"name":               event.Name,
			"description":        event.Description,
			"start_date":         event.StartDate,
			"end_date":           event.EndDate,
			"location":           event.Location,
			"capacity":           event.Capacity,
			"active_enrollments": event.ActiveEnrollments,
			"submission_start":   event.SubmissionStart,
			"submission_end":     event.SubmissionEnd,
			"version":            event.Version + 1,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version++
	return nil
}

func (r *eventRepo) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

// ListStartingAfter 开始日晚于 day 的活动
func (r *eventRepo) ListStartingAfter(ctx context.Context, day time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("start_date > ?", day).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}
