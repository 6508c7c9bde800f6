package repository

import (
	"context"

	"gorm.io/gorm"

	"sgea/backend/internal/model"
)

// EnrollmentRepository 报名数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	// GetActive 查询 (person, event) 的有效报名，不存在时返回 gorm.ErrRecordNotFound
	GetActive(ctx context.Context, personID, eventID string) (*model.Enrollment, error)
	// MarkCancelled 仅当报名仍有效时置为已取消，返回是否命中
	MarkCancelled(ctx context.Context, id string) (bool, error)
	// ConfirmAttendance 仅当报名仍有效时置出席标记，返回是否命中
	ConfirmAttendance(ctx context.Context, id string) (bool, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Enrollment, error)
	ListByPerson(ctx context.Context, personID string) ([]model.Enrollment, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetActive(ctx context.Context, personID, eventID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("person_id = ? AND event_id = ? AND status = ?", personID, eventID, model.EnrollmentActive).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	return r.updateActive(ctx, id, "status", model.EnrollmentCancelled)
}

func (r *enrollmentRepo) ConfirmAttendance(ctx context.Context, id string) (bool, error) {
	return r.updateActive(ctx, id, "attendance_confirmed", true)
}

// updateActive 条件更新单列，并发取消后不会覆盖回 active
func (r *enrollmentRepo) updateActive(ctx context.Context, id, column string, value interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("enrollment_id = ? AND status = ?", id, model.EnrollmentActive).
		Update(column, value)
	return result.RowsAffected > 0, result.Error
}

// ListByEvent 按报名先后排序，附带人员信息
func (r *enrollmentRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Person").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) ListByPerson(ctx context.Context, personID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}
