package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/model"
	"sgea/backend/internal/repository"
	pkgerrors "sgea/backend/pkg/errors"
)

// ── 报名模块业务错误 ──

var (
	ErrEnrollmentNotFound       = pkgerrors.New(pkgerrors.ErrNotFound, "报名记录不存在")
	ErrEventFull                = pkgerrors.New(pkgerrors.ErrCapacityExceeded, "活动名额已满")
	ErrAlreadyEnrolled          = pkgerrors.New(pkgerrors.ErrDuplicateActiveEnrollment, "已报名该活动")
	ErrCancellationWindowClosed = pkgerrors.New(pkgerrors.ErrWindowClosed, "已过取消截止日或报名已取消")
	ErrNotEnrollmentOwner       = pkgerrors.New(pkgerrors.ErrForbidden, "只能取消本人的报名")
	ErrEventNotStarted          = pkgerrors.New(pkgerrors.ErrTooEarly, "活动尚未开始，不能确认出席")
	ErrEnrollmentNotActive      = pkgerrors.New(pkgerrors.ErrInvalidState, "报名已取消")
	ErrEnrollmentConflict       = pkgerrors.New(pkgerrors.ErrOptimisticLock, "报名人数已变化，请重试")
)

// EnrollmentService 报名引擎：容量控制、取消截止与出席确认
type EnrollmentService interface {
	Enroll(ctx context.Context, personID, eventID string) (*dto.EnrollmentResponse, error)
	// Cancel 仅报名者本人可取消，且须不晚于活动开始前 model.CancellationWindowDays 天
	Cancel(ctx context.Context, enrollmentID, callerID string) error
	ConfirmAttendance(ctx context.Context, enrollmentID, organizerID string) (*dto.EnrollmentResponse, error)
	// ListByEvent 活动报名名单（仅主办者）
	ListByEvent(ctx context.Context, eventID, organizerID string) ([]dto.EnrollmentResponse, error)
	ListByPerson(ctx context.Context, personID string) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    Clock
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger, clock Clock) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger, now: clock}
}

// ────────────────────── Enroll ──────────────────────

func (s *enrollmentService) Enroll(ctx context.Context, personID, eventID string) (*dto.EnrollmentResponse, error) {
	today := model.Day(s.now())

	if _, err := findPerson(ctx, s.repo, s.logger, personID); err != nil {
		return nil, err
	}

	var enrollment *model.Enrollment
	// 容量检查、插入与计数更新在同一事务内完成，活动行版本号保证并发下不超卖
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		event, err := findEvent(ctx, tx, s.logger, eventID)
		if err != nil {
			return err
		}
		if event.IsFull() {
			return ErrEventFull
		}

		_, err = tx.Enrollment.GetActive(ctx, personID, eventID)
		if err == nil {
			return ErrAlreadyEnrolled
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询有效报名失败", zap.Error(err))
			return err
		}

		enrollment = &model.Enrollment{
			EventID:    eventID,
			PersonID:   personID,
			EnrolledOn: today,
			Status:     model.EnrollmentActive,
		}
		if err := tx.Enrollment.Create(ctx, enrollment); err != nil {
			s.logger.Error("创建报名失败", zap.Error(err))
			return err
		}

		event.ActiveEnrollments++
		return s.saveCounter(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("报名成功",
		zap.String("enrollment_id", enrollment.EnrollmentID),
		zap.String("event_id", eventID),
		zap.String("person_id", personID),
	)
	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *enrollmentService) Cancel(ctx context.Context, enrollmentID, callerID string) error {
	today := model.Day(s.now())

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		enrollment, err := s.getEnrollment(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		if enrollment.PersonID != callerID {
			return ErrNotEnrollmentOwner
		}

		event, err := findEvent(ctx, tx, s.logger, enrollment.EventID)
		if err != nil {
			return err
		}
		if !enrollment.CanCancel(event, today) {
			return ErrCancellationWindowClosed
		}

		ok, err := tx.Enrollment.MarkCancelled(ctx, enrollmentID)
		if err != nil {
			s.logger.Error("取消报名失败", zap.String("enrollment_id", enrollmentID), zap.Error(err))
			return err
		}
		if !ok {
			// 并发取消已先提交
			return ErrCancellationWindowClosed
		}

		if event.ActiveEnrollments > 0 {
			event.ActiveEnrollments--
		}
		if err := s.saveCounter(ctx, tx, event); err != nil {
			return err
		}

		s.logger.Info("报名已取消", zap.String("enrollment_id", enrollmentID))
		return nil
	})
}

// ────────────────────── ConfirmAttendance ──────────────────────

func (s *enrollmentService) ConfirmAttendance(ctx context.Context, enrollmentID, organizerID string) (*dto.EnrollmentResponse, error) {
	today := model.Day(s.now())

	var enrollment *model.Enrollment
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		en, err := s.getEnrollment(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		event, err := findEvent(ctx, tx, s.logger, en.EventID)
		if err != nil {
			return err
		}
		if event.OrganizerID != organizerID {
			return ErrNotEventOwner
		}
		if !event.HasStarted(today) {
			return ErrEventNotStarted
		}
		if !en.IsActive() {
			return ErrEnrollmentNotActive
		}

		// 条件写入：读取后被取消的报名不会被改回 active
		ok, err := tx.Enrollment.ConfirmAttendance(ctx, enrollmentID)
		if err != nil {
			s.logger.Error("确认出席失败", zap.String("enrollment_id", enrollmentID), zap.Error(err))
			return err
		}
		if !ok {
			return ErrEnrollmentNotActive
		}
		en.AttendanceConfirmed = true
		enrollment = en
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *enrollmentService) ListByEvent(ctx context.Context, eventID, organizerID string) ([]dto.EnrollmentResponse, error) {
	event, err := findEvent(ctx, s.repo, s.logger, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}

	list, err := s.repo.Enrollment.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("列出活动报名失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return toEnrollmentResponses(list), nil
}

func (s *enrollmentService) ListByPerson(ctx context.Context, personID string) ([]dto.EnrollmentResponse, error) {
	list, err := s.repo.Enrollment.ListByPerson(ctx, personID)
	if err != nil {
		s.logger.Error("列出个人报名失败", zap.String("person_id", personID), zap.Error(err))
		return nil, err
	}
	return toEnrollmentResponses(list), nil
}

// ────────────────────── 内部方法 ──────────────────────

func (s *enrollmentService) getEnrollment(ctx context.Context, repo *repository.Repository, id string) (*model.Enrollment, error) {
	enrollment, err := repo.Enrollment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询报名失败", zap.String("enrollment_id", id), zap.Error(err))
		return nil, err
	}
	return enrollment, nil
}

// saveCounter 按版本号写回有效报名计数
func (s *enrollmentService) saveCounter(ctx context.Context, tx *repository.Repository, event *model.Event) error {
	if err := tx.Event.Update(ctx, event); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Warn("报名计数版本冲突", zap.String("event_id", event.EventID))
			return ErrEnrollmentConflict
		}
		s.logger.Error("更新报名计数失败", zap.String("event_id", event.EventID), zap.Error(err))
		return err
	}
	return nil
}
