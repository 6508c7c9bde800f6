package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/model"
	"sgea/backend/internal/repository"
	pkgerrors "sgea/backend/pkg/errors"
)

// ── 投稿模块业务错误 ──

var (
	ErrWorkNotFound           = pkgerrors.New(pkgerrors.ErrNotFound, "投稿不存在")
	ErrSubmissionWindowClosed = pkgerrors.New(pkgerrors.ErrWindowClosed, "当前不在投稿期内")
	ErrAuthorNotEnrolled      = pkgerrors.New(pkgerrors.ErrForbidden, "作者未报名该活动")
	ErrWorkTitleRequired      = pkgerrors.New(pkgerrors.ErrInvalidArgument, "投稿标题不能为空")
	ErrWorkFileRequired       = pkgerrors.New(pkgerrors.ErrInvalidArgument, "投稿文件不能为空")
	ErrNotEvaluatorRole       = pkgerrors.New(pkgerrors.ErrRoleMismatch, "该人员不是评审人")
	ErrInvalidWorkStatus      = pkgerrors.New(pkgerrors.ErrInvalidArgument, "投稿状态无效")
)

// WorkService 投稿引擎
type WorkService interface {
	Submit(ctx context.Context, req *dto.SubmitWorkRequest, authorID string) (*dto.WorkResponse, error)
	// AssignEvaluator 指派评审人；不持久化指派关系，仅将 submitted 推进为 under_review
	AssignEvaluator(ctx context.Context, workID, evaluatorID, organizerID string) (*dto.WorkResponse, error)
	// OverrideStatus 直接覆盖状态，不校验状态机
	OverrideStatus(ctx context.Context, workID, status, actorID string) (*dto.WorkResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WorkResponse, error)
	ListByEvent(ctx context.Context, eventID string) ([]dto.WorkResponse, error)
	ListByAuthor(ctx context.Context, authorID string) ([]dto.WorkResponse, error)
	// ListUnderReview 评审中的投稿，作为“待评审”列表
	ListUnderReview(ctx context.Context) ([]dto.WorkResponse, error)
}

type workService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    Clock
}

// NewWorkService 创建 WorkService 实例
func NewWorkService(repo *repository.Repository, logger *zap.Logger, clock Clock) WorkService {
	return &workService{repo: repo, logger: logger, now: clock}
}

// ────────────────────── Submit ──────────────────────

func (s *workService) Submit(ctx context.Context, req *dto.SubmitWorkRequest, authorID string) (*dto.WorkResponse, error) {
	today := model.Day(s.now())

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrWorkTitleRequired
	}
	fileRef := strings.TrimSpace(req.FileRef)
	if fileRef == "" {
		return nil, ErrWorkFileRequired
	}

	event, err := findEvent(ctx, s.repo, s.logger, req.EventID)
	if err != nil {
		return nil, err
	}
	if !event.SubmissionOpen(today) {
		return nil, ErrSubmissionWindowClosed
	}

	if _, err := findPerson(ctx, s.repo, s.logger, authorID); err != nil {
		return nil, err
	}
	if _, err := s.repo.Enrollment.GetActive(ctx, authorID, event.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotEnrolled
		}
		s.logger.Error("查询作者报名失败", zap.Error(err))
		return nil, err
	}

	work := &model.Work{
		Title:       title,
		FileRef:     fileRef,
		AuthorID:    authorID,
		EventID:     event.EventID,
		Status:      model.WorkSubmitted,
		SubmittedOn: today,
	}
	if err := s.repo.Work.Create(ctx, work); err != nil {
		s.logger.Error("创建投稿失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("投稿成功", zap.String("work_id", work.WorkID), zap.String("event_id", event.EventID))
	resp := toWorkResponse(work)
	return &resp, nil
}

// ────────────────────── AssignEvaluator ──────────────────────

func (s *workService) AssignEvaluator(ctx context.Context, workID, evaluatorID, organizerID string) (*dto.WorkResponse, error) {
	work, err := findWork(ctx, s.repo, s.logger, workID)
	if err != nil {
		return nil, err
	}
	event, err := findEvent(ctx, s.repo, s.logger, work.EventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}
	evaluator, err := findPerson(ctx, s.repo, s.logger, evaluatorID)
	if err != nil {
		return nil, err
	}
	if evaluator.Role != model.RoleEvaluator {
		return nil, ErrNotEvaluatorRole
	}

	if work.Status == model.WorkSubmitted {
		work.Status = model.WorkUnderReview
		if err := s.repo.Work.Update(ctx, work); err != nil {
			s.logger.Error("更新投稿状态失败", zap.String("work_id", workID), zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("已指派评审人",
		zap.String("work_id", workID),
		zap.String("evaluator_id", evaluatorID),
	)
	resp := toWorkResponse(work)
	return &resp, nil
}

// ────────────────────── OverrideStatus ──────────────────────

func (s *workService) OverrideStatus(ctx context.Context, workID, status, actorID string) (*dto.WorkResponse, error) {
	newStatus := model.WorkStatus(status)
	if !newStatus.Valid() {
		return nil, ErrInvalidWorkStatus
	}

	work, err := findWork(ctx, s.repo, s.logger, workID)
	if err != nil {
		return nil, err
	}

	previous := work.Status
	work.Status = newStatus
	if err := s.repo.Work.Update(ctx, work); err != nil {
		s.logger.Error("更新投稿状态失败", zap.String("work_id", workID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("投稿状态已覆盖",
		zap.String("work_id", workID),
		zap.String("from", string(previous)),
		zap.String("to", string(newStatus)),
		zap.String("actor_id", actorID),
	)
	resp := toWorkResponse(work)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *workService) GetByID(ctx context.Context, id string) (*dto.WorkResponse, error) {
	work, err := findWork(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	resp := toWorkResponse(work)
	return &resp, nil
}

func (s *workService) ListByEvent(ctx context.Context, eventID string) ([]dto.WorkResponse, error) {
	works, err := s.repo.Work.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("列出活动投稿失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return toWorkResponses(works), nil
}

func (s *workService) ListByAuthor(ctx context.Context, authorID string) ([]dto.WorkResponse, error) {
	works, err := s.repo.Work.ListByAuthor(ctx, authorID)
	if err != nil {
		s.logger.Error("列出作者投稿失败", zap.String("author_id", authorID), zap.Error(err))
		return nil, err
	}
	return toWorkResponses(works), nil
}

func (s *workService) ListUnderReview(ctx context.Context) ([]dto.WorkResponse, error) {
	works, err := s.repo.Work.ListByStatus(ctx, model.WorkUnderReview)
	if err != nil {
		s.logger.Error("列出评审中投稿失败", zap.Error(err))
		return nil, err
	}
	return toWorkResponses(works), nil
}

func findWork(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Work, error) {
	work, err := repo.Work.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		logger.Error("查询投稿失败", zap.String("work_id", id), zap.Error(err))
		return nil, err
	}
	return work, nil
}
