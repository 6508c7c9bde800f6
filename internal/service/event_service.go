package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/model"
	"sgea/backend/internal/repository"
	pkgerrors "sgea/backend/pkg/errors"
)

// ── 活动模块业务错误 ──

var (
	ErrEventNotFound           = pkgerrors.New(pkgerrors.ErrNotFound, "活动不存在")
	ErrNotOrganizerRole        = pkgerrors.New(pkgerrors.ErrRoleMismatch, "仅主办者角色可创建活动")
	ErrNotEventOwner           = pkgerrors.New(pkgerrors.ErrForbidden, "非该活动主办者")
	ErrEventNameRequired       = pkgerrors.New(pkgerrors.ErrInvalidArgument, "活动名称不能为空")
	ErrEventDateRange          = pkgerrors.New(pkgerrors.ErrInvalidArgument, "开始日期不能晚于结束日期")
	ErrEventCapacity           = pkgerrors.New(pkgerrors.ErrInvalidArgument, "容量必须为正数")
	ErrCapacityBelowEnrolled   = pkgerrors.New(pkgerrors.ErrInvalidArgument, "容量不能小于当前有效报名数")
	ErrInvalidSubmissionWindow = pkgerrors.New(pkgerrors.ErrInvalidArgument, "投稿期起止日期须同时设置且开始不晚于结束")
	ErrEventConflict           = pkgerrors.New(pkgerrors.ErrOptimisticLock, "活动已被其他操作修改，请重试")
)

// EventService 活动的创建、查询与主办者维护
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest, organizerID string) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context) ([]dto.EventResponse, error)
	// ListOpenForEnrollment 开始日晚于今天的活动
	ListOpenForEnrollment(ctx context.Context) ([]dto.EventResponse, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]dto.EventResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, organizerID string) (*dto.EventResponse, error)
	SetSubmissionWindow(ctx context.Context, id string, req *dto.SetSubmissionWindowRequest, organizerID string) (*dto.EventResponse, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    Clock
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger, clock Clock) EventService {
	return &eventService{repo: repo, logger: logger, now: clock}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, organizerID string) (*dto.EventResponse, error) {
	organizer, err := findPerson(ctx, s.repo, s.logger, organizerID)
	if err != nil {
		return nil, err
	}
	if organizer.Role != model.RoleOrganizer {
		return nil, ErrNotOrganizerRole
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEventNameRequired
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrEventDateRange
	}
	if req.Capacity <= 0 {
		return nil, ErrEventCapacity
	}
	subStart, err := parseOptionalDate(req.SubmissionStart)
	if err != nil {
		return nil, err
	}
	subEnd, err := parseOptionalDate(req.SubmissionEnd)
	if err != nil {
		return nil, err
	}
	if err := validateSubmissionWindow(subStart, subEnd); err != nil {
		return nil, err
	}

	event := &model.Event{
		Name:            name,
		Description:     req.Description,
		StartDate:       start,
		EndDate:         end,
		Location:        req.Location,
		Capacity:        req.Capacity,
		SubmissionStart: subStart,
		SubmissionEnd:   subEnd,
		OrganizerID:     organizer.PersonID,
	}
	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("创建活动失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("活动已创建",
		zap.String("event_id", event.EventID),
		zap.String("organizer_id", organizerID),
	)
	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := findEvent(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) List(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.repo.Event.List(ctx)
	if err != nil {
		s.logger.Error("列出活动失败", zap.Error(err))
		return nil, err
	}
	return toEventResponses(events), nil
}

func (s *eventService) ListOpenForEnrollment(ctx context.Context) ([]dto.EventResponse, error) {
	today := model.Day(s.now())
	events, err := s.repo.Event.ListStartingAfter(ctx, today)
	if err != nil {
		s.logger.Error("列出可报名活动失败", zap.Error(err))
		return nil, err
	}
	return toEventResponses(events), nil
}

func (s *eventService) ListByOrganizer(ctx context.Context, organizerID string) ([]dto.EventResponse, error) {
	events, err := s.repo.Event.ListByOrganizer(ctx, organizerID)
	if err != nil {
		s.logger.Error("列出主办活动失败", zap.String("organizer_id", organizerID), zap.Error(err))
		return nil, err
	}
	return toEventResponses(events), nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, organizerID string) (*dto.EventResponse, error) {
	event, err := s.getOwnedEvent(ctx, id, organizerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEventNameRequired
		}
		event.Name = name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		event.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		event.EndDate = end
	}
	if event.StartDate.After(event.EndDate) {
		return nil, ErrEventDateRange
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrEventCapacity
		}
		if *req.Capacity < event.ActiveEnrollments {
			return nil, ErrCapacityBelowEnrolled
		}
		event.Capacity = *req.Capacity
	}

	if err := s.saveEvent(ctx, event); err != nil {
		return nil, err
	}

	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── SetSubmissionWindow ──────────────────────

func (s *eventService) SetSubmissionWindow(ctx context.Context, id string, req *dto.SetSubmissionWindowRequest, organizerID string) (*dto.EventResponse, error) {
	event, err := s.getOwnedEvent(ctx, id, organizerID)
	if err != nil {
		return nil, err
	}

	start, err := parseDate(req.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.End)
	if err != nil {
		return nil, err
	}
	if err := validateSubmissionWindow(&start, &end); err != nil {
		return nil, err
	}

	event.SubmissionStart = &start
	event.SubmissionEnd = &end
	if err := s.saveEvent(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("投稿期已设置",
		zap.String("event_id", id),
		zap.String("start", req.Start),
		zap.String("end", req.End),
	)
	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── 内部方法 ──────────────────────

func (s *eventService) getOwnedEvent(ctx context.Context, id, organizerID string) (*model.Event, error) {
	event, err := findEvent(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}
	return event, nil
}

func (s *eventService) saveEvent(ctx context.Context, event *model.Event) error {
	if err := s.repo.Event.Update(ctx, event); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return ErrEventConflict
		}
		s.logger.Error("更新活动失败", zap.String("event_id", event.EventID), zap.Error(err))
		return err
	}
	return nil
}

// validateSubmissionWindow 起止须同时为空或同时设置，且开始不晚于结束
func validateSubmissionWindow(start, end *time.Time) error {
	if (start == nil) != (end == nil) {
		return ErrInvalidSubmissionWindow
	}
	if start != nil && start.After(*end) {
		return ErrInvalidSubmissionWindow
	}
	return nil
}

// findEvent 各模块共用的活动查询，统一映射 NotFound
func findEvent(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Event, error) {
	event, err := repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		logger.Error("查询活动失败", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}
