package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/model"
	"sgea/backend/internal/repository"
	pkgerrors "sgea/backend/pkg/errors"
	"sgea/backend/pkg/redis"
)

// maxCodeAttempts 校验码冲突时的最大重试次数
const maxCodeAttempts = 5

const certCacheKeyPrefix = "sgea:certificate:code:"

// ── 证书模块业务错误 ──

var (
	ErrEventNotFinished         = pkgerrors.New(pkgerrors.ErrTooEarly, "活动尚未结束，不能签发证书")
	ErrCertificateNotFound      = pkgerrors.New(pkgerrors.ErrNotFound, "证书不存在")
	ErrCertificateAlreadyIssued = pkgerrors.New(pkgerrors.ErrAlreadyIssued, "组织证书已签发")
	ErrValidationCodeExhausted  = errors.New("生成唯一校验码失败")
)

// CertificateService 证书引擎
// 所有签发操作以活动结束（结束日次日起）为前提，并按自然键幂等
type CertificateService interface {
	// IssueParticipation 为已确认出席的有效报名签发参与证书，返回本次新签发的证书
	IssueParticipation(ctx context.Context, eventID string) ([]dto.CertificateResponse, error)
	// IssuePresentation 为已录用且已报告的投稿作者签发报告证书
	IssuePresentation(ctx context.Context, eventID string) ([]dto.CertificateResponse, error)
	IssueOrganization(ctx context.Context, eventID, organizerID string) (*dto.CertificateResponse, error)
	// Verify 按校验码公开查询证书
	Verify(ctx context.Context, code string) (*dto.CertificateResponse, error)
	ListByPerson(ctx context.Context, personID string) ([]dto.CertificateResponse, error)
	// ListByEvent 活动证书列表（仅主办者）
	ListByEvent(ctx context.Context, eventID, organizerID string) ([]dto.CertificateResponse, error)
}

type certificateService struct {
	repo     *repository.Repository
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      Clock
	newCode  func() string
}

// NewCertificateService 创建 CertificateService 实例；cache 为 nil 时校验直接查库
func NewCertificateService(repo *repository.Repository, cache Cache, cacheTTL time.Duration, logger *zap.Logger, clock Clock) CertificateService {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &certificateService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      clock,
		newCode:  model.NewValidationCode,
	}
}

// ────────────────────── IssueParticipation ──────────────────────

func (s *certificateService) IssueParticipation(ctx context.Context, eventID string) ([]dto.CertificateResponse, error) {
	today := model.Day(s.now())

	event, err := s.getFinishedEvent(ctx, eventID, today)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListByEvent(ctx, event.EventID)
	if err != nil {
		s.logger.Error("列出活动报名失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	var issued []model.Certificate
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range enrollments {
			if !enrollments[i].Attended() {
				continue
			}
			key := model.CertificateKey{
				Type:     model.CertificateParticipation,
				PersonID: enrollments[i].PersonID,
				EventID:  event.EventID,
			}
			cert, err := s.issueIfAbsent(ctx, tx, key, today)
			if err != nil {
				return err
			}
			if cert != nil {
				issued = append(issued, *cert)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("参与证书签发完成", zap.String("event_id", eventID), zap.Int("issued", len(issued)))
	return toCertificateResponses(issued), nil
}

// ────────────────────── IssuePresentation ──────────────────────

func (s *certificateService) IssuePresentation(ctx context.Context, eventID string) ([]dto.CertificateResponse, error) {
	today := model.Day(s.now())

	event, err := s.getFinishedEvent(ctx, eventID, today)
	if err != nil {
		return nil, err
	}

	works, err := s.repo.Work.ListByEvent(ctx, event.EventID)
	if err != nil {
		s.logger.Error("列出活动投稿失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	var issued []model.Certificate
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range works {
			if !works[i].IsApproved() || !works[i].IsPresented() {
				continue
			}
			key := model.CertificateKey{
				Type:     model.CertificateWorkPresentation,
				PersonID: works[i].AuthorID,
				EventID:  event.EventID,
				WorkID:   works[i].WorkID,
			}
			cert, err := s.issueIfAbsent(ctx, tx, key, today)
			if err != nil {
				return err
			}
			if cert != nil {
				issued = append(issued, *cert)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("报告证书签发完成", zap.String("event_id", eventID), zap.Int("issued", len(issued)))
	return toCertificateResponses(issued), nil
}

// ────────────────────── IssueOrganization ──────────────────────

func (s *certificateService) IssueOrganization(ctx context.Context, eventID, organizerID string) (*dto.CertificateResponse, error) {
	today := model.Day(s.now())

	event, err := findEvent(ctx, s.repo, s.logger, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}
	if !event.HasFinished(today) {
		return nil, ErrEventNotFinished
	}

	key := model.CertificateKey{
		Type:     model.CertificateOrganization,
		PersonID: organizerID,
		EventID:  event.EventID,
	}
	cert, err := s.issueIfAbsent(ctx, s.repo, key, today)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateAlreadyIssued
	}

	resp := toCertificateResponse(cert)
	return &resp, nil
}

// ────────────────────── Verify ──────────────────────

func (s *certificateService) Verify(ctx context.Context, code string) (*dto.CertificateResponse, error) {
	code = model.NormalizeValidationCode(code)
	if len(code) != model.ValidationCodeLength {
		return nil, ErrCertificateNotFound
	}

	cacheKey := certCacheKeyPrefix + code
	if s.cache != nil {
		var cached dto.CertificateResponse
		err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取证书缓存失败", zap.Error(err))
		}
	}

	cert, err := s.repo.Certificate.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		s.logger.Error("按校验码查询证书失败", zap.Error(err))
		return nil, err
	}

	resp := toCertificateResponse(cert)
	if s.cache != nil {
		// 证书签发后不可变，缓存无需失效
		if err := s.cache.SetJSON(ctx, cacheKey, resp, s.cacheTTL); err != nil {
			s.logger.Warn("写入证书缓存失败", zap.Error(err))
		}
	}
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *certificateService) ListByPerson(ctx context.Context, personID string) ([]dto.CertificateResponse, error) {
	certs, err := s.repo.Certificate.ListByPerson(ctx, personID)
	if err != nil {
		s.logger.Error("列出个人证书失败", zap.String("person_id", personID), zap.Error(err))
		return nil, err
	}
	return toCertificateResponses(certs), nil
}

func (s *certificateService) ListByEvent(ctx context.Context, eventID, organizerID string) ([]dto.CertificateResponse, error) {
	event, err := findEvent(ctx, s.repo, s.logger, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}

	certs, err := s.repo.Certificate.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("列出活动证书失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return toCertificateResponses(certs), nil
}

// ────────────────────── 内部方法 ──────────────────────

func (s *certificateService) getFinishedEvent(ctx context.Context, eventID string, today time.Time) (*model.Event, error) {
	event, err := findEvent(ctx, s.repo, s.logger, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasFinished(today) {
		return nil, ErrEventNotFinished
	}
	return event, nil
}

// issueIfAbsent 自然键已存在时返回 (nil, nil)
// 并发签发时唯一约束兜底：冲突后按自然键复查，已存在则跳过，否则视为校验码冲突重试
func (s *certificateService) issueIfAbsent(ctx context.Context, repo *repository.Repository, key model.CertificateKey, today time.Time) (*model.Certificate, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		exists, err := repo.Certificate.Exists(ctx, key)
		if err != nil {
			s.logger.Error("证书判重失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, nil
		}

		code, err := s.uniqueCode(ctx, repo)
		if err != nil {
			return nil, err
		}

		cert := &model.Certificate{
			Type:           key.Type,
			ValidationCode: code,
			IssuedOn:       today,
			PersonID:       key.PersonID,
			EventID:        key.EventID,
			WorkID:         key.WorkID,
		}
		err = repo.Certificate.Create(ctx, cert)
		if err == nil {
			return cert, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Error("创建证书失败", zap.String("type", string(key.Type)), zap.Error(err))
			return nil, err
		}
		s.logger.Warn("证书唯一约束冲突",
			zap.String("type", string(key.Type)),
			zap.String("person_id", key.PersonID),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, fmt.Errorf("%w: 已重试 %d 次", ErrValidationCodeExhausted, maxCodeAttempts)
}

func (s *certificateService) uniqueCode(ctx context.Context, repo *repository.Repository) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newCode()
		_, err := repo.Certificate.GetByCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			s.logger.Error("校验码查重失败", zap.Error(err))
			return "", err
		}
	}
	return "", fmt.Errorf("%w: 已重试 %d 次", ErrValidationCodeExhausted, maxCodeAttempts)
}
