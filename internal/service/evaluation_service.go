package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/model"
	"sgea/backend/internal/repository"
	pkgerrors "sgea/backend/pkg/errors"
)

// ── 评审模块业务错误 ──

var (
	ErrWorkNotEvaluable = pkgerrors.New(pkgerrors.ErrInvalidState, "投稿当前状态不可评审")
	ErrScoreOutOfRange  = pkgerrors.New(pkgerrors.ErrScoreOutOfRange, "评分须在 0 到 10 之间")
)

// EvaluationService 评审引擎
type EvaluationService interface {
	// RegisterEvaluation 登记评审；submitted 投稿随之进入 under_review
	RegisterEvaluation(ctx context.Context, workID, evaluatorID string, req *dto.RegisterEvaluationRequest) (*dto.EvaluationResponse, error)
	ListByWork(ctx context.Context, workID string) ([]dto.EvaluationResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    Clock
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, logger *zap.Logger, clock Clock) EvaluationService {
	return &evaluationService{repo: repo, logger: logger, now: clock}
}

// ────────────────────── RegisterEvaluation ──────────────────────

func (s *evaluationService) RegisterEvaluation(ctx context.Context, workID, evaluatorID string, req *dto.RegisterEvaluationRequest) (*dto.EvaluationResponse, error) {
	today := model.Day(s.now())

	var evaluation *model.Evaluation
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		work, err := findWork(ctx, tx, s.logger, workID)
		if err != nil {
			return err
		}
		evaluator, err := findPerson(ctx, tx, s.logger, evaluatorID)
		if err != nil {
			return err
		}
		if evaluator.Role != model.RoleEvaluator {
			return ErrNotEvaluatorRole
		}
		if !work.Evaluable() {
			return ErrWorkNotEvaluable
		}
		if req.Score == nil || !validScore(*req.Score) {
			return ErrScoreOutOfRange
		}

		evaluation = &model.Evaluation{
			WorkID:      work.WorkID,
			EvaluatorID: evaluatorID,
			Score:       *req.Score,
			Verdict:     req.Verdict,
			EvaluatedOn: today,
		}
		if err := tx.Evaluation.Create(ctx, evaluation); err != nil {
			s.logger.Error("创建评审失败", zap.Error(err))
			return err
		}

		if work.Status == model.WorkSubmitted {
			work.Status = model.WorkUnderReview
			if err := tx.Work.Update(ctx, work); err != nil {
				s.logger.Error("更新投稿状态失败", zap.String("work_id", workID), zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toEvaluationResponse(evaluation)
	return &resp, nil
}

// ────────────────────── ListByWork ──────────────────────

func (s *evaluationService) ListByWork(ctx context.Context, workID string) ([]dto.EvaluationResponse, error) {
	if _, err := findWork(ctx, s.repo, s.logger, workID); err != nil {
		return nil, err
	}

	list, err := s.repo.Evaluation.ListByWork(ctx, workID)
	if err != nil {
		s.logger.Error("列出评审失败", zap.String("work_id", workID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EvaluationResponse, 0, len(list))
	for i := range list {
		result = append(result, toEvaluationResponse(&list[i]))
	}
	return result, nil
}

// validScore 闭区间 [MinScore, MaxScore]，NaN 不合法
func validScore(score float64) bool {
	if math.IsNaN(score) {
		return false
	}
	return !(score < model.MinScore || score > model.MaxScore)
}
