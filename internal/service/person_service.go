package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/model"
	"sgea/backend/internal/repository"
	pkgerrors "sgea/backend/pkg/errors"
)

// minPasswordLength 注册密码最短长度
const minPasswordLength = 8

// ── 人员模块业务错误 ──

var (
	ErrPersonNotFound     = pkgerrors.New(pkgerrors.ErrNotFound, "人员不存在")
	ErrPersonNameRequired = pkgerrors.New(pkgerrors.ErrInvalidArgument, "姓名不能为空")
	ErrInvalidEmail       = pkgerrors.New(pkgerrors.ErrInvalidArgument, "邮箱格式无效")
	ErrEmailTaken         = pkgerrors.New(pkgerrors.ErrInvalidArgument, "邮箱已被注册")
	ErrInvalidRole        = pkgerrors.New(pkgerrors.ErrInvalidArgument, "角色无效")
	ErrPasswordTooShort   = pkgerrors.New(pkgerrors.ErrInvalidArgument, "密码长度不足")
	ErrUpdateOtherPerson  = pkgerrors.New(pkgerrors.ErrForbidden, "只能修改本人信息")
)

// PersonService 人员注册与资料维护
type PersonService interface {
	Register(ctx context.Context, req *dto.RegisterPersonRequest) (*dto.PersonResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PersonResponse, error)
	List(ctx context.Context) ([]dto.PersonResponse, error)
	// Update 仅本人可修改；邮箱变更时重新校验唯一性
	Update(ctx context.Context, id string, req *dto.UpdatePersonRequest, callerID string) (*dto.PersonResponse, error)
}

type personService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPersonService 创建 PersonService 实例
func NewPersonService(repo *repository.Repository, logger *zap.Logger) PersonService {
	return &personService{repo: repo, logger: logger}
}

// ────────────────────── Register ──────────────────────

func (s *personService) Register(ctx context.Context, req *dto.RegisterPersonRequest) (*dto.PersonResponse, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, ErrPersonNameRequired
	}
	email := strings.TrimSpace(req.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return nil, err
	}

	person := &model.Person{
		FullName:     name,
		Email:        email,
		Institution:  strings.TrimSpace(req.Institution),
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.repo.Person.Create(ctx, person); err != nil {
		s.logger.Error("创建人员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("人员注册成功", zap.String("person_id", person.PersonID), zap.String("role", string(role)))
	resp := toPersonResponse(person)
	return &resp, nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *personService) GetByID(ctx context.Context, id string) (*dto.PersonResponse, error) {
	person, err := s.getPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPersonResponse(person)
	return &resp, nil
}

func (s *personService) List(ctx context.Context) ([]dto.PersonResponse, error) {
	persons, err := s.repo.Person.List(ctx)
	if err != nil {
		s.logger.Error("列出人员失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PersonResponse, 0, len(persons))
	for i := range persons {
		result = append(result, toPersonResponse(&persons[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *personService) Update(ctx context.Context, id string, req *dto.UpdatePersonRequest, callerID string) (*dto.PersonResponse, error) {
	if id != callerID {
		return nil, ErrUpdateOtherPerson
	}

	person, err := s.getPerson(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, ErrPersonNameRequired
		}
		person.FullName = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !validEmail(email) {
			return nil, ErrInvalidEmail
		}
		if !strings.EqualFold(email, person.Email) {
			if err := s.ensureEmailFree(ctx, email, person.PersonID); err != nil {
				return nil, err
			}
		}
		person.Email = email
	}
	if req.Institution != nil {
		person.Institution = strings.TrimSpace(*req.Institution)
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		person.Role = role
	}

	if err := s.repo.Person.Update(ctx, person); err != nil {
		s.logger.Error("更新人员失败", zap.String("person_id", id), zap.Error(err))
		return nil, err
	}

	resp := toPersonResponse(person)
	return &resp, nil
}

// ────────────────────── 内部方法 ──────────────────────

func (s *personService) getPerson(ctx context.Context, id string) (*model.Person, error) {
	return findPerson(ctx, s.repo, s.logger, id)
}

// ensureEmailFree 邮箱（忽略大小写）未被 exceptID 以外的人员占用
func (s *personService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.repo.Person.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return err
	}
	if existing.PersonID != exceptID {
		return ErrEmailTaken
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

// findPerson 各模块共用的人员查询，统一映射 NotFound
func findPerson(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Person, error) {
	person, err := repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		logger.Error("查询人员失败", zap.String("person_id", id), zap.Error(err))
		return nil, err
	}
	return person, nil
}
