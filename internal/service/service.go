package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sgea/backend/config"
	"sgea/backend/internal/repository"
	"sgea/backend/pkg/jwt"
	"sgea/backend/pkg/redis"
)

// Clock 返回当前时间；每个操作只读取一次，取其日历日作为 today
type Clock func() time.Time

// Cache 证书校验结果等只读数据的缓存
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// TokenBlacklist 登出时吊销 Access Token
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	Person      PersonService
	Event       EventService
	Enrollment  EnrollmentService
	Work        WorkService
	Evaluation  EvaluationService
	Certificate CertificateService
	Export      ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：此时证书校验不走缓存，登出不写黑名单
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
	clock Clock,
) *Service {
	if clock == nil {
		clock = time.Now
	}

	var (
		cache     Cache
		blacklist TokenBlacklist
	)
	if rdb != nil {
		cache = rdb
		blacklist = rdb
	}

	return &Service{
		Auth:        NewAuthService(repo, jwtMgr, blacklist, logger),
		Person:      NewPersonService(repo, logger),
		Event:       NewEventService(repo, logger, clock),
		Enrollment:  NewEnrollmentService(repo, logger, clock),
		Work:        NewWorkService(repo, logger, clock),
		Evaluation:  NewEvaluationService(repo, logger, clock),
		Certificate: NewCertificateService(repo, cache, cfg.Redis.CacheTTL, logger, clock),
		Export:      NewExportService(repo, logger),
	}
}
