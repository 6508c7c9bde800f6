package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sgea/backend/config"
	"sgea/backend/internal/api/handler"
	"sgea/backend/internal/api/middleware"
	"sgea/backend/internal/model"
	"sgea/backend/pkg/jwt"
	"sgea/backend/pkg/redis"
)

var (
	organizer = string(model.RoleOrganizer)
	evaluator = string(model.RoleEvaluator)
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 公开路由
		v1.POST("/auth/login", h.Auth.Login)
		v1.POST("/persons", h.Person.Register)
		v1.GET("/events", h.Event.ListEvents)
		v1.GET("/events/open", h.Event.ListOpenEvents)
		v1.GET("/events/:id", h.Event.GetEvent)
		v1.GET("/events/:id/export/calendar", h.Export.ExportCalendar)
		v1.GET("/certificates/verify/:code",
			middleware.RateLimit(rdb, cfg.Server.VerifyRateLimit, time.Minute),
			h.Certificate.VerifyCertificate)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 人员模块
			persons := authorized.Group("/persons")
			{
				persons.GET("", h.Person.ListPersons)
				persons.GET("/:id", h.Person.GetPerson)
				persons.PUT("/:id", h.Person.UpdatePerson) // 仅本人（Service 层鉴权）
			}

			// 活动模块（所有权由 Service 层校验）
			events := authorized.Group("/events")
			{
				events.GET("/mine", middleware.RoleAuth(organizer), h.Event.ListMyEvents)
				events.POST("", middleware.RoleAuth(organizer), h.Event.CreateEvent)
				events.PUT("/:id", middleware.RoleAuth(organizer), h.Event.UpdateEvent)
				events.PUT("/:id/submission-window", middleware.RoleAuth(organizer), h.Event.SetSubmissionWindow)
				events.GET("/:id/enrollments", middleware.RoleAuth(organizer), h.Enrollment.ListEventEnrollments)
				events.GET("/:id/works", middleware.RoleAuth(organizer, evaluator), h.Work.ListEventWorks)
				events.GET("/:id/export/roster", middleware.RoleAuth(organizer), h.Export.ExportRoster)

				// 证书签发
				events.GET("/:id/certificates", middleware.RoleAuth(organizer), h.Certificate.ListEventCertificates)
				events.POST("/:id/certificates/participation", middleware.RoleAuth(organizer), h.Certificate.IssueParticipation)
				events.POST("/:id/certificates/presentation", middleware.RoleAuth(organizer), h.Certificate.IssuePresentation)
				events.POST("/:id/certificates/organization", middleware.RoleAuth(organizer), h.Certificate.IssueOrganization)
			}

			// 报名模块
			enrollments := authorized.Group("/enrollments")
			{
				enrollments.POST("", h.Enrollment.Enroll)
				enrollments.GET("/mine", h.Enrollment.ListMyEnrollments)
				enrollments.DELETE("/:id", h.Enrollment.CancelEnrollment)
				enrollments.POST("/:id/attendance", middleware.RoleAuth(organizer), h.Enrollment.ConfirmAttendance)
			}

			// 投稿与评审模块
			works := authorized.Group("/works")
			{
				works.POST("", h.Work.SubmitWork)
				works.GET("/mine", h.Work.ListMyWorks)
				works.GET("/under-review", middleware.RoleAuth(organizer, evaluator), h.Work.ListUnderReview)
				works.GET("/:id", h.Work.GetWork)
				works.POST("/:id/evaluator", middleware.RoleAuth(organizer), h.Work.AssignEvaluator)
				works.PUT("/:id/status", middleware.RoleAuth(organizer), h.Work.OverrideStatus)
				works.GET("/:id/evaluations", h.Evaluation.ListEvaluations)
				works.POST("/:id/evaluations", middleware.RoleAuth(evaluator), h.Evaluation.RegisterEvaluation)
			}

			// 证书模块
			authorized.GET("/certificates/mine", h.Certificate.ListMyCertificates)
		}
	}

	return r
}
