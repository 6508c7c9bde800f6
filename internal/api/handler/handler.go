package handler

import "sgea/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Person      *PersonHandler
	Event       *EventHandler
	Enrollment  *EnrollmentHandler
	Work        *WorkHandler
	Evaluation  *EvaluationHandler
	Certificate *CertificateHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Person:      NewPersonHandler(svc.Person),
		Event:       NewEventHandler(svc.Event),
		Enrollment:  NewEnrollmentHandler(svc.Enrollment),
		Work:        NewWorkHandler(svc.Work),
		Evaluation:  NewEvaluationHandler(svc.Evaluation),
		Certificate: NewCertificateHandler(svc.Certificate),
		Export:      NewExportHandler(svc.Export),
	}
}
