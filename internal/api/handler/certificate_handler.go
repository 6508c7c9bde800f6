package handler

import (
	"github.com/gin-gonic/gin"

	"sgea/backend/internal/service"
	"sgea/backend/pkg/response"
)

// CertificateHandler 证书模块 HTTP 处理器
type CertificateHandler struct {
	certificateSvc service.CertificateService
}

// NewCertificateHandler 创建 CertificateHandler
func NewCertificateHandler(certificateSvc service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateSvc: certificateSvc}
}

// IssueParticipation 批量签发参与证书，返回本次新签发的证书
// POST /api/v1/events/:id/certificates/participation
func (h *CertificateHandler) IssueParticipation(c *gin.Context) {
	issued, err := h.certificateSvc.IssueParticipation(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, issued, len(issued))
}

// IssuePresentation 批量签发报告证书
// POST /api/v1/events/:id/certificates/presentation
func (h *CertificateHandler) IssuePresentation(c *gin.Context) {
	issued, err := h.certificateSvc.IssuePresentation(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, issued, len(issued))
}

// IssueOrganization 为当前主办者签发组织证书
// POST /api/v1/events/:id/certificates/organization
func (h *CertificateHandler) IssueOrganization(c *gin.Context) {
	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	cert, err := h.certificateSvc.IssueOrganization(c.Request.Context(), c.Param("id"), organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, cert)
}

// ListEventCertificates 活动已签发的证书
// GET /api/v1/events/:id/certificates
func (h *CertificateHandler) ListEventCertificates(c *gin.Context) {
	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	list, err := h.certificateSvc.ListByEvent(c.Request.Context(), c.Param("id"), organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, list, len(list))
}

// ListMyCertificates 本人证书
// GET /api/v1/certificates/mine
func (h *CertificateHandler) ListMyCertificates(c *gin.Context) {
	personID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	list, err := h.certificateSvc.ListByPerson(c.Request.Context(), personID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, list, len(list))
}

// VerifyCertificate 按校验码公开校验证书
// GET /api/v1/certificates/verify/:code
func (h *CertificateHandler) VerifyCertificate(c *gin.Context) {
	cert, err := h.certificateSvc.Verify(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, cert)
}
