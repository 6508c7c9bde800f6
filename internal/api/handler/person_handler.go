package handler

import (
	"github.com/gin-gonic/gin"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/service"
	"sgea/backend/pkg/response"
)

// PersonHandler 人员模块 HTTP 处理器
type PersonHandler struct {
	personSvc service.PersonService
}

// NewPersonHandler 创建 PersonHandler
func NewPersonHandler(personSvc service.PersonService) *PersonHandler {
	return &PersonHandler{personSvc: personSvc}
}

// Register 注册人员（公开）
// POST /api/v1/persons
func (h *PersonHandler) Register(c *gin.Context) {
	var req dto.RegisterPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	person, err := h.personSvc.Register(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, person)
}

// ListPersons 人员列表
// GET /api/v1/persons
func (h *PersonHandler) ListPersons(c *gin.Context) {
	persons, err := h.personSvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, persons, len(persons))
}

// GetPerson 人员详情
// GET /api/v1/persons/:id
func (h *PersonHandler) GetPerson(c *gin.Context) {
	person, err := h.personSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, person)
}

// UpdatePerson 修改本人信息
// PUT /api/v1/persons/:id
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	person, err := h.personSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, person)
}
