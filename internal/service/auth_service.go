package service

import (
	"context"
	"strconv"
	"time"

	"github.com/ayxworxfr/gestao_admin/internal/dao"
	"github.com/ayxworxfr/gestao_admin/internal/domain/models"
	"github.com/ayxworxfr/gestao_admin/internal/domain/vo"
	"github.com/ayxworxfr/gestao_admin/pkg/jwtauth"
	"github.com/ayxworxfr/gestao_admin/pkg/logger"
	"github.com/ayxworxfr/gestao_admin/pkg/repository"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LoginAttempt 登录请求上下文（用于审计）
type LoginAttempt struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// AuthService 认证服务 - 负责用户认证、令牌管理与登录审计
type AuthService struct {
	userRepo    repository.Repository[models.User]
	roleRepo    repository.Repository[models.Role]
	permService *PermissionService
	logService  *LogService
}

// NewAuthService 创建认证服务实例
func NewAuthService(permService *PermissionService, logService *LogService) *AuthService {
	return &AuthService{
		userRepo:    dao.UserRepo,
		roleRepo:    dao.RoleRepo,
		permService: permService,
		logService:  logService,
	}
}

// Login 用户登录
// 成功与失败的尝试都会写入登录日志；失败原因不区分邮箱不存在与密码错误
func (s *AuthService) Login(ctx context.Context, attempt *LoginAttempt) (*vo.LoginResult, error) {
	user, err := s.userRepo.Find(ctx, &models.User{Email: attempt.Email})
	if err != nil {
		logger.Warn(ctx, "Login failed: unknown email", zap.String("email", attempt.Email))
		s.logService.RecordLogin(ctx, 0, attempt, false)
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		logger.Warn(ctx, "Login denied: inactive user", zap.Uint64("user_id", user.ID))
		s.logService.RecordLogin(ctx, user.ID, attempt, false)
		return nil, errors.Wrapf(ErrInactive, "user %d is inactive", user.ID)
	}

	// 校验密码
	if !user.Verify(attempt.Password) {
		logger.Warn(ctx, "Login failed: invalid password", zap.Uint64("user_id", user.ID))
		s.logService.RecordLogin(ctx, user.ID, attempt, false)
		return nil, ErrInvalidCredentials
	}

	role, err := s.roleRepo.FindByID(ctx, user.RoleID)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve user role", zap.Error(err), zap.Uint64("role_id", user.RoleID))
		return nil, errors.Wrap(err, "failed to retrieve user role")
	}

	// 登录时解析完整权限负载
	permissions, err := s.permService.ResolvePermissions(ctx, user, role)
	if err != nil {
		logger.Error(ctx, "Failed to resolve permissions", zap.Error(err), zap.Uint64("user_id", user.ID))
		return nil, errors.Wrap(err, "failed to resolve permissions")
	}

	tokenInfo, err := jwtauth.Instance.GenerateToken(
		strconv.FormatUint(user.ID, 10),
		user.Email,
		role.Name,
	)
	if err != nil {
		logger.Error(ctx, "Failed to generate token", zap.Error(err), zap.Uint64("user_id", user.ID))
		return nil, errors.Wrap(err, "failed to generate token")
	}

	user.LastLoginTime = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.Warn(ctx, "Failed to update last login time", zap.Error(err), zap.Uint64("user_id", user.ID))
	}

	s.logService.RecordLogin(ctx, user.ID, attempt, true)
	logger.Info(ctx, "Login successful", zap.Uint64("user_id", user.ID), zap.String("email", user.Email))

	var userVO vo.User
	if err := copier.Copy(&userVO, &user); err != nil {
		return nil, errors.Wrap(err, "failed to copy user to result")
	}
	userVO.RoleName = role.Name

	return &vo.LoginResult{
		User:        userVO,
		Permissions: *permissions,
		Token: vo.TokenResponse{
			AccessToken:  tokenInfo.AccessToken,
			RefreshToken: tokenInfo.RefreshToken,
			ExpiresAt:    tokenInfo.ExpiresAt,
		},
	}, nil
}

// RefreshToken 刷新令牌
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*vo.TokenResponse, error) {
	if refreshToken == "" {
		return nil, errors.Wrap(ErrValidation, "refresh token is required")
	}

	claims, err := jwtauth.Instance.ParseToken(refreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid refresh token")
	}
	if claims.Type != jwtauth.RefreshTokenType {
		return nil, errors.Wrap(ErrValidation, "not a refresh token")
	}

	userID, err := strconv.ParseUint(claims.Identity, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid user ID in token")
	}

	// 刷新时重新检查账号状态与当前角色
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "user %d not found", userID)
	}
	if !user.Active {
		return nil, errors.Wrapf(ErrInactive, "user %d is inactive", userID)
	}

	roleKey := claims.RoleKey
	if role, err := s.roleRepo.FindByID(ctx, user.RoleID); err == nil {
		roleKey = role.Name
	} else {
		logger.Warn(ctx, "Failed to retrieve user role for token refresh",
			zap.Error(err), zap.Uint64("user_id", userID))
	}

	newToken, err := jwtauth.Instance.GenerateToken(
		claims.Identity,
		user.Email,
		roleKey,
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate new token")
	}

	return &vo.TokenResponse{
		AccessToken:  newToken.AccessToken,
		RefreshToken: newToken.RefreshToken,
		ExpiresAt:    newToken.ExpiresAt,
	}, nil
}

// CurrentUser 获取当前登录用户及其生效权限
func (s *AuthService) CurrentUser(ctx context.Context, userID uint64) (*vo.LoginResult, error) {
	user, role, err := s.permService.loadUserAndRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	permissions, err := s.permService.ResolvePermissions(ctx, user, role)
	if err != nil {
		return nil, err
	}

	var userVO vo.User
	if err := copier.Copy(&userVO, &user); err != nil {
		return nil, errors.Wrap(err, "failed to copy user to result")
	}
	userVO.RoleName = role.Name

	return &vo.LoginResult{
		User:        userVO,
		Permissions: *permissions,
	}, nil
}
