package auth_handler

import (
	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	"github.com/ayxworxfr/gestao_admin/internal/service"
	"github.com/ayxworxfr/gestao_admin/pkg/context"
	"github.com/ayxworxfr/gestao_admin/pkg/jwtauth"
)

type ILoginHandler interface {
	Login(c *context.Context) *context.Response
	RefreshToken(c *context.Context) *context.Response
	LoginOut(c *context.Context) *context.Response
	GetMe(c *context.Context) *context.Response
}

type LoginHandler struct{}

// @route POST /login
// Login 用户登录，返回用户信息、解析后的权限与令牌
func (h *LoginHandler) Login(c *context.Context) *context.Response {
	var req params.LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		return context.ParamError(err)
	}

	attempt := &service.LoginAttempt{
		Email:     req.Email,
		Password:  req.Password,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	result, err := service.AuthServiceInstance.Login(c.Context(), attempt)
	if err != nil {
		return Failure(err)
	}

	return context.Success(result)
}

// @route POST /refresh/token
// RefreshToken 刷新令牌
func (h *LoginHandler) RefreshToken(c *context.Context) *context.Response {
	var req params.RefreshTokenRequest
	if err := c.BindAndValidate(&req); err != nil {
		return context.ParamError(err)
	}

	token, err := service.AuthServiceInstance.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return context.Unauthorized(err.Error())
	}

	return context.Success(token)
}

func (h *LoginHandler) LoginOut(c *context.Context) *context.Response {
	// todo 让token失效
	return context.Success("LoginOut")
}

// @route GET /me
// GetMe 获取当前登录用户及其生效权限
func (h *LoginHandler) GetMe(c *context.Context) *context.Response {
	if _, err := jwtauth.Instance.ContextClaims(c.RequestContext); err != nil {
		return context.Unauthorized("Invalid token")
	}

	result, err := service.AuthServiceInstance.CurrentUser(c.Context(), c.GetUserID())
	if err != nil {
		return Failure(err)
	}

	return context.Success(result)
}
