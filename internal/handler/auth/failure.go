package auth_handler

import (
	"github.com/ayxworxfr/gestao_admin/internal/service"
	"github.com/ayxworxfr/gestao_admin/pkg/context"
	"github.com/pkg/errors"
)

// Failure 将业务错误映射为响应
func Failure(err error) *context.Response {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return context.NotFound(err)
	case errors.Is(err, service.ErrInactive):
		return context.Forbidden(err)
	case errors.Is(err, service.ErrForbidden):
		return context.Forbidden(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return context.Unauthorized("Invalid credentials")
	case errors.Is(err, service.ErrValidation):
		return context.ParamError(err)
	case errors.Is(err, service.ErrConflict):
		return context.Conflict(err)
	default:
		return context.DatabaseError(err)
	}
}
