package handler

import (
	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	auth_handler "github.com/ayxworxfr/gestao_admin/internal/handler/auth"
	"github.com/ayxworxfr/gestao_admin/internal/service"
	"github.com/ayxworxfr/gestao_admin/pkg/context"
)

type ILogHandler interface {
	GetLoginLogList(c *context.Context, req *params.GetLoginLogListRequest) *context.Response
	GetActionLogList(c *context.Context, req *params.GetActionLogListRequest) *context.Response
	GetLoginStats(c *context.Context, req *params.GetLoginStatsRequest) *context.Response
}

type LogHandler struct{}

// @route Get /login/log/list
// GetLoginLogList 获取登录日志列表
func (h *LogHandler) GetLoginLogList(c *context.Context, req *params.GetLoginLogListRequest) *context.Response {
	logs, total, err := service.LogServiceInstance.GetLoginLogList(c.Context(), req)
	if err != nil {
		return auth_handler.Failure(err)
	}

	return context.PageSuccess(logs, total)
}

// @route Get /action/log/list
// GetActionLogList 获取操作日志列表
func (h *LogHandler) GetActionLogList(c *context.Context, req *params.GetActionLogListRequest) *context.Response {
	logs, total, err := service.LogServiceInstance.GetActionLogList(c.Context(), req)
	if err != nil {
		return auth_handler.Failure(err)
	}

	return context.PageSuccess(logs, total)
}

// @route Get /login/stats
// GetLoginStats 获取按日登录统计
func (h *LogHandler) GetLoginStats(c *context.Context, req *params.GetLoginStatsRequest) *context.Response {
	stats, err := service.LogServiceInstance.GetLoginStats(c.Context(), req.Days)
	if err != nil {
		return auth_handler.Failure(err)
	}

	return context.Success(stats)
}
