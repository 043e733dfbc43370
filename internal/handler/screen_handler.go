package handler

import (
	"fmt"

	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	auth_handler "github.com/ayxworxfr/gestao_admin/internal/handler/auth"
	"github.com/ayxworxfr/gestao_admin/internal/service"
	"github.com/ayxworxfr/gestao_admin/pkg/context"
)

type IScreenHandler interface {
	CreateScreen(c *context.Context, req *params.CreateScreenRequest) *context.Response
	UpdateScreen(c *context.Context, req *params.UpdateScreenRequest) *context.Response
	DeleteScreen(c *context.Context, req *params.DeleteScreenRequest) *context.Response
	GetScreen(c *context.Context, req *params.GetScreenRequest) *context.Response
	GetScreenList(c *context.Context, req *params.GetScreenListRequest) *context.Response
}

type ScreenHandler struct{}

// @route Post /screen
// CreateScreen 创建屏幕
func (h *ScreenHandler) CreateScreen(c *context.Context, req *params.CreateScreenRequest) *context.Response {
	screen, err := service.ScreenServiceInstance.CreateScreen(c.Context(), req)
	if err != nil {
		return auth_handler.Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"screen.create", fmt.Sprintf("screen %q created", screen.Key), c.ClientIP())
	return context.Success(screen)
}

// @route Put /screen
// UpdateScreen 更新屏幕
func (h *ScreenHandler) UpdateScreen(c *context.Context, req *params.UpdateScreenRequest) *context.Response {
	screen, err := service.ScreenServiceInstance.UpdateScreen(c.Context(), req)
	if err != nil {
		return auth_handler.Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"screen.update", fmt.Sprintf("screen %d updated", req.ID), c.ClientIP())
	return context.Success(screen)
}

// @route Delete /screen
// DeleteScreen 删除屏幕
func (h *ScreenHandler) DeleteScreen(c *context.Context, req *params.DeleteScreenRequest) *context.Response {
	if err := service.ScreenServiceInstance.DeleteScreenBatch(c.Context(), req.IDs); err != nil {
		return auth_handler.Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"screen.delete", fmt.Sprintf("screens %v deleted", req.IDs), c.ClientIP())
	return context.NoContent()
}

// @route Get /screen
// GetScreen 获取单个屏幕
func (h *ScreenHandler) GetScreen(c *context.Context, req *params.GetScreenRequest) *context.Response {
	screen, err := service.ScreenServiceInstance.GetScreen(c.Context(), req.ID)
	if err != nil {
		return auth_handler.Failure(err)
	}

	return context.Success(screen)
}

// @route Get /screen/list
// GetScreenList 获取屏幕列表
func (h *ScreenHandler) GetScreenList(c *context.Context, req *params.GetScreenListRequest) *context.Response {
	screens, total, err := service.ScreenServiceInstance.GetScreenList(c.Context(), req)
	if err != nil {
		return auth_handler.Failure(err)
	}

	return context.PageSuccess(screens, total)
}
