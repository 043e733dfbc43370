package auth_handler

import (
	"fmt"

	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	"github.com/ayxworxfr/gestao_admin/internal/service"
	"github.com/ayxworxfr/gestao_admin/pkg/context"
)

type IUserHandler interface {
	CreateUser(c *context.Context, req *params.CreateUserRequest) *context.Response
	UpdateUser(c *context.Context, req *params.UpdateUserRequest) *context.Response
	DeleteUser(c *context.Context, req *params.DeleteUserRequest) *context.Response
	GetUser(c *context.Context, req *params.GetUserRequest) *context.Response
	GetUserList(c *context.Context, req *params.GetUserListRequest) *context.Response
}

type UserHandler struct{}

// @route Post /user
// CreateUser 创建用户
func (h *UserHandler) CreateUser(c *context.Context, req *params.CreateUserRequest) *context.Response {
	user, err := service.UserServiceInstance.CreateUser(c.Context(), c.GetUserID(), req)
	if err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"user.create", fmt.Sprintf("user %q created", user.Email), c.ClientIP())
	return context.Success(user)
}

// @route Put /user
// UpdateUser 更新用户
func (h *UserHandler) UpdateUser(c *context.Context, req *params.UpdateUserRequest) *context.Response {
	user, err := service.UserServiceInstance.UpdateUser(c.Context(), c.GetUserID(), req)
	if err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"user.update", fmt.Sprintf("user %d updated", req.ID), c.ClientIP())
	return context.Success(user)
}

// @route Delete /user
// DeleteUser 删除用户
func (h *UserHandler) DeleteUser(c *context.Context, req *params.DeleteUserRequest) *context.Response {
	if err := service.UserServiceInstance.DeleteUserBatch(c.Context(), req.IDs); err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"user.delete", fmt.Sprintf("users %v deleted", req.IDs), c.ClientIP())
	return context.NoContent()
}

// @route Get /user
// GetUser 获取用户详情
func (h *UserHandler) GetUser(c *context.Context, req *params.GetUserRequest) *context.Response {
	user, err := service.UserServiceInstance.GetUser(c.Context(), req.ID, req.Flags)
	if err != nil {
		return Failure(err)
	}

	return context.Success(user)
}

// @route Get /user/list
// GetUserList 获取用户列表
func (h *UserHandler) GetUserList(c *context.Context, req *params.GetUserListRequest) *context.Response {
	users, total, err := service.UserServiceInstance.GetUserList(c.Context(), req)
	if err != nil {
		return Failure(err)
	}

	return context.PageSuccess(users, total)
}
