package auth_handler

import (
	"fmt"

	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	"github.com/ayxworxfr/gestao_admin/internal/service"
	"github.com/ayxworxfr/gestao_admin/pkg/context"
)

type IRoleHandler interface {
	CreateRole(c *context.Context, req *params.CreateRoleRequest) *context.Response
	UpdateRole(c *context.Context, req *params.UpdateRoleRequest) *context.Response
	DeleteRole(c *context.Context, req *params.DeleteRoleRequest) *context.Response
	GetRole(c *context.Context, req *params.GetRoleRequest) *context.Response
	GetRoleList(c *context.Context, req *params.GetRoleListRequest) *context.Response
	GetRoleGrants(c *context.Context, req *params.GetRoleGrantsRequest) *context.Response
	UpdateRoleGrants(c *context.Context, req *params.SetRoleGrantsRequest) *context.Response
}

type RoleHandler struct{}

// @route Post /role
// CreateRole 创建角色
func (h *RoleHandler) CreateRole(c *context.Context, req *params.CreateRoleRequest) *context.Response {
	role, err := service.PermissionServiceInstance.CreateRole(c.Context(), req)
	if err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"role.create", fmt.Sprintf("role %q created", role.Name), c.ClientIP())
	return context.Success(role)
}

// @route Put /role
// UpdateRole 更新角色
func (h *RoleHandler) UpdateRole(c *context.Context, req *params.UpdateRoleRequest) *context.Response {
	role, err := service.PermissionServiceInstance.UpdateRole(c.Context(), req)
	if err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"role.update", fmt.Sprintf("role %d updated", req.ID), c.ClientIP())
	return context.Success(role)
}

// @route Delete /role
// DeleteRole 删除角色
func (h *RoleHandler) DeleteRole(c *context.Context, req *params.DeleteRoleRequest) *context.Response {
	if err := service.PermissionServiceInstance.DeleteRoleBatch(c.Context(), req.IDs); err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"role.delete", fmt.Sprintf("roles %v deleted", req.IDs), c.ClientIP())
	return context.NoContent()
}

// @route Get /role
// GetRole 获取单个角色（含授权）
func (h *RoleHandler) GetRole(c *context.Context, req *params.GetRoleRequest) *context.Response {
	role, err := service.PermissionServiceInstance.GetRole(c.Context(), req.ID)
	if err != nil {
		return Failure(err)
	}

	return context.Success(role)
}

// @route Get /role/list
// GetRoleList 获取角色列表
func (h *RoleHandler) GetRoleList(c *context.Context, req *params.GetRoleListRequest) *context.Response {
	roles, total, err := service.PermissionServiceInstance.GetRoleList(c.Context(), req)
	if err != nil {
		return Failure(err)
	}

	return context.PageSuccess(roles, total)
}

// @route Get /role/grants
// GetRoleGrants 获取角色授权列表
func (h *RoleHandler) GetRoleGrants(c *context.Context, req *params.GetRoleGrantsRequest) *context.Response {
	grants, err := service.PermissionServiceInstance.GetRoleGrants(c.Context(), req.RoleID)
	if err != nil {
		return Failure(err)
	}

	return context.Success(grants)
}

// @route Put /role/grants
// UpdateRoleGrants 整体替换角色授权
func (h *RoleHandler) UpdateRoleGrants(c *context.Context, req *params.SetRoleGrantsRequest) *context.Response {
	if err := service.PermissionServiceInstance.ReplaceRoleGrants(c.Context(), req); err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"role.grants.replace", fmt.Sprintf("role %d grants replaced (%d rows)", req.RoleID, len(req.Grants)), c.ClientIP())
	return context.NoContent()
}
