package auth_handler

import (
	"fmt"

	"github.com/ayxworxfr/gestao_admin/internal/domain/params"
	"github.com/ayxworxfr/gestao_admin/internal/service"
	"github.com/ayxworxfr/gestao_admin/pkg/context"
)

type IPermissionHandler interface {
	GetUserPermissions(c *context.Context, req *params.GetUserPermissionsRequest) *context.Response
	GetUserGrants(c *context.Context, req *params.GetUserPermissionsRequest) *context.Response
	UpdateUserGrants(c *context.Context, req *params.SetUserGrantsRequest) *context.Response
	UpdateUserBranches(c *context.Context, req *params.SetUserBranchesRequest) *context.Response
	GetAccessCheck(c *context.Context, req *params.CheckScreenActionRequest) *context.Response
}

type PermissionHandler struct{}

// @route Get /user/permissions
// GetUserPermissions 获取用户的生效权限树
func (h *PermissionHandler) GetUserPermissions(c *context.Context, req *params.GetUserPermissionsRequest) *context.Response {
	tree, err := service.PermissionServiceInstance.ResolveScreenTree(c.Context(), req.UserID)
	if err != nil {
		return Failure(err)
	}

	return context.Success(tree)
}

// @route Get /user/grants
// GetUserGrants 获取用户直接授权列表（未合并角色授权）
func (h *PermissionHandler) GetUserGrants(c *context.Context, req *params.GetUserPermissionsRequest) *context.Response {
	grants, err := service.PermissionServiceInstance.GetUserGrants(c.Context(), req.UserID)
	if err != nil {
		return Failure(err)
	}

	return context.Success(grants)
}

// @route Put /user/grants
// UpdateUserGrants 整体替换用户直接授权
func (h *PermissionHandler) UpdateUserGrants(c *context.Context, req *params.SetUserGrantsRequest) *context.Response {
	if err := service.PermissionServiceInstance.ReplaceUserGrants(c.Context(), c.GetUserID(), req); err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"user.grants.replace", fmt.Sprintf("user %d grants replaced (%d rows)", req.UserID, len(req.Grants)), c.ClientIP())
	return context.NoContent()
}

// @route Put /user/branches
// UpdateUserBranches 整体替换用户分支机构访问
func (h *PermissionHandler) UpdateUserBranches(c *context.Context, req *params.SetUserBranchesRequest) *context.Response {
	if err := service.PermissionServiceInstance.ReplaceUserBranchAccess(c.Context(), c.GetUserID(), req); err != nil {
		return Failure(err)
	}

	service.LogServiceInstance.RecordAction(c.Context(), c.GetUserID(),
		"user.branches.replace", fmt.Sprintf("user %d branch access replaced (%d rows)", req.UserID, len(req.BranchIDs)), c.ClientIP())
	return context.NoContent()
}

// @route Get /access/check
// GetAccessCheck 检查当前用户对指定屏幕动作的访问
func (h *PermissionHandler) GetAccessCheck(c *context.Context, req *params.CheckScreenActionRequest) *context.Response {
	allowed, err := service.PermissionServiceInstance.CheckScreenAction(c.Context(), c.GetUserID(), req.ScreenKey, req.Action)
	if err != nil {
		return Failure(err)
	}

	return context.Success(map[string]any{
		"screen_key": req.ScreenKey,
		"action":     req.Action,
		"allowed":    allowed,
	})
}
