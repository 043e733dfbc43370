package params

import (
	"github.com/ayxworxfr/gestao_admin/internal/domain/types"
)

// ---------------------- 用户管理模块 ----------------------

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	CompanyID uint64   `json:"company_id" vd:"$>0"`
	RoleID    uint64   `json:"role_id" vd:"$>0"`
	FullName  string   `json:"full_name" vd:"len($)>0&&len($)<100"`
	Email     string   `json:"email" vd:"len($)>0&&len($)<100"`
	Password  string   `json:"password" vd:"len($)>=6&&len($)<64"`
	Active    bool     `json:"active"`
	BranchIDs []uint64 `json:"branch_ids"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	ID        uint64    `json:"id" vd:"$>0"`
	RoleID    uint64    `json:"role_id"`
	FullName  string    `json:"full_name" vd:"len($)>=0&&len($)<100"`
	Email     string    `json:"email" vd:"len($)>=0&&len($)<100"`
	Password  string    `json:"password" vd:"len($)==0||(len($)>=6&&len($)<64)"` // 允许不修改密码
	Active    *bool     `json:"active"`                                          // 指针区分未设置和false
	BranchIDs *[]uint64 `json:"branch_ids"`                                      // 指针区分未设置和空数组
}

// DeleteUserRequest 删除用户请求
type DeleteUserRequest struct {
	IDs []uint64 `json:"ids" vd:"len($)>0"`
}

// GetUserRequest 获取用户请求
type GetUserRequest struct {
	ID    uint64 `query:"id" vd:"$>0"`
	Flags int    `query:"flags"` // 控制响应内容
}

// GetUserListRequest 获取用户列表请求
type GetUserListRequest struct {
	Page
	FullName  string `query:"full_name" vd:"len($)>=0&&len($)<100" xorm:"full_name op=like"`
	Email     string `query:"email" vd:"len($)>=0&&len($)<100" xorm:"email op=like"`
	CompanyID uint64 `query:"company_id" xorm:"company_id op=eq"`
	RoleID    uint64 `query:"role_id" xorm:"role_id op=eq"`
	Flags     int    `query:"flags"`
}

// ---------------------- 角色管理模块 ----------------------

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Name              string     `json:"name" vd:"len($)>0&&len($)<50"`
	Description       string     `json:"description" vd:"len($)<255"`
	CanSeeAllBranches bool       `json:"can_see_all_branches"`
	Grants            []GrantRow `json:"grants"`
}

// UpdateRoleRequest 更新角色请求
type UpdateRoleRequest struct {
	ID                uint64      `json:"id" vd:"$>0"`
	Name              string      `json:"name" vd:"len($)>=0&&len($)<50"`
	Description       string      `json:"description" vd:"len($)<255"`
	CanSeeAllBranches *bool       `json:"can_see_all_branches"`
	Grants            *[]GrantRow `json:"grants"` // 指针区分未设置和空数组
}

// DeleteRoleRequest 删除角色请求
type DeleteRoleRequest struct {
	IDs []uint64 `json:"ids" vd:"len($)>0"`
}

// GetRoleRequest 获取角色请求
type GetRoleRequest struct {
	ID    uint64 `query:"id" vd:"$>0"`
	Flags int    `query:"flags"`
}

// GetRoleListRequest 获取角色列表请求
type GetRoleListRequest struct {
	Page
	Name  string `query:"name" vd:"len($)>=0&&len($)<50" xorm:"name op=like"`
	Flags int    `query:"flags"`
}

// ---------------------- 屏幕注册表管理模块 ----------------------

// CreateScreenRequest 创建屏幕请求
type CreateScreenRequest struct {
	ParentID    uint64 `json:"parent_id"` // 0表示根节点
	Title       string `json:"title" vd:"len($)>0&&len($)<100"`
	Key         string `json:"key" vd:"len($)>0&&len($)<100"`
	Description string `json:"description" vd:"len($)<255"`
	Route       string `json:"route" vd:"len($)<255"`
	Icon        string `json:"icon" vd:"len($)<100"`
	Order       int    `json:"order"`
	Active      bool   `json:"active"`
}

// UpdateScreenRequest 更新屏幕请求
type UpdateScreenRequest struct {
	ID          uint64  `json:"id" vd:"$>0"`
	ParentID    *uint64 `json:"parent_id"` // 允许移动到根节点
	Title       string  `json:"title" vd:"len($)>=0&&len($)<100"`
	Key         string  `json:"key" vd:"len($)>=0&&len($)<100"`
	Description string  `json:"description" vd:"len($)<255"`
	Route       string  `json:"route" vd:"len($)<255"`
	Icon        string  `json:"icon" vd:"len($)<100"`
	Order       *int    `json:"order"`
	Active      *bool   `json:"active"`
}

// DeleteScreenRequest 删除屏幕请求
type DeleteScreenRequest struct {
	IDs []uint64 `json:"ids" vd:"len($)>0"`
}

// GetScreenRequest 获取屏幕请求
type GetScreenRequest struct {
	ID uint64 `query:"id" vd:"$>0"`
}

// GetScreenListRequest 获取屏幕列表请求
type GetScreenListRequest struct {
	Page
	Title string `query:"title" vd:"len($)>=0&&len($)<100" xorm:"title op=like"`
	Key   string `query:"key" vd:"len($)>=0&&len($)<100" xorm:"key op=startswith"`
}

// ---------------------- 日志模块 ----------------------

// GetLoginLogListRequest 获取登录日志列表请求
type GetLoginLogListRequest struct {
	Page
	UserID uint64     `query:"user_id" xorm:"user_id op=eq"`
	Email  string     `query:"email" vd:"len($)>=0&&len($)<100" xorm:"attempted_email op=like"`
	From   types.Date `query:"from" xorm:"create_time op=ge"`
	To     types.Date `query:"to" xorm:"create_time op=le"`
}

// GetActionLogListRequest 获取操作日志列表请求
type GetActionLogListRequest struct {
	Page
	UserID uint64     `query:"user_id" xorm:"user_id op=eq"`
	Action string     `query:"action" vd:"len($)>=0&&len($)<100" xorm:"action op=startswith"`
	From   types.Date `query:"from" xorm:"create_time op=ge"`
	To     types.Date `query:"to" xorm:"create_time op=le"`
}

// GetLoginStatsRequest 获取登录统计请求
type GetLoginStatsRequest struct {
	Days int `query:"days" vd:"$>=0&&$<=365"` // 0使用默认窗口
}
