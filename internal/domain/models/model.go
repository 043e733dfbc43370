package models

import (
	"time"
)

// SystemAdminRoleName 系统管理员角色名称
// 权限解析器按角色身份识别该角色并跳过授权查询（见PermissionService）
const SystemAdminRoleName = "Administrador"

// Role 角色模型
type Role struct {
	ID                uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	Name              string    `xorm:"varchar(50) notnull unique 'name'" json:"name"`
	Description       string    `xorm:"varchar(255) 'description'" json:"description"`
	CanSeeAllBranches bool      `xorm:"bool notnull default false 'can_see_all_branches'" json:"can_see_all_branches"`
	CreateTime        time.Time `xorm:"created" json:"create_time"`
	UpdateTime        time.Time `xorm:"updated" json:"update_time"`
}

// IsSystemAdmin 判断是否为系统管理员角色
func (r *Role) IsSystemAdmin() bool {
	return r.Name == SystemAdminRoleName
}

// Screen 屏幕/菜单节点模型
// ParentID为0表示根节点；Route为空的节点是纯菜单分组
type Screen struct {
	ID          uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	ParentID    uint64    `xorm:"bigint unsigned index 'parent_id'" json:"parent_id"`
	Title       string    `xorm:"varchar(100) notnull 'title'" json:"title"`
	Key         string    `xorm:"varchar(50) notnull unique 'key'" json:"key"`
	Description string    `xorm:"varchar(255) 'description'" json:"description"`
	Route       string    `xorm:"varchar(255) 'route'" json:"route"`
	Icon        string    `xorm:"varchar(50) 'icon'" json:"icon"`
	Order       int       `xorm:"int notnull default 0 'order_num'" json:"order"`
	Active      bool      `xorm:"bool notnull default true 'active'" json:"active"`
	CreateTime  time.Time `xorm:"created" json:"create_time"`
	UpdateTime  time.Time `xorm:"updated" json:"update_time"`
}

// IsGroup 判断是否为纯菜单分组（无路由）
func (s *Screen) IsGroup() bool {
	return s.Route == ""
}

// RoleScreenAccess 角色屏幕授权模型，(role_id, screen_id)唯一
type RoleScreenAccess struct {
	ID        uint64 `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	RoleID    uint64 `xorm:"bigint unsigned notnull index unique(role_screen) 'role_id'" json:"role_id"`
	ScreenID  uint64 `xorm:"bigint unsigned notnull index unique(role_screen) 'screen_id'" json:"screen_id"`
	CanCreate bool   `xorm:"bool notnull default false 'can_create'" json:"can_create"`
	CanRead   bool   `xorm:"bool notnull default false 'can_read'" json:"can_read"`
	CanUpdate bool   `xorm:"bool notnull default false 'can_update'" json:"can_update"`
	CanDelete bool   `xorm:"bool notnull default false 'can_delete'" json:"can_delete"`
}

// UserScreenAccess 用户屏幕授权模型，覆盖角色授权，(user_id, screen_id)唯一
type UserScreenAccess struct {
	ID        uint64 `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	UserID    uint64 `xorm:"bigint unsigned notnull index unique(user_screen) 'user_id'" json:"user_id"`
	ScreenID  uint64 `xorm:"bigint unsigned notnull index unique(user_screen) 'screen_id'" json:"screen_id"`
	CanCreate bool   `xorm:"bool notnull default false 'can_create'" json:"can_create"`
	CanRead   bool   `xorm:"bool notnull default false 'can_read'" json:"can_read"`
	CanUpdate bool   `xorm:"bool notnull default false 'can_update'" json:"can_update"`
	CanDelete bool   `xorm:"bool notnull default false 'can_delete'" json:"can_delete"`
}

// UserBranchAccess 用户分支机构可见性授权模型
// 仅当用户角色CanSeeAllBranches为false时生效
type UserBranchAccess struct {
	ID       uint64 `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	UserID   uint64 `xorm:"bigint unsigned notnull index unique(user_branch) 'user_id'" json:"user_id"`
	BranchID uint64 `xorm:"bigint unsigned notnull index unique(user_branch) 'branch_id'" json:"branch_id"`
}
