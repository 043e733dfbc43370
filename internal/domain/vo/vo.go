package vo

import (
	"time"
)

// Role 角色视图对象
type Role struct {
	ID                uint64      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	CanSeeAllBranches bool        `json:"can_see_all_branches"`
	CreateTime        time.Time   `json:"create_time"`
	UpdateTime        time.Time   `json:"update_time"`
	Grants            []GrantItem `json:"grants,omitempty"`
}

// GrantItem 单个屏幕的CRUD授权元组，角色授权与用户授权共用同一形状
type GrantItem struct {
	ScreenID  uint64 `json:"screen_id"`
	CanCreate bool   `json:"can_create"`
	CanRead   bool   `json:"can_read"`
	CanUpdate bool   `json:"can_update"`
	CanDelete bool   `json:"can_delete"`
}

// Screen 屏幕注册表视图对象（平铺，供管理端构建可编辑树）
type Screen struct {
	ID          uint64 `json:"id"`
	ParentID    uint64 `json:"parent_id"`
	Title       string `json:"title"`
	Key         string `json:"key"`
	Description string `json:"description"`
	Route       string `json:"route"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
	Active      bool   `json:"active"`
}

// ScreenPermission 屏幕及其生效CRUD授权（平铺形式，树构建的输入）
type ScreenPermission struct {
	ScreenID    uint64 `json:"screen_id"`
	ParentID    uint64 `json:"parent_id"`
	Title       string `json:"title"`
	Key         string `json:"key"`
	Description string `json:"description"`
	Route       string `json:"route"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
	CanCreate   bool   `json:"can_create"`
	CanRead     bool   `json:"can_read"`
	CanUpdate   bool   `json:"can_update"`
	CanDelete   bool   `json:"can_delete"`
}

// ScreenPermissionNode 剪枝后的权限树节点，登录响应的主要产物
// 子节点按Order升序排列
type ScreenPermissionNode struct {
	ScreenPermission
	Children []*ScreenPermissionNode `json:"children"`
}

// Branch 分支机构视图对象
type Branch struct {
	ID        uint64 `json:"id"`
	CompanyID uint64 `json:"company_id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// Permissions 登录响应中的权限负载
type Permissions struct {
	Screens  []*ScreenPermissionNode `json:"screens"`
	Branches []Branch                `json:"branches"`
}

// LoginLog 登录日志视图对象
type LoginLog struct {
	ID             uint64    `json:"id"`
	UserID         uint64    `json:"user_id"`
	AttemptedEmail string    `json:"attempted_email"`
	IP             string    `json:"ip"`
	UserAgent      string    `json:"user_agent"`
	Success        bool      `json:"success"`
	CreateTime     time.Time `json:"create_time"`
}

// ActionLog 操作日志视图对象
type ActionLog struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	IP         string    `json:"ip"`
	CreateTime time.Time `json:"create_time"`
}

// LoginStat 按日登录统计（原生SQL聚合结果）
type LoginStat struct {
	Day          string `json:"day"`
	SuccessCount int64  `json:"success_count"`
	FailureCount int64  `json:"failure_count"`
}
