package vo

import (
	"time"
)

// User 用户视图对象，不携带密码
type User struct {
	ID            uint64    `json:"id"`
	CompanyID     uint64    `json:"company_id"`
	RoleID        uint64    `json:"role_id"`
	RoleName      string    `json:"role_name,omitempty"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Active        bool      `json:"active"`
	CreateTime    time.Time `json:"create_time"`
	UpdateTime    time.Time `json:"update_time"`
	LastLoginTime time.Time `json:"last_login_time"`
}

// UserDetail 用户详情，附带直接授权与分支机构访问
type UserDetail struct {
	User
	Grants    []GrantItem `json:"grants"`
	BranchIDs []uint64    `json:"branch_ids"`
}
