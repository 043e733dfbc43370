package params

type LoginRequest struct {
	Email    string `json:"email" vd:"len($)>0&&len($)<100"`
	Password string `json:"password" vd:"len($)>0"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" vd:"len($)>0"`
}

// GrantRow 单个屏幕的CRUD授权行，角色授权与用户授权共用
type GrantRow struct {
	ScreenID  uint64 `json:"screen_id" vd:"$>0"`
	CanCreate bool   `json:"can_create"`
	CanRead   bool   `json:"can_read"`
	CanUpdate bool   `json:"can_update"`
	CanDelete bool   `json:"can_delete"`
}

// SetRoleGrantsRequest 整体替换角色授权请求
type SetRoleGrantsRequest struct {
	RoleID uint64     `json:"role_id" vd:"$>0"`
	Grants []GrantRow `json:"grants"`
}

// SetUserGrantsRequest 整体替换用户直接授权请求
type SetUserGrantsRequest struct {
	UserID uint64     `json:"user_id" vd:"$>0"`
	Grants []GrantRow `json:"grants"`
}

// SetUserBranchesRequest 整体替换用户分支机构访问请求
type SetUserBranchesRequest struct {
	UserID    uint64   `json:"user_id" vd:"$>0"`
	BranchIDs []uint64 `json:"branch_ids"`
}

// GetUserPermissionsRequest 获取用户生效权限请求
type GetUserPermissionsRequest struct {
	UserID uint64 `query:"user_id" vd:"$>0"`
}

// GetRoleGrantsRequest 获取角色授权请求
type GetRoleGrantsRequest struct {
	RoleID uint64 `query:"role_id" vd:"$>0"`
}

// CheckScreenActionRequest 检查用户对指定屏幕动作的访问请求
type CheckScreenActionRequest struct {
	ScreenKey string `query:"screen_key" vd:"len($)>0"`
	Action    string `query:"action" vd:"len($)>0"`
}
