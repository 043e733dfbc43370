package service

import "github.com/pkg/errors"

// 业务错误哨兵，handler层据此映射响应码
var (
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrInactive 账号或记录已停用
	ErrInactive = errors.New("record is inactive")
	// ErrInvalidCredentials 凭证无效（不区分邮箱不存在与密码错误）
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden 越权操作（如跨公司修改授权）
	ErrForbidden = errors.New("operation not allowed")
	// ErrValidation 请求数据不合法
	ErrValidation = errors.New("invalid request data")
	// ErrConflict 与现有数据冲突（如邮箱已占用、角色仍被引用）
	ErrConflict = errors.New("conflict with existing data")
)
