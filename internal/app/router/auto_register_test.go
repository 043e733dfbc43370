package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 测试驼峰命名的路径转换
func TestCaseConversion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		snake string
		slash string
	}{
		{
			name:  "单词",
			input: "User",
			snake: "user",
			slash: "user",
		},
		{
			name:  "两个单词",
			input: "RoleGrants",
			snake: "role_grants",
			slash: "role/grants",
		},
		{
			name:  "三个单词",
			input: "UserBranchAccess",
			snake: "user_branch_access",
			slash: "user/branch/access",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.snake, toSnakeCase(tt.input))
			assert.Equal(t, tt.slash, toSlashCase(tt.input))
		})
	}
}

// 测试从方法名推断HTTP方法和路径
func TestInferMethodAndPath(t *testing.T) {
	register := NewAutoRouterRegister()

	tests := []struct {
		funcName string
		method   RouterMethod
		path     string
	}{
		{"GetMe", GET, "/me"},
		{"CreateUser", POST, "/user"},
		{"UpdateRoleGrants", PUT, "/role/grants"},
		{"DeleteScreen", DELETE, "/screen"},
		{"GetUserList", GET, "/user/list"},
		{"Login", POST, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.funcName, func(t *testing.T) {
			method, base := register.inferMethodAndPathBase(tt.funcName)
			assert.Equal(t, tt.method, method)
			assert.Equal(t, tt.path, register.formatPath(base))
		})
	}
}
