package middleware

import (
	"context"
	"strconv"

	mycontext "github.com/ayxworxfr/gestao_admin/pkg/context"
	"github.com/ayxworxfr/gestao_admin/pkg/jwtauth"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// JWTMiddleware JWT认证中间件
// 仅负责令牌校验与声明注入，屏幕级授权由权限服务单独检查
func JWTMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		tokenString := c.Request.Header.Get("Authorization")
		if tokenString == "" {
			rsp := mycontext.Unauthorized("No token provided")
			c.JSON(consts.StatusUnauthorized, rsp)
			c.Abort()
			return
		}

		// 移除 "Bearer " 前缀
		if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
			tokenString = tokenString[7:]
		}

		claims, err := jwtauth.Instance.ParseToken(tokenString)
		if err != nil {
			rsp := mycontext.Unauthorized("Invalid token: " + err.Error())
			c.JSON(consts.StatusUnauthorized, rsp)
			c.Abort()
			return
		}

		// 刷新令牌不可用于访问受保护接口
		if claims.Type == jwtauth.RefreshTokenType {
			rsp := mycontext.Unauthorized("Refresh token cannot be used for access")
			c.JSON(consts.StatusUnauthorized, rsp)
			c.Abort()
			return
		}

		if _, err := strconv.ParseUint(claims.Identity, 10, 64); err != nil {
			rsp := mycontext.Unauthorized("Invalid user ID in token")
			c.JSON(consts.StatusUnauthorized, rsp)
			c.Abort()
			return
		}
		c.Set(jwtauth.ClaimsKey, claims)

		c.Next(ctx)
	}
}
