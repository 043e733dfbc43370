package app

import (
	"github.com/ayxworxfr/gestao_admin/internal/app/router"
	"github.com/ayxworxfr/gestao_admin/internal/handler"
	"github.com/ayxworxfr/gestao_admin/internal/middleware"
	"github.com/ayxworxfr/gestao_admin/internal/middleware/sentinel"
)

func (a *App) SetupRoutes() {
	root := a.Group("/")
	root.GET("/health", handler.HelloHandler)

	api := a.Group("/api")
	api.GET("/hello", handler.HelloHandler)

	// 公开路由（登录、刷新令牌），按IP限流防止暴力破解
	public := api.Group("/")
	public.Use(sentinel.IPRateLimiterMiddleware(5, 10, nil))
	router.AutoRegister.RegisterRouterByFunc(
		public,
		handler.LoginHandlerInstance.Login,
		handler.LoginHandlerInstance.RefreshToken,
	)

	// 使用JWT中间件保护的路由
	protected := api.Group("/protected")
	protected.Use(middleware.JWTMiddleware())
	router.AutoRegister.RegisterRouterByFunc(
		protected,
		handler.LoginHandlerInstance.LoginOut,
		handler.LoginHandlerInstance.GetMe,
	)

	// 屏幕、角色、用户、授权与审计日志路由
	router.AutoRegister.RegisterStruct(protected, handler.AllHandlerInstance...)
}
