package service

// Service 实例变量
var (
	AuthServiceInstance       *AuthService
	PermissionServiceInstance *PermissionService
	UserServiceInstance       *UserService
	ScreenServiceInstance     *ScreenService
	LogServiceInstance        *LogService
)

// dao层初始化完成后，调用Init函数
func Init() error {
	// 初始化核心服务
	PermissionServiceInstance = NewPermissionService()
	LogServiceInstance = NewLogService()
	AuthServiceInstance = NewAuthService(PermissionServiceInstance, LogServiceInstance)
	UserServiceInstance = NewUserService(PermissionServiceInstance)
	ScreenServiceInstance = NewScreenService()

	return nil
}
