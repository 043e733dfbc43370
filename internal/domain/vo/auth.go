package vo

// TokenResponse 令牌响应
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// LoginResult 登录响应：用户信息、解析后的权限以及令牌
type LoginResult struct {
	User        User          `json:"user"`
	Permissions Permissions   `json:"permissions"`
	Token       TokenResponse `json:"token"`
}
