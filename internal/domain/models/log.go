package models

import "time"

// LoginLog 登录审计日志，记录每次登录尝试（含失败）
type LoginLog struct {
	ID             uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	UserID         uint64    `xorm:"bigint unsigned index 'user_id'" json:"user_id"` // 0表示未匹配到用户
	AttemptedEmail string    `xorm:"varchar(100) notnull 'attempted_email'" json:"attempted_email"`
	IP             string    `xorm:"varchar(50) 'ip'" json:"ip"`
	UserAgent      string    `xorm:"varchar(255) 'user_agent'" json:"user_agent"`
	Success        bool      `xorm:"bool notnull 'success'" json:"success"`
	CreateTime     time.Time `xorm:"created" json:"create_time"`
}

// ActionLog 操作审计日志，记录授权变更等管理操作
type ActionLog struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	UserID     uint64    `xorm:"bigint unsigned notnull index 'user_id'" json:"user_id"`
	Action     string    `xorm:"varchar(100) notnull 'action'" json:"action"`
	Details    string    `xorm:"text 'details'" json:"details"`
	IP         string    `xorm:"varchar(50) 'ip'" json:"ip"`
	CreateTime time.Time `xorm:"created" json:"create_time"`
}
