package models

import (
	"time"

	"github.com/ayxworxfr/gestao_admin/pkg/crypter"
)

// User 用户模型，归属唯一公司，角色决定基线权限
type User struct {
	ID            uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	CompanyID     uint64    `xorm:"bigint unsigned notnull index 'company_id'" json:"company_id"`
	RoleID        uint64    `xorm:"bigint unsigned notnull index 'role_id'" json:"role_id"`
	FullName      string    `xorm:"varchar(100) notnull 'full_name'" json:"full_name"`
	Email         string    `xorm:"varchar(100) notnull unique 'email'" json:"email"`
	Password      string    `xorm:"varchar(100) notnull 'password'" json:"password"`
	Active        bool      `xorm:"bool notnull default true 'active'" json:"active"`
	CreateTime    time.Time `xorm:"created" json:"create_time"`
	UpdateTime    time.Time `xorm:"updated" json:"update_time"`
	LastLoginTime time.Time `xorm:"datetime 'last_login_time'" json:"last_login_time"`
}

func (u *User) Verify(password string) bool {
	return crypter.Instance.Verify(password, u.Password)
}

func (u *User) EncryptPassword() {
	u.Password = EncryptPassword(u.Password)
}

func EncryptPassword(password string) string {
	return crypter.Instance.Encrypt(password)
}
