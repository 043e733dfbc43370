package models

import "time"

// Company 公司模型，多租户的顶层作用域
type Company struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	TradeName  string    `xorm:"varchar(100) notnull 'trade_name'" json:"trade_name"`
	LegalName  string    `xorm:"varchar(150) notnull 'legal_name'" json:"legal_name"`
	TaxID      string    `xorm:"varchar(20) notnull unique 'tax_id'" json:"tax_id"`
	Active     bool      `xorm:"bool notnull default true 'active'" json:"active"`
	CreateTime time.Time `xorm:"created" json:"create_time"`
	UpdateTime time.Time `xorm:"updated" json:"update_time"`
}

// Branch 分支机构模型，始终归属一个公司
type Branch struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	CompanyID  uint64    `xorm:"bigint unsigned notnull index 'company_id'" json:"company_id"`
	Name       string    `xorm:"varchar(100) notnull 'name'" json:"name"`
	Address    string    `xorm:"varchar(255) 'address'" json:"address"`
	City       string    `xorm:"varchar(100) 'city'" json:"city"`
	State      string    `xorm:"varchar(50) 'state'" json:"state"`
	Active     bool      `xorm:"bool notnull default true 'active'" json:"active"`
	CreateTime time.Time `xorm:"created" json:"create_time"`
	UpdateTime time.Time `xorm:"updated" json:"update_time"`
}
