package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 用户地址表（每个用户每种类型至多一个默认地址）
type Address struct {
	ID           uint           `gorm:"primarykey" json:"id"`                           // 主键
	UserID       uint           `gorm:"index;not null" json:"user_id"`                  // 用户ID（游客一次性地址为 0）
	Type         string         `gorm:"type:varchar(20);not null;index" json:"type"`    // 地址类型（shipping/billing）
	FirstName    string         `gorm:"not null" json:"first_name"`                     // 名
	LastName     string         `gorm:"not null" json:"last_name"`                      // 姓
	Company      string         `json:"company,omitempty"`                              // 公司
	AddressLine1 string         `gorm:"not null" json:"address_line1"`                  // 地址行1
	AddressLine2 string         `json:"address_line2,omitempty"`                        // 地址行2
	City         string         `gorm:"not null" json:"city"`                           // 城市
	State        string         `json:"state,omitempty"`                                // 省/州
	PostalCode   string         `gorm:"not null" json:"postal_code"`                    // 邮编
	Country      string         `gorm:"type:varchar(2);not null" json:"country"`        // 国家（ISO 3166-1 alpha-2）
	Phone        string         `json:"phone,omitempty"`                                // 电话
	IsDefault    bool           `gorm:"not null;default:false;index" json:"is_default"` // 是否默认地址
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// Snapshot 生成写入订单的地址快照
func (a *Address) Snapshot() JSON {
	return JSON{
		"first_name":    a.FirstName,
		"last_name":     a.LastName,
		"company":       a.Company,
		"address_line1": a.AddressLine1,
		"address_line2": a.AddressLine2,
		"city":          a.City,
		"state":         a.State,
		"postal_code":   a.PostalCode,
		"country":       a.Country,
		"phone":         a.Phone,
	}
}
