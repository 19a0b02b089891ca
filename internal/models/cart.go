package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart 购物车（登录用户与游客二选一持有）
type Cart struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	UserID      *uint          `gorm:"uniqueIndex" json:"user_id,omitempty"`                      // 用户ID（游客购物车为空）
	SessionID   *string        `gorm:"uniqueIndex;type:varchar(64)" json:"session_id,omitempty"`  // 游客会话ID（用户购物车为空）
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 合计金额（由明细行派生）
	TotalItems  int            `gorm:"not null;default:0" json:"total_items"`                     // 商品件数（由明细行派生）
	ExpiresAt   *time.Time     `gorm:"index" json:"expires_at,omitempty"`                         // 游客购物车过期时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Lines []CartLine `gorm:"foreignKey:CartID" json:"lines,omitempty"` // 购物车明细行
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// IsGuest 是否游客购物车
func (c *Cart) IsGuest() bool {
	return c.UserID == nil
}

// CartLine 购物车明细行
type CartLine struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                         // 主键
	CartID    uint           `gorm:"not null;uniqueIndex:idx_cart_line_product" json:"cart_id"`    // 购物车ID
	ProductID uint           `gorm:"not null;uniqueIndex:idx_cart_line_product" json:"product_id"` // 商品ID
	Quantity  int            `gorm:"not null" json:"quantity"`                                     // 数量（至少为 1）
	UnitPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`      // 加入时的单价快照
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}
