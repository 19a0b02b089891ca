package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（金额与明细在创建后不再变更）
type Order struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNumber         string         `gorm:"uniqueIndex;not null" json:"order_number"`                     // 订单编号（CM-<年份>-<随机8位>）
	UserID              uint           `gorm:"index;not null" json:"user_id,omitempty"`                      // 用户ID（游客订单为 0）
	GuestEmail          string         `gorm:"index" json:"guest_email,omitempty"`                           // 游客邮箱
	Status              string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	PaymentStatus       string         `gorm:"index;not null" json:"payment_status"`                         // 支付状态
	PaymentMethod       string         `gorm:"not null" json:"payment_method"`                               // 支付方式
	PaymentID           string         `gorm:"index" json:"payment_id,omitempty"`                            // 网关支付流水号
	Currency            string         `gorm:"not null" json:"currency"`                                     // 币种
	SubtotalAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"` // 商品小计
	ShippingCost        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`   // 运费
	TotalAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 实付金额
	ShippingMethodName  string         `gorm:"type:varchar(100)" json:"shipping_method_name,omitempty"`      // 配送方式名称
	ShippingAddressID   uint           `gorm:"index;not null" json:"shipping_address_id"`                    // 收货地址ID
	BillingAddressID    uint           `gorm:"index;not null" json:"billing_address_id"`                     // 账单地址ID
	ShippingAddressJSON JSON           `gorm:"type:json" json:"shipping_address"`                            // 收货地址快照
	BillingAddressJSON  JSON           `gorm:"type:json" json:"billing_address"`                             // 账单地址快照
	Notes               string         `gorm:"type:text" json:"notes,omitempty"`                             // 备注（含支付失败原因）
	ClientIP            string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                  // 下单客户端IP
	PaidAt              *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	ShippedAt           *time.Time     `gorm:"index" json:"shipped_at"`                                      // 发货时间
	DeliveredAt         *time.Time     `gorm:"index" json:"delivered_at"`                                    // 签收时间
	CancelledAt         *time.Time     `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
