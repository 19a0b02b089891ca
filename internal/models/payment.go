package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录（每次网关支付尝试一条）
type Payment struct {
	ID            uint           `gorm:"primarykey" json:"id"`                      // 主键
	OrderID       uint           `gorm:"index;not null" json:"order_id"`            // 订单ID
	PaymentNo     string         `gorm:"uniqueIndex;not null" json:"payment_no"`    // 支付单号
	Method        string         `gorm:"not null" json:"method"`                    // 支付方式（paypal）
	Gateway       string         `gorm:"not null" json:"gateway"`                   // 网关标识
	Amount        Money          `gorm:"type:decimal(20,2);not null" json:"amount"` // 支付金额
	Currency      string         `gorm:"not null" json:"currency"`                  // 币种
	Status        string         `gorm:"index;not null" json:"status"`              // 支付状态
	TransactionID string         `gorm:"index" json:"transaction_id"`               // 网关交易流水号
	FailureReason string         `gorm:"type:text" json:"failure_reason,omitempty"` // 失败原因
	PaidAt        *time.Time     `gorm:"index" json:"paid_at"`                      // 支付时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                   // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
