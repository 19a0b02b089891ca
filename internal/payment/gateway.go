package payment

import (
	"context"

	"github.com/craftmart-shop/internal/models"
)

// AttemptInput 发起一次支付尝试的输入。
type AttemptInput struct {
	OrderNumber string
	PaymentNo   string
	Amount      models.Money
	Currency    string
	Description string
}

// AttemptResult 支付尝试结果。
type AttemptResult struct {
	Status        string // success / declined
	TransactionID string
	Reason        string
}

// Gateway 支付网关抽象。实现方负责与具体渠道交互，
// 调用方只根据 AttemptResult.Status 决定订单走向。
type Gateway interface {
	Name() string
	Attempt(ctx context.Context, input AttemptInput) (*AttemptResult, error)
}
