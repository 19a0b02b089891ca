package paypal

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/payment"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("paypal config invalid")
	ErrAmountInvalid    = errors.New("paypal amount invalid")
	ErrCurrencyMismatch = errors.New("paypal currency mismatch")
)

const (
	// ModeSuccess 网关放行所有支付尝试。
	ModeSuccess = "success"
	// ModeDeclined 网关拒绝所有支付尝试。
	ModeDeclined = "declined"

	declinedReason = "payment declined by gateway"

	gatewayName = "paypal"
)

// Config PayPal 模拟网关配置。
type Config struct {
	Mode     string
	Currency string
}

func (c *Config) normalize() {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = ModeSuccess
	}
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = constants.SiteCurrencyDefault
	}
}

// ValidateConfig 校验配置。
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", ModeSuccess, ModeDeclined:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrConfigInvalid, cfg.Mode)
	}
	return nil
}

// Client PayPal 模拟网关客户端。真实接入时替换 Attempt 内部实现即可，
// 调用方依赖的 payment.Gateway 契约保持不变。
type Client struct {
	cfg Config
}

// NewClient 创建模拟网关客户端。
func NewClient(cfg Config) (*Client, error) {
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &Client{cfg: cfg}, nil
}

// Name 网关标识。
func (c *Client) Name() string {
	return gatewayName
}

// Attempt 发起一次支付尝试。结果由配置的 mode 决定。
func (c *Client) Attempt(ctx context.Context, input payment.AttemptInput) (*payment.AttemptResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrAmountInvalid
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency != c.cfg.Currency {
		return nil, ErrCurrencyMismatch
	}

	if c.cfg.Mode == ModeDeclined {
		return &payment.AttemptResult{
			Status: constants.PaymentResultDeclined,
			Reason: declinedReason,
		}, nil
	}

	return &payment.AttemptResult{
		Status:        constants.PaymentResultSuccess,
		TransactionID: newTransactionID(),
	}, nil
}

func newTransactionID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "PAYPAL-FALLBACK"
	}
	return "PAYPAL-" + strings.ToUpper(hex.EncodeToString(buf))
}
