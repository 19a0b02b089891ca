package service

import (
	"strings"

	"github.com/craftmart-shop/internal/constants"
)

// allowedTransitions 订单状态机。
// pending_payment → processing → shipped → delivered，
// 取消只能发生在 pending_payment / processing。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPendingPayment: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

// canTransition 判断订单状态迁移是否合法
func canTransition(from, to string) bool {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == "" || to == "" {
		return false
	}
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// isTerminalStatus 是否终态
func isTerminalStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.OrderStatusDelivered, constants.OrderStatusCancelled:
		return true
	default:
		return false
	}
}
