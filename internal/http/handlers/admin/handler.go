package admin

import "github.com/craftmart-shop/internal/provider"

// Handler 商城后台接口处理器入口，挂在 Casbin 鉴权之后。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
