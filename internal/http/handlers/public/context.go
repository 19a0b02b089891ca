package public

import (
	"strings"

	"github.com/craftmart-shop/internal/constants"
	handlershared "github.com/craftmart-shop/internal/http/handlers/shared"
	"github.com/craftmart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// optionalUserID 读取可选的登录用户 ID（游客为 0）。
func optionalUserID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

func guestSessionID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(constants.GuestSessionHeader))
}

// cartIdentity 解析购物车归属：已登录用 user_id，否则用游客会话头。
func cartIdentity(c *gin.Context) service.CartIdentity {
	if userID := optionalUserID(c); userID != 0 {
		return service.CartIdentity{UserID: userID}
	}
	return service.CartIdentity{SessionID: guestSessionID(c)}
}
