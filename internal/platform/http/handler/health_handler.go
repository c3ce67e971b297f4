// Package handler はプラットフォーム共通のHTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// serviceName はヘルスレスポンスで名乗るサービス識別子です。
const serviceName = "stock-insight"

// Health は /healthz エンドポイントを処理します。死活監視からの
// GET/HEAD/OPTIONSいずれにも応答し、結果がキャッシュされないようにします。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	}
}
