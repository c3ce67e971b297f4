package router

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "stock_insight/internal/feature/auth/transport/handler"
	reporthandler "stock_insight/internal/feature/report/transport/handler"
	stockhandler "stock_insight/internal/feature/stock/transport/handler"
	"stock_insight/internal/platform/http/handler"
	jwtmw "stock_insight/internal/platform/jwt"
)

func NewRouter(authHandler *authhandler.AuthHandler, stock *stockhandler.StockHandler,
	report *reporthandler.ReportHandler) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/stocks/:code", stock.GetStock)
		auth.GET("/stocks/:code/report", report.GetReport)
	}

	return r
}

// corsMiddleware はALLOWED_ORIGINS（カンマ区切り）で許可オリジンを設定します。
// 未設定の場合はブラウザ外クライアント向けにすべて許可します。
func corsMiddleware() gin.HandlerFunc {
	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = strings.Split(origins, ",")
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}
