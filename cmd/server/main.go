package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_insight/internal/app/di"
	"stock_insight/internal/app/router"
	authadapters "stock_insight/internal/feature/auth/adapters"
	authhandler "stock_insight/internal/feature/auth/transport/handler"
	authusecase "stock_insight/internal/feature/auth/usecase"
	"stock_insight/internal/feature/report/adapters/gemini"
	reporthandler "stock_insight/internal/feature/report/transport/handler"
	reportusecase "stock_insight/internal/feature/report/usecase"
	stockhandler "stock_insight/internal/feature/stock/transport/handler"
	stockusecase "stock_insight/internal/feature/stock/usecase"
	"stock_insight/internal/platform/db"
	jwtmw "stock_insight/internal/platform/jwt"
	"stock_insight/internal/platform/kv"
	infraredis "stock_insight/internal/platform/redis"
)

func main() {
	// .env（無ければ環境変数のみ）
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file, using environment variables")
	}

	// db
	gormDB := db.OpenDB()

	// Redis（接続できなければDB永続キャッシュにフォールバック）
	var (
		rdb   *redisv9.Client
		store kv.Store
	)
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to the database cache.")
		store = kv.NewGormStore(gormDB)
	} else {
		rdb = tmp
		store = kv.NewRedisStore(rdb)
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 取得層: 優先順フェイルオーバー
	failover := di.NewFailover()
	stockUC := stockusecase.NewStockUsecase(failover, store, envDuration("STOCK_CACHE_TTL", stockusecase.DefaultCacheTTL))

	// レポート生成（Gemini未設定時はルートだけ残しエラー応答にする）
	var analyzer reportusecase.Analyzer
	if a, err := gemini.NewGeminiAnalyzer(context.Background()); err != nil {
		log.Println("[WARN] Gemini unavailable. Report generation disabled:", err)
		analyzer = unavailableAnalyzer{}
	} else {
		analyzer = a
	}
	reportUC := reportusecase.NewReportUsecase(stockUC, analyzer, store, envDuration("REPORT_CACHE_TTL", reportusecase.DefaultCacheTTL))

	// 認証
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	userRepo := authadapters.NewUserGorm(gormDB)
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(secret, 24*time.Hour))

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	stockH := stockhandler.NewStockHandler(stockUC)
	reportH := reporthandler.NewReportHandler(reportUC)

	// ルータ生成
	r := router.NewRouter(authH, stockH, reportH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

// envDuration は環境変数をtime.Durationとして読み、未設定・不正値なら
// フォールバックを返します。
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

// unavailableAnalyzer はGemini未設定時のプレースホルダです。
type unavailableAnalyzer struct{}

func (unavailableAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("analyzer not configured")
}
