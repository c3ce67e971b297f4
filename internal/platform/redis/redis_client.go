// Package redis はキャッシュ層で使うRedis接続を構築します。
package redis

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout は起動時の疎通確認に許す最大時間です。Redisが落ちていても
// 呼び出し元はDBキャッシュへ即座に切り替えられます。
const pingTimeout = 3 * time.Second

// NewRedisClient は環境変数から接続先を組み立て、疎通確認済みの
// クライアントを返します。REDIS_ADDR（host:port）を優先し、無ければ
// REDIS_HOSTとREDIS_PORTから組み立てます。
func NewRedisClient() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("redis connected", "address", addr)
	return rdb, nil
}
