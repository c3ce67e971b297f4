// warm はキャッシュを事前に温めるバッチコマンドです。
// 指定された銘柄コードを順に取得してキャッシュに書き込みます。
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stock_insight/internal/app/di"
	reportusecase "stock_insight/internal/feature/report/usecase"
	stockusecase "stock_insight/internal/feature/stock/usecase"
	"stock_insight/internal/platform/db"
	"stock_insight/internal/platform/kv"
	infraredis "stock_insight/internal/platform/redis"
	"stock_insight/internal/shared/ratelimiter"
)

func main() {
	codesFlag := flag.String("codes", "", "comma-separated stock codes to warm (e.g. sh600000,sz000001)")
	flush := flag.Bool("flush", false, "clear the stocks and reports cache namespaces before warming")
	perMinute := flag.Int("rate", 30, "maximum source fetches per minute")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file, using environment variables")
	}

	gormDB := db.OpenDB()

	var store kv.Store
	if rdb, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to the database cache.")
		store = kv.NewGormStore(gormDB)
	} else {
		store = kv.NewRedisStore(rdb)
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *flush {
		store.Clear(ctx, stockusecase.CacheNamespace)
		store.Clear(ctx, reportusecase.CacheNamespace)
		log.Println("cache namespaces cleared")
	}

	codes := splitCodes(*codesFlag)
	if len(codes) == 0 {
		if *flush {
			return
		}
		log.Fatal("no codes given: use -codes sh600000,sz000001")
	}

	uc := stockusecase.NewStockUsecase(di.NewFailover(), store, 0)
	rl := ratelimiter.NewRateLimiter(*perMinute, time.Minute)

	var failed int
	for _, code := range codes {
		if err := rl.Wait(ctx); err != nil {
			log.Printf("[WARN] aborted while waiting for the rate window: %v", err)
			break
		}
		rec, err := uc.Refresh(ctx, code)
		if err != nil {
			failed++
			log.Printf("[WARN] warm %s failed: %v", code, err)
			continue
		}
		log.Printf("warmed %s (%s, %d bars, source=%s)", rec.Code, rec.Name, len(rec.Candles), rec.Source)
	}
	if failed > 0 {
		log.Printf("done with %d/%d failures", failed, len(codes))
		return
	}
	log.Println("warm ok")
}

func splitCodes(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
