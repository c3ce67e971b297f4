// Package usecase は銘柄データ取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"stock_insight/internal/feature/stock/domain"
	"stock_insight/internal/feature/stock/domain/entity"
	"stock_insight/internal/feature/stock/indicator"
	"stock_insight/internal/platform/kv"
)

const (
	// CacheNamespace は完成レコードを保存するキャッシュの名前空間です。
	CacheNamespace = "stocks"
	// SchemaVersion はキャッシュキーに埋め込むレコード形式の世代番号です。
	// レコードの形が変わったらこの番号を上げることで旧エントリを無効化します。
	SchemaVersion = 1
	// DefaultCacheTTL はキャッシュ保持期間のデフォルト値です。
	DefaultCacheTTL = 10 * time.Minute
)

// Fetcher は優先順フェイルオーバー付きの取得層を抽象化します。
type Fetcher interface {
	Fetch(ctx context.Context, code string) (entity.StockRecord, error)
}

// stockUsecase は銘柄取得パイプライン全体を束ねるユースケースです。
// キャッシュ検索 → フェイルオーバー取得 → 指標付与 → 財務補完 →
// キャッシュ書き込み、の順に処理します。
type stockUsecase struct {
	fetcher Fetcher
	store   kv.Store
	ttl     time.Duration
}

// NewStockUsecase はstockUsecaseの新しいインスタンスを生成します。
// ttlが0以下の場合はDefaultCacheTTLを使用します。
func NewStockUsecase(fetcher Fetcher, store kv.Store, ttl time.Duration) *stockUsecase {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &stockUsecase{fetcher: fetcher, store: store, ttl: ttl}
}

// GetStock は指定された銘柄コードの指標付きレコードを返します。
// キャッシュにヒットすればそれを返し、ミスの場合のみ提供元へ取得に行きます。
// 全提供元が失敗した場合、不完全なレコードはキャッシュに書き込みません。
func (uc *stockUsecase) GetStock(ctx context.Context, code string) (entity.StockRecord, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return entity.StockRecord{}, err
	}

	key := kv.Key{Namespace: CacheNamespace, ID: code, Version: SchemaVersion}
	if raw, ok := uc.store.Get(ctx, key); ok {
		var rec entity.StockRecord
		if err := json.Unmarshal(raw, &rec); err == nil {
			return rec, nil
		}
		// 壊れたエントリは無視して取得し直す
		slog.Warn("discarding undecodable cache entry", "key", key.String())
	}

	rec, err := uc.fetcher.Fetch(ctx, code)
	if err != nil {
		return entity.StockRecord{}, err
	}

	rec.Candles = indicator.EnrichAll(rec.Candles)
	Reconcile(rec.Financials)

	if raw, err := json.Marshal(rec); err == nil {
		uc.store.Set(ctx, key, raw, uc.ttl)
	} else {
		slog.Warn("failed to encode record for cache", "code", code, "error", err)
	}

	return rec, nil
}

// Refresh はキャッシュを無視して取得し直し、結果でキャッシュを上書きします。
func (uc *stockUsecase) Refresh(ctx context.Context, code string) (entity.StockRecord, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return entity.StockRecord{}, err
	}

	rec, err := uc.fetcher.Fetch(ctx, code)
	if err != nil {
		return entity.StockRecord{}, err
	}

	rec.Candles = indicator.EnrichAll(rec.Candles)
	Reconcile(rec.Financials)

	key := kv.Key{Namespace: CacheNamespace, ID: code, Version: SchemaVersion}
	if raw, err := json.Marshal(rec); err == nil {
		uc.store.Set(ctx, key, raw, uc.ttl)
	}
	return rec, nil
}

// normalizeCode は入力コードを検証し、市場接頭辞付きの正規形に揃えます。
func normalizeCode(code string) (string, error) {
	market, num, err := domain.ParseCode(code)
	if err != nil {
		return "", fmt.Errorf("invalid stock code %q: %w", code, err)
	}
	return market + num, nil
}
