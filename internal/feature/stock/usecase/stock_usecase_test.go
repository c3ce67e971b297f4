package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stock_insight/internal/feature/stock/domain"
	"stock_insight/internal/feature/stock/domain/entity"
	"stock_insight/internal/feature/stock/usecase"
	"stock_insight/internal/platform/kv"
)

// mockFetcher はFetcherインターフェースのモック実装です。
type mockFetcher struct {
	FetchFn    func(ctx context.Context, code string) (entity.StockRecord, error)
	FetchCalls int
}

func (m *mockFetcher) Fetch(ctx context.Context, code string) (entity.StockRecord, error) {
	m.FetchCalls++
	if m.FetchFn != nil {
		return m.FetchFn(ctx, code)
	}
	return entity.StockRecord{}, errors.New("FetchFn is not implemented")
}

// mapStore はkv.Storeインターフェースのインメモリ実装です。
type mapStore struct {
	data     map[string][]byte
	SetCalls int
}

func newMapStore() *mapStore { return &mapStore{data: map[string][]byte{}} }

func (s *mapStore) Get(ctx context.Context, key kv.Key) ([]byte, bool) {
	v, ok := s.data[key.String()]
	return v, ok
}

func (s *mapStore) Set(ctx context.Context, key kv.Key, value []byte, ttl time.Duration) {
	s.SetCalls++
	s.data[key.String()] = value
}

func (s *mapStore) Clear(ctx context.Context, namespace string) {
	for k := range s.data {
		delete(s.data, k)
	}
}

func fetchedRecord(code string) entity.StockRecord {
	cs := make([]entity.Candle, 70)
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := range cs {
		cs[i] = entity.Candle{Date: day.AddDate(0, 0, i), Open: 10, High: 11, Low: 9, Close: 10 + float64(i)*0.05, Volume: 1000}
	}
	pe, pb := 6.5, 0.6
	return entity.StockRecord{
		Code:    code,
		Name:    "浦発銀行",
		Source:  "eastmoney",
		Candles: cs,
		Financials: &entity.FinancialSnapshot{
			PETTM: &pe,
			PB:    &pb,
		},
	}
}

// TestStockUsecase_MissFetchesEnrichesAndCaches はキャッシュミス時の
// 取得・指標付与・補完・保存の一連の流れをテストします。
func TestStockUsecase_MissFetchesEnrichesAndCaches(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	fetcher := &mockFetcher{
		FetchFn: func(ctx context.Context, code string) (entity.StockRecord, error) {
			return fetchedRecord(code), nil
		},
	}

	uc := usecase.NewStockUsecase(fetcher, store, time.Minute)
	rec, err := uc.GetStock(ctx, "sh600000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.FetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.FetchCalls)
	}
	last := rec.Candles[len(rec.Candles)-1]
	if last.MA60 == nil || last.RSI == nil || last.BollMid == nil {
		t.Error("indicators must be attached before the record is returned")
	}
	if rec.Financials.ROE == nil || !rec.Financials.DerivedROE {
		t.Error("missing ROE must be derived from P/B and P/E")
	}
	if store.SetCalls != 1 {
		t.Errorf("cache writes = %d, want 1", store.SetCalls)
	}

	// 保存された形もそのまま復元できること
	key := kv.Key{Namespace: usecase.CacheNamespace, ID: "sh600000", Version: usecase.SchemaVersion}
	raw, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("record must be cached under the schema-versioned key")
	}
	var cached entity.StockRecord
	if err := json.Unmarshal(raw, &cached); err != nil {
		t.Fatalf("cached payload must decode: %v", err)
	}
	if cached.Code != "sh600000" {
		t.Errorf("cached code = %q", cached.Code)
	}
}

// TestStockUsecase_HitSkipsFetch はキャッシュヒット時に提供元へ行かない
// ことをテストします。
func TestStockUsecase_HitSkipsFetch(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	fetcher := &mockFetcher{
		FetchFn: func(ctx context.Context, code string) (entity.StockRecord, error) {
			return fetchedRecord(code), nil
		},
	}

	uc := usecase.NewStockUsecase(fetcher, store, time.Minute)
	if _, err := uc.GetStock(ctx, "sh600000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.GetStock(ctx, "sh600000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.FetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1 (second call must be served from cache)", fetcher.FetchCalls)
	}
}

// TestStockUsecase_BareCodeNormalized は接頭辞なしコードが市場推定付きで
// 正規化され、同一キャッシュエントリを共有することをテストします。
func TestStockUsecase_BareCodeNormalized(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	fetcher := &mockFetcher{
		FetchFn: func(ctx context.Context, code string) (entity.StockRecord, error) {
			if code != "sh600000" {
				t.Errorf("fetcher received %q, want normalized sh600000", code)
			}
			return fetchedRecord(code), nil
		},
	}

	uc := usecase.NewStockUsecase(fetcher, store, time.Minute)
	if _, err := uc.GetStock(ctx, "600000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.GetStock(ctx, "sh600000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.FetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.FetchCalls)
	}
}

// TestStockUsecase_NoCacheWriteOnFailure は全提供元失敗時にキャッシュへ
// 何も書かないことをテストします。
func TestStockUsecase_NoCacheWriteOnFailure(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	fetcher := &mockFetcher{
		FetchFn: func(ctx context.Context, code string) (entity.StockRecord, error) {
			return entity.StockRecord{}, domain.NewSourceError("failover", domain.ErrAllSourcesExhausted)
		},
	}

	uc := usecase.NewStockUsecase(fetcher, store, time.Minute)
	_, err := uc.GetStock(ctx, "sh600000")
	if !errors.Is(err, domain.ErrAllSourcesExhausted) {
		t.Fatalf("err = %v, want ErrAllSourcesExhausted", err)
	}
	if store.SetCalls != 0 {
		t.Errorf("cache writes = %d, want 0", store.SetCalls)
	}
}

// TestStockUsecase_InvalidCodeRejectedEarly は不正コードが提供元到達前に
// 拒否されることをテストします。
func TestStockUsecase_InvalidCodeRejectedEarly(t *testing.T) {
	store := newMapStore()
	fetcher := &mockFetcher{}

	uc := usecase.NewStockUsecase(fetcher, store, time.Minute)
	if _, err := uc.GetStock(context.Background(), "not-a-code"); err == nil {
		t.Fatal("expected an error")
	}
	if fetcher.FetchCalls != 0 {
		t.Errorf("fetch calls = %d, want 0", fetcher.FetchCalls)
	}
}

// TestStockUsecase_CorruptCacheEntryRefetched は復元不能なキャッシュ
// エントリを無視して取得し直すことをテストします。
func TestStockUsecase_CorruptCacheEntryRefetched(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	key := kv.Key{Namespace: usecase.CacheNamespace, ID: "sh600000", Version: usecase.SchemaVersion}
	store.Set(ctx, key, []byte("{broken"), time.Minute)
	store.SetCalls = 0

	fetcher := &mockFetcher{
		FetchFn: func(ctx context.Context, code string) (entity.StockRecord, error) {
			return fetchedRecord(code), nil
		},
	}

	uc := usecase.NewStockUsecase(fetcher, store, time.Minute)
	rec, err := uc.GetStock(ctx, "sh600000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.FetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.FetchCalls)
	}
	if rec.Name != "浦発銀行" {
		t.Errorf("name = %q", rec.Name)
	}
	if store.SetCalls != 1 {
		t.Error("fresh record must replace the corrupt entry")
	}
}

// TestStockUsecase_RefreshBypassesCache はRefreshがキャッシュを無視して
// 取得し直すことをテストします。
func TestStockUsecase_RefreshBypassesCache(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	fetcher := &mockFetcher{
		FetchFn: func(ctx context.Context, code string) (entity.StockRecord, error) {
			return fetchedRecord(code), nil
		},
	}

	uc := usecase.NewStockUsecase(fetcher, store, time.Minute)
	if _, err := uc.GetStock(ctx, "sh600000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Refresh(ctx, "sh600000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.FetchCalls != 2 {
		t.Errorf("fetch calls = %d, want 2", fetcher.FetchCalls)
	}
	if store.SetCalls != 2 {
		t.Errorf("cache writes = %d, want 2", store.SetCalls)
	}
}
