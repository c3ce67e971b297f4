package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"stock_insight/internal/feature/stock/domain"
	"stock_insight/internal/feature/stock/domain/entity"
)

// SourceAdapter は単一のデータ提供元を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SourceAdapter interface {
	// Name はフェイルオーバーログや取得結果に記録される提供元名を返します。
	Name() string
	// FetchCandles は日足ローソクの履歴を取得します。
	FetchCandles(ctx context.Context, code string) (entity.Series, error)
	// FetchFinancials は財務スナップショットを取得します。
	FetchFinancials(ctx context.Context, code string) (entity.FinancialSnapshot, error)
}

// Failover は複数の提供元を優先順に試行するオーケストレーターです。
// ローソク足が取得できた最初の提供元で打ち切り、財務データの失敗は
// 致命的とは扱いません。
type Failover struct {
	adapters []SourceAdapter
	now      func() time.Time
}

// NewFailover は与えられた優先順のアダプタ群からFailoverを生成します。
func NewFailover(adapters ...SourceAdapter) *Failover {
	return &Failover{adapters: adapters, now: time.Now}
}

// Fetch は各提供元を順に試し、最初に非空のローソク足を返した提供元の
// レコードを返します。提供元ごとにローソク足と財務データを並行取得し、
// 全提供元が失敗した場合は各失敗を連結したエラーを返します。
func (f *Failover) Fetch(ctx context.Context, code string) (entity.StockRecord, error) {
	var attempts []error

	for _, a := range f.adapters {
		series, snap, err := f.tryOne(ctx, a, code)
		if err != nil {
			slog.Warn("source failed, falling through", "source", a.Name(), "code", code, "error", err)
			attempts = append(attempts, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		rec := entity.StockRecord{
			Code:      code,
			Name:      series.Name,
			Source:    a.Name(),
			Candles:   series.Candles,
			UpdatedAt: f.now(),
		}
		if !snap.IsZero() {
			rec.Financials = &snap
		}
		return rec, nil
	}

	joined := errors.Join(attempts...)
	return entity.StockRecord{}, domain.NewSourceError("failover", errors.Join(domain.ErrAllSourcesExhausted, joined))
}

// tryOne は一つの提供元に対してローソク足と財務データを並行に要求します。
// ローソク足の失敗のみが提供元の失敗であり、財務データの失敗は空の
// スナップショットに落とします。
func (f *Failover) tryOne(ctx context.Context, a SourceAdapter, code string) (entity.Series, entity.FinancialSnapshot, error) {
	var (
		wg      sync.WaitGroup
		series  entity.Series
		serErr  error
		snap    entity.FinancialSnapshot
		snapErr error
	)

	// ローソク足が失敗する提供元でも財務データの要求を1回無駄にするが、
	// 成功時のレイテンシ短縮を優先して常に並行で投げる。
	wg.Add(2)
	go func() {
		defer wg.Done()
		series, serErr = a.FetchCandles(ctx, code)
	}()
	go func() {
		defer wg.Done()
		snap, snapErr = a.FetchFinancials(ctx, code)
	}()
	wg.Wait()

	if serErr != nil {
		return entity.Series{}, entity.FinancialSnapshot{}, serErr
	}
	if len(series.Candles) == 0 {
		return entity.Series{}, entity.FinancialSnapshot{}, domain.NewSourceError(a.Name(), domain.ErrSourceEmpty)
	}
	if snapErr != nil {
		slog.Warn("financials unavailable, continuing with candles only", "source", a.Name(), "code", code, "error", snapErr)
		snap = entity.FinancialSnapshot{}
	}
	return series, snap, nil
}
