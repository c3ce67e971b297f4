// Package usecase は銘柄分析レポート生成のビジネスロジックを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	reportentity "stock_insight/internal/feature/report/domain/entity"
	"stock_insight/internal/feature/stock/domain/entity"
	"stock_insight/internal/platform/kv"
)

const (
	// CacheNamespace は生成済みナラティブを保存するキャッシュの名前空間です。
	CacheNamespace = "reports"
	// SchemaVersion はキャッシュキーに埋め込むレポート形式の世代番号です。
	SchemaVersion = 1
	// DefaultCacheTTL はナラティブのキャッシュ保持期間のデフォルト値です。
	// 生成コストが高いため、取得データより長く保持します。
	DefaultCacheTTL = 24 * time.Hour
)

// RecordProvider は指標付き銘柄レコードの取得層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type RecordProvider interface {
	GetStock(ctx context.Context, code string) (entity.StockRecord, error)
}

// Analyzer はプロンプトから分析サマリーを生成するインターフェースです。
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// reportUsecase は銘柄レポート生成のユースケースです。
type reportUsecase struct {
	records  RecordProvider
	analyzer Analyzer
	store    kv.Store
	ttl      time.Duration
	now      func() time.Time
}

// NewReportUsecase はreportUsecaseの新しいインスタンスを生成します。
// ttlが0以下の場合はDefaultCacheTTLを使用します。
func NewReportUsecase(records RecordProvider, analyzer Analyzer, store kv.Store, ttl time.Duration) *reportUsecase {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &reportUsecase{records: records, analyzer: analyzer, store: store, ttl: ttl, now: time.Now}
}

// GetReport は指定された銘柄の分析レポートを返します。
// キャッシュにヒットすればそれを返し、ミスの場合のみレコードを取得して
// ナラティブを生成します。生成失敗はエラーとして返し、取得側には影響しません。
func (uc *reportUsecase) GetReport(ctx context.Context, code string) (reportentity.Report, error) {
	rec, err := uc.records.GetStock(ctx, code)
	if err != nil {
		return reportentity.Report{}, err
	}

	key := kv.Key{Namespace: CacheNamespace, ID: rec.Code, Version: SchemaVersion}
	if raw, ok := uc.store.Get(ctx, key); ok {
		var rep reportentity.Report
		if err := json.Unmarshal(raw, &rep); err == nil {
			return rep, nil
		}
		slog.Warn("discarding undecodable report cache entry", "key", key.String())
	}

	prompt := BuildPrompt(rec)
	summary, err := uc.analyzer.Analyze(ctx, prompt)
	if err != nil {
		return reportentity.Report{}, fmt.Errorf("analyzer failed for %q: %w", rec.Code, err)
	}

	rep := reportentity.Report{
		Code:        rec.Code,
		Name:        rec.Name,
		Summary:     summary,
		Source:      rec.Source,
		GeneratedAt: uc.now(),
	}
	if raw, err := json.Marshal(rep); err == nil {
		uc.store.Set(ctx, key, raw, uc.ttl)
	}
	return rep, nil
}

// BuildPrompt は指標付きレコードからアナリスト向けプロンプトを組み立てます。
// 数値はモデルに再計算させず、観測済みの値をそのまま提示します。
func BuildPrompt(rec entity.StockRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "あなたは中国A株のアナリストです。以下のデータに基づいて、%s（%s）の短い分析レポートを日本語で書いてください。\n", rec.Name, rec.Code)

	if last := rec.Latest(); last != nil {
		fmt.Fprintf(&b, "直近終値: %.2f（%s）\n", last.Close, last.Date.Format("2006-01-02"))
		if last.PctChg != nil {
			fmt.Fprintf(&b, "前日比: %.2f%%\n", *last.PctChg)
		}
		writeMA(&b, "MA5", last.MA5, last.Close)
		writeMA(&b, "MA20", last.MA20, last.Close)
		writeMA(&b, "MA60", last.MA60, last.Close)
		if last.RSI != nil {
			fmt.Fprintf(&b, "RSI(14): %.1f%s\n", *last.RSI, rsiPosture(*last.RSI))
		}
		if last.K != nil && last.D != nil && last.J != nil {
			fmt.Fprintf(&b, "KDJ: K=%.1f D=%.1f J=%.1f\n", *last.K, *last.D, *last.J)
		}
		if last.BollUpper != nil && last.BollLower != nil {
			fmt.Fprintf(&b, "ボリンジャーバンド: 上限%.2f 下限%.2f\n", *last.BollUpper, *last.BollLower)
		}
		if last.DIF != nil && last.DEA != nil {
			fmt.Fprintf(&b, "MACD: DIF=%.3f DEA=%.3f\n", *last.DIF, *last.DEA)
		}
	}

	if f := rec.Financials; f != nil {
		if f.PETTM != nil {
			fmt.Fprintf(&b, "PER(TTM): %.2f\n", *f.PETTM)
		}
		if f.PB != nil {
			fmt.Fprintf(&b, "PBR: %.2f\n", *f.PB)
		}
		if f.ROE != nil {
			note := ""
			if f.DerivedROE {
				note = "（PBR÷PERからの推定値）"
			}
			fmt.Fprintf(&b, "ROE: %.1f%%%s\n", *f.ROE, note)
		}
		if f.DividendYield != nil {
			fmt.Fprintf(&b, "配当利回り: %.2f%%\n", *f.DividendYield)
		}
		if f.DebtRatio != nil && !f.AssumedDebtRatio {
			fmt.Fprintf(&b, "負債比率: %.1f%%\n", *f.DebtRatio)
		}
	}

	b.WriteString("テクニカルとファンダメンタルズの両面に触れ、300字以内でまとめてください。投資助言ではない旨を一文添えてください。")
	return b.String()
}

func writeMA(b *strings.Builder, label string, ma *float64, close float64) {
	if ma == nil {
		return
	}
	rel := "上"
	if close < *ma {
		rel = "下"
	}
	fmt.Fprintf(b, "%s: %.2f（終値は%s）\n", label, *ma, rel)
}

func rsiPosture(v float64) string {
	switch {
	case v >= 70:
		return "（買われ過ぎ圏）"
	case v <= 30:
		return "（売られ過ぎ圏）"
	default:
		return ""
	}
}
