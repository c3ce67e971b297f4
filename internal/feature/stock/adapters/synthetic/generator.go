// Package synthetic provides the last-resort data source: a deterministic
// generator that fabricates a plausible OHLCV history and placeholder
// fundamentals from a hash of the security code. It never touches the
// network and never fails, so downstream consumers always have something
// to work with.
package synthetic

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"stock_insight/internal/feature/stock/domain/entity"
	"stock_insight/internal/feature/stock/usecase"
)

// Compile-time check that Generator satisfies the failover adapter contract.
var _ usecase.SourceAdapter = (*Generator)(nil)

// DefaultWindowDays is the calendar span of the generated history. Weekends
// are skipped, so 120 calendar days yield roughly 85 bars.
const DefaultWindowDays = 120

// Generator fabricates stock data deterministically per code.
type Generator struct {
	windowDays int

	// now is swappable for tests.
	now func() time.Time
}

// NewGenerator creates a Generator spanning windowDays calendar days.
// A non-positive windowDays falls back to DefaultWindowDays.
func NewGenerator(windowDays int) *Generator {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Generator{windowDays: windowDays, now: time.Now}
}

// Name identifies the adapter in failover logs and records.
func (g *Generator) Name() string { return "synthetic" }

// FetchCandles generates the placeholder bar series for code. The same code
// and reference day always produce the same series.
func (g *Generator) FetchCandles(_ context.Context, code string) (entity.Series, error) {
	rng := rand.New(rand.NewSource(seed(code)))

	price := 8 + rng.Float64()*142 // base price in [8,150)
	end := g.now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -g.windowDays)

	var candles []entity.Candle
	prevClose := price
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		// Bounded random walk around the previous close.
		change := (rng.Float64() - 0.5) * 0.06
		open := prevClose * (1 + (rng.Float64()-0.5)*0.01)
		close := prevClose * (1 + change)
		high := max(open, close) * (1 + rng.Float64()*0.02)
		low := min(open, close) * (1 - rng.Float64()*0.02)
		volume := int64(1_000_000 + rng.Intn(9_000_000))

		pct := (close - prevClose) / prevClose * 100
		turnover := 0.5 + rng.Float64()*4

		candles = append(candles, entity.Candle{
			Date:     day,
			Open:     round2(open),
			High:     round2(high),
			Low:      round2(low),
			Close:    round2(close),
			Volume:   volume,
			Amount:   round2(close * float64(volume)),
			Turnover: &turnover,
			PctChg:   &pct,
		})
		prevClose = close
	}

	return entity.Series{Name: "DEMO " + code, Candles: candles}, nil
}

// FetchFinancials generates placeholder fundamentals for code.
func (g *Generator) FetchFinancials(_ context.Context, code string) (entity.FinancialSnapshot, error) {
	rng := rand.New(rand.NewSource(seed(code) ^ 0x5eed))

	pe := 8 + rng.Float64()*32
	pb := 0.8 + rng.Float64()*5
	yield := rng.Float64() * 4
	mcap := (5 + rng.Float64()*495) * 1e9
	floatCap := mcap * (0.4 + rng.Float64()*0.5)
	turnover := 0.5 + rng.Float64()*4
	shares := mcap / (8 + rng.Float64()*142)
	reportDate := g.now().UTC().AddDate(0, -3, 0)

	return entity.FinancialSnapshot{
		PETTM:         &pe,
		PB:            &pb,
		DividendYield: &yield,
		MarketCap:     &mcap,
		FloatCap:      &floatCap,
		TurnoverRate:  &turnover,
		TotalShares:   &shares,
		ReportDate:    &reportDate,
	}, nil
}

// seed derives a stable 64-bit seed from the security code.
func seed(code string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(code))
	return int64(h.Sum64())
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
