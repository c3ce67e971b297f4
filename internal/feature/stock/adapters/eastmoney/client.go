package eastmoney

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"stock_insight/internal/feature/stock/adapters/eastmoney/dto"
	"stock_insight/internal/feature/stock/domain"
	"stock_insight/internal/feature/stock/domain/entity"
	"stock_insight/internal/feature/stock/usecase"
)

// ClientがSourceAdapterを実装していることをコンパイル時に検証します。
var _ usecase.SourceAdapter = (*Client)(nil)

// Client fetches candles and fundamentals from Eastmoney.
type Client struct {
	cfg    Config
	client *http.Client

	// now is swappable for tests of the report-date cutoff.
	now func() time.Time
}

// NewClient creates a Client with the given configuration and HTTP client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client, now: time.Now}
}

// Name identifies the adapter in failover logs and records.
func (c *Client) Name() string { return "eastmoney" }

// secID renders the provider's market-qualified identifier: Shanghai listings
// take prefix 1, Shenzhen listings take prefix 0.
func secID(code string) (string, error) {
	market, num, err := domain.ParseCode(code)
	if err != nil {
		return "", err
	}
	if market == "sh" {
		return "1." + num, nil
	}
	return "0." + num, nil
}

// FetchCandles requests the forward-adjusted daily kline history for code.
func (c *Client) FetchCandles(ctx context.Context, code string) (entity.Series, error) {
	id, err := secID(code)
	if err != nil {
		return entity.Series{}, domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
	}

	q := url.Values{}
	q.Set("secid", id)
	q.Set("klt", "101") // daily bars
	q.Set("fqt", "1")   // forward adjusted
	q.Set("lmt", strconv.Itoa(c.cfg.Bars))
	q.Set("fields1", "f1,f2,f3")
	q.Set("fields2", "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61")
	u := fmt.Sprintf("%s/api/qt/stock/kline/get?%s", c.cfg.HistoryBaseURL, q.Encode())

	var resp dto.KlineResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return entity.Series{}, c.sourceErr(err)
	}
	if resp.Data == nil {
		return entity.Series{}, domain.NewSourceError(c.Name(), domain.ErrSourceEmpty)
	}

	candles := make([]entity.Candle, 0, len(resp.Data.Klines))
	for _, row := range resp.Data.Klines {
		cd, err := parseKline(row)
		if err != nil {
			return entity.Series{}, domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
		}
		candles = append(candles, cd)
	}
	if len(candles) == 0 {
		return entity.Series{}, domain.NewSourceError(c.Name(), domain.ErrSourceEmpty)
	}

	return entity.Series{Name: resp.Data.Name, Candles: candles}, nil
}

// FetchFinancials issues the realtime valuation snapshot and the
// deep-fundamentals report list concurrently and merges them. Each leg is
// best-effort on its own: one failing leg only costs its fields, and only
// both failing turns into an error for the caller to log and discard.
func (c *Client) FetchFinancials(ctx context.Context, code string) (entity.FinancialSnapshot, error) {
	var (
		wg       sync.WaitGroup
		quote    entity.FinancialSnapshot
		quoteErr error
		report   entity.FinancialSnapshot
		repErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		quote, quoteErr = c.fetchQuote(ctx, code)
	}()
	go func() {
		defer wg.Done()
		report, repErr = c.fetchReport(ctx, code)
	}()
	wg.Wait()

	if quoteErr != nil && repErr != nil {
		return entity.FinancialSnapshot{}, domain.NewSourceError(c.Name(), errors.Join(quoteErr, repErr))
	}
	if quoteErr != nil {
		slog.Warn("valuation snapshot unavailable", "source", c.Name(), "code", code, "error", quoteErr)
	}
	if repErr != nil {
		slog.Warn("periodic reports unavailable", "source", c.Name(), "code", code, "error", repErr)
	}

	return mergeSnapshots(quote, report), nil
}

// fetchQuote pulls the realtime valuation snapshot.
func (c *Client) fetchQuote(ctx context.Context, code string) (entity.FinancialSnapshot, error) {
	id, err := secID(code)
	if err != nil {
		return entity.FinancialSnapshot{}, err
	}

	q := url.Values{}
	q.Set("secid", id)
	q.Set("fields", "f58,f84,f116,f117,f162,f167,f168,f183")
	u := fmt.Sprintf("%s/api/qt/stock/get?%s", c.cfg.QuoteBaseURL, q.Encode())

	var resp dto.QuoteResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return entity.FinancialSnapshot{}, err
	}
	if resp.Data == nil {
		return entity.FinancialSnapshot{}, fmt.Errorf("quote payload has no data")
	}

	var snap entity.FinancialSnapshot
	snap.PETTM = scaled(resp.Data.PETTM, 100)
	snap.PB = scaled(resp.Data.PB, 100)
	snap.TurnoverRate = scaled(resp.Data.TurnoverRate, 100)
	snap.DividendYield = scaled(resp.Data.DividendYield, 100)
	snap.MarketCap = resp.Data.MarketCap.Ptr()
	snap.FloatCap = resp.Data.FloatCap.Ptr()
	snap.TotalShares = resp.Data.TotalShares.Ptr()
	return snap, nil
}

// fetchReport pulls the last several periodic reports and derives the
// fundamental ratios from the most recent usable one.
func (c *Client) fetchReport(ctx context.Context, code string) (entity.FinancialSnapshot, error) {
	market, num, err := domain.ParseCode(code)
	if err != nil {
		return entity.FinancialSnapshot{}, err
	}
	secCode := num + "." + strings.ToUpper(market)

	q := url.Values{}
	q.Set("reportName", "RPT_DMSK_FN_MAIN")
	q.Set("filter", fmt.Sprintf(`(SECUCODE="%s")`, secCode))
	q.Set("sortColumns", "REPORT_DATE")
	q.Set("sortTypes", "-1")
	q.Set("pageSize", strconv.Itoa(c.cfg.Reports))
	u := fmt.Sprintf("%s/securities/api/data/v1/get?%s", c.cfg.DataCenterBaseURL, q.Encode())

	var resp dto.ReportResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return entity.FinancialSnapshot{}, err
	}
	if resp.Result == nil || len(resp.Result.Data) == 0 {
		return entity.FinancialSnapshot{}, fmt.Errorf("no periodic reports")
	}

	row, reportDate, ok := selectReport(resp.Result.Data, c.now())
	if !ok {
		return entity.FinancialSnapshot{}, fmt.Errorf("no usable periodic report")
	}
	return deriveFundamentals(row, reportDate), nil
}

// getJSON performs a GET bounded by the configured timeout and decodes the
// JSON body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("eastmoney http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// sourceErr maps transport failures onto the domain taxonomy.
func (c *Client) sourceErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewSourceError(c.Name(), domain.ErrSourceTimeout)
	}
	return domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
}

// parseKline decodes one comma-separated kline row:
// date,open,close,high,low,volume,amount,amplitude,pctChg,change,turnover.
func parseKline(row string) (entity.Candle, error) {
	parts := strings.Split(row, ",")
	if len(parts) < 7 {
		return entity.Candle{}, fmt.Errorf("kline row has %d fields, want at least 7", len(parts))
	}

	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse date %q: %w", parts[0], err)
	}
	open, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse open %q: %w", parts[1], err)
	}
	cls, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse close %q: %w", parts[2], err)
	}
	high, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse high %q: %w", parts[3], err)
	}
	low, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse low %q: %w", parts[4], err)
	}
	vol, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse volume %q: %w", parts[5], err)
	}
	amount, err := strconv.ParseFloat(parts[6], 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse amount %q: %w", parts[6], err)
	}

	cd := entity.Candle{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cls,
		Volume: vol,
		Amount: amount,
	}
	// Optional trailing fields: tolerate their absence.
	if len(parts) > 8 {
		if pct, err := strconv.ParseFloat(parts[8], 64); err == nil {
			cd.PctChg = &pct
		}
	}
	if len(parts) > 10 {
		if to, err := strconv.ParseFloat(parts[10], 64); err == nil {
			cd.Turnover = &to
		}
	}
	return cd, nil
}

// scaled converts a provider field reported as value×factor, nil when absent.
func scaled(n dto.Nullable, factor float64) *float64 {
	if !n.Valid || n.Value == 0 {
		return nil
	}
	v := n.Value / factor
	return &v
}
