// Package tencent implements the secondary data source on the Tencent
// finance quote endpoints. One call returns the daily bar history together
// with a coarse valuation tuple; the payload is a JS variable assignment
// that requires the per-call callback transport in jsonp.go.
package tencent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"stock_insight/internal/feature/stock/domain"
	"stock_insight/internal/feature/stock/domain/entity"
	"stock_insight/internal/feature/stock/usecase"
)

// Compile-time check that Client satisfies the failover adapter contract.
var _ usecase.SourceAdapter = (*Client)(nil)

// Quote-string field positions within the "~"-separated valuation tuple.
const (
	quoteFieldName         = 1
	quoteFieldTurnoverRate = 38
	quoteFieldPETTM        = 39
	quoteFieldFloatCap     = 44
	quoteFieldMarketCap    = 45
	quoteFieldPB           = 46
)

// Config holds configuration for the Tencent quote client.
type Config struct {
	KlineBaseURL string        // Bar-history endpoint base (e.g. "https://web.ifzq.gtimg.cn")
	QuoteBaseURL string        // Realtime quote endpoint base (e.g. "https://qt.gtimg.cn")
	Timeout      time.Duration // Per-call timeout
	Bars         int           // Number of daily bars to request
}

// LoadConfig loads the Tencent client configuration from environment
// variables, falling back to the public endpoints.
func LoadConfig() Config {
	cfg := Config{
		KlineBaseURL: os.Getenv("TENCENT_KLINE_BASE_URL"),
		QuoteBaseURL: os.Getenv("TENCENT_QUOTE_BASE_URL"),
		Timeout:      10 * time.Second,
		Bars:         320,
	}
	if cfg.KlineBaseURL == "" {
		cfg.KlineBaseURL = "https://web.ifzq.gtimg.cn"
	}
	if cfg.QuoteBaseURL == "" {
		cfg.QuoteBaseURL = "https://qt.gtimg.cn"
	}
	return cfg
}

// Client fetches candles and a coarse valuation tuple from Tencent.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a Client with the given configuration and HTTP client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// Name identifies the adapter in failover logs and records.
func (c *Client) Name() string { return "tencent" }

// klineResponse mirrors the fqkline payload: per-code day arrays of
// [date, open, close, high, low, volume] strings.
type klineResponse struct {
	Code int                        `json:"code"`
	Msg  string                     `json:"msg"`
	Data map[string]json.RawMessage `json:"data"`
}

// FetchCandles requests the forward-adjusted daily history for code.
func (c *Client) FetchCandles(ctx context.Context, code string) (entity.Series, error) {
	market, num, err := domain.ParseCode(code)
	if err != nil {
		return entity.Series{}, domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
	}
	secID := market + num

	call := newJSONPCall()
	q := url.Values{}
	q.Set("_var", call.name)
	q.Set("param", fmt.Sprintf("%s,day,,,%d,qfq", secID, c.cfg.Bars))
	u := fmt.Sprintf("%s/appstock/app/fqkline/get?%s", c.cfg.KlineBaseURL, q.Encode())

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := call.Do(ctx, c.client, u)
	if err != nil {
		return entity.Series{}, c.sourceErr(err)
	}

	var resp klineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return entity.Series{}, domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
	}
	if resp.Code != 0 {
		return entity.Series{}, domain.NewSourceError(c.Name(), fmt.Errorf("%w: provider code %d %s", domain.ErrSourceMalformed, resp.Code, resp.Msg))
	}

	raw, ok := resp.Data[secID]
	if !ok {
		return entity.Series{}, domain.NewSourceError(c.Name(), domain.ErrSourceEmpty)
	}
	var data struct {
		Day    [][]any             `json:"day"`
		QfqDay [][]any             `json:"qfqday"`
		Qt     map[string][]string `json:"qt"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return entity.Series{}, domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
	}

	rows := data.QfqDay
	if len(rows) == 0 {
		rows = data.Day
	}
	candles, err := parseDayRows(rows)
	if err != nil {
		return entity.Series{}, domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
	}
	if len(candles) == 0 {
		return entity.Series{}, domain.NewSourceError(c.Name(), domain.ErrSourceEmpty)
	}

	name := ""
	if fields, ok := data.Qt[secID]; ok && len(fields) > quoteFieldName {
		name = fields[quoteFieldName]
	}
	return entity.Series{Name: name, Candles: candles}, nil
}

// FetchFinancials requests the realtime quote string and extracts the coarse
// valuation tuple (P/E TTM, P/B, caps, turnover rate) it carries.
func (c *Client) FetchFinancials(ctx context.Context, code string) (entity.FinancialSnapshot, error) {
	market, num, err := domain.ParseCode(code)
	if err != nil {
		return entity.FinancialSnapshot{}, domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
	}
	secID := market + num

	call := newJSONPCall()
	u := fmt.Sprintf("%s/q=%s?_var=%s", c.cfg.QuoteBaseURL, secID, call.name)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := call.Do(ctx, c.client, u)
	if err != nil {
		return entity.FinancialSnapshot{}, c.sourceErr(err)
	}

	return parseQuoteTuple(string(body))
}

// parseQuoteTuple extracts the valuation fields from the quoted
// "~"-separated tuple. Zero-valued provider fields read as absent.
func parseQuoteTuple(s string) (entity.FinancialSnapshot, error) {
	s = trimQuotes(s)
	fields := strings.Split(s, "~")
	if len(fields) <= quoteFieldPB {
		return entity.FinancialSnapshot{}, domain.NewSourceError("tencent", domain.ErrSourceMalformed)
	}

	var snap entity.FinancialSnapshot
	snap.PETTM = tupleFloat(fields, quoteFieldPETTM)
	snap.PB = tupleFloat(fields, quoteFieldPB)
	snap.TurnoverRate = tupleFloat(fields, quoteFieldTurnoverRate)
	// Tencent reports capitalizations in 1e8 CNY.
	if v := tupleFloat(fields, quoteFieldFloatCap); v != nil {
		f := *v * 1e8
		snap.FloatCap = &f
	}
	if v := tupleFloat(fields, quoteFieldMarketCap); v != nil {
		m := *v * 1e8
		snap.MarketCap = &m
	}
	return snap, nil
}

func parseDayRows(rows [][]any) ([]entity.Candle, error) {
	candles := make([]entity.Candle, 0, len(rows))
	for _, row := range rows {
		// Row layout: date, open, close, high, low, volume.
		if len(row) < 6 {
			return nil, fmt.Errorf("day row has %d fields, want at least 6", len(row))
		}
		date, err := time.Parse("2006-01-02", rowString(row[0]))
		if err != nil {
			return nil, fmt.Errorf("parse date %v: %w", row[0], err)
		}
		open, err := rowFloat(row[1])
		if err != nil {
			return nil, fmt.Errorf("parse open: %w", err)
		}
		cls, err := rowFloat(row[2])
		if err != nil {
			return nil, fmt.Errorf("parse close: %w", err)
		}
		high, err := rowFloat(row[3])
		if err != nil {
			return nil, fmt.Errorf("parse high: %w", err)
		}
		low, err := rowFloat(row[4])
		if err != nil {
			return nil, fmt.Errorf("parse low: %w", err)
		}
		vol, err := rowFloat(row[5])
		if err != nil {
			return nil, fmt.Errorf("parse volume: %w", err)
		}
		// Volume comes in lots of 100 shares.
		candles = append(candles, entity.Candle{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: int64(vol * 100),
			Amount: cls * vol * 100,
		})
	}
	return candles, nil
}

// sourceErr maps transport failures onto the domain taxonomy.
func (c *Client) sourceErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewSourceError(c.Name(), domain.ErrSourceTimeout)
	}
	return domain.NewSourceError(c.Name(), fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err))
}

func rowString(v any) string {
	s, _ := v.(string)
	return s
}

func rowFloat(v any) (float64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseFloat(t, 64)
	case float64:
		return t, nil
	default:
		return 0, fmt.Errorf("unexpected field type %T", v)
	}
}

func tupleFloat(fields []string, idx int) *float64 {
	if idx >= len(fields) {
		return nil
	}
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
