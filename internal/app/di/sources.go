// Package di provides dependency injection factories for creating application components.
package di

import (
	"stock_insight/internal/feature/stock/adapters/eastmoney"
	"stock_insight/internal/feature/stock/adapters/synthetic"
	"stock_insight/internal/feature/stock/adapters/tencent"
	"stock_insight/internal/feature/stock/usecase"
	infrahttp "stock_insight/internal/platform/http"
)

// NewFailover assembles the data source chain in priority order:
// Eastmoney first, Tencent as fallback, the synthetic generator last.
func NewFailover() *usecase.Failover {
	emCfg := eastmoney.LoadConfig()
	em := eastmoney.NewClient(emCfg, infrahttp.NewHTTPClient(emCfg.Timeout))

	tcCfg := tencent.LoadConfig()
	tc := tencent.NewClient(tcCfg, infrahttp.NewHTTPClient(tcCfg.Timeout))

	return usecase.NewFailover(em, tc, synthetic.NewGenerator(0))
}
