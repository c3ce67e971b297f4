// Package handler はstockフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insight/internal/api"
	"stock_insight/internal/feature/stock/domain"
	"stock_insight/internal/feature/stock/domain/entity"
)

// StockUsecase は銘柄データ取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	GetStock(ctx context.Context, code string) (entity.StockRecord, error)
	Refresh(ctx context.Context, code string) (entity.StockRecord, error)
}

// StockHandler は銘柄データのHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は指定されたusecaseでStockHandlerの新しいインスタンスを生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetStock は銘柄コードを受け取り、指標付きレコードをJSONで返します。
//
// エンドポイント例:
// GET /stocks/:code?refresh=1
func (h *StockHandler) GetStock(c *gin.Context) {
	code := c.Param("code")

	var (
		rec entity.StockRecord
		err error
	)
	if c.Query("refresh") == "1" {
		rec, err = h.uc.Refresh(c.Request.Context(), code)
	} else {
		rec, err = h.uc.GetStock(c.Request.Context(), code)
	}
	if err != nil {
		status, msg := mapError(err)
		if status >= http.StatusInternalServerError {
			slog.Warn("stock lookup failed", "code", code, "error", err)
		}
		c.JSON(status, api.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// mapError はユースケースのエラーをHTTPステータスと利用者向けメッセージに
// 変換します。内部エラーの詳細はレスポンスに含めません。
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest, "invalid stock code"
	case errors.Is(err, domain.ErrAllSourcesExhausted):
		return http.StatusBadGateway, "all market data sources are currently unavailable, please retry later"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
