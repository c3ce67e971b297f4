// Package handler はreportフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insight/internal/api"
	reportentity "stock_insight/internal/feature/report/domain/entity"
	"stock_insight/internal/feature/stock/domain"
)

// ReportUsecase はレポート生成のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ReportUsecase interface {
	GetReport(ctx context.Context, code string) (reportentity.Report, error)
}

// ReportHandler は銘柄レポートのHTTPリクエストを処理します。
type ReportHandler struct {
	uc ReportUsecase
}

// NewReportHandler は指定されたusecaseでReportHandlerの新しいインスタンスを生成します。
func NewReportHandler(uc ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// GetReport は銘柄コードを受け取り、分析レポートをJSONで返します。
//
// エンドポイント例:
// GET /stocks/:code/report
func (h *ReportHandler) GetReport(c *gin.Context) {
	code := c.Param("code")

	rep, err := h.uc.GetReport(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid stock code"})
		case errors.Is(err, domain.ErrAllSourcesExhausted):
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "all market data sources are currently unavailable, please retry later"})
		default:
			slog.Warn("report generation failed", "code", code, "error", err)
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "report generation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, rep)
}
