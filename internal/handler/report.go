package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/observability/metrics"
)

// ReportHandler exposes the dashboard counts.
type ReportHandler struct {
	Reports ReportStore
}

func NewReportHandler(rs ReportStore) *ReportHandler {
	return &ReportHandler{Reports: rs}
}

// Summary returns the raw row counts of clients, contracts, vehicles
// and payments.
func (h *ReportHandler) Summary(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	report, err := h.Reports.Summary(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	metrics.SetContracts(model.StatusActive, int(report.ActiveContracts))
	metrics.SetContracts(model.StatusCompleted, int(report.CompletedContracts))
	return c.JSON(http.StatusOK, model.Success(report))
}
