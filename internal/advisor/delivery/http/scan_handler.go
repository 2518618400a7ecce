package http

import (
	"net/http"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/service"
	"go-options-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScanHandler handles HTTP requests for scan passes.
type ScanHandler struct {
	scanService service.ScanService
	logger      *logger.Logger
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scanService service.ScanService, logger *logger.Logger) *ScanHandler {
	return &ScanHandler{scanService: scanService, logger: logger}
}

// RegisterRoutes registers the scan routes to the Echo group.
func (h *ScanHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.RunScan)
}

// RunScan triggers a synchronous scan pass. Sub-scanner failures come back
// in the errors array with a 200; only a setup or persistence failure is a
// 500.
func (h *ScanHandler) RunScan(c echo.Context) error {
	var params dto.ScanParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	result, err := h.scanService.RunScan(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("Scan pass failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}
