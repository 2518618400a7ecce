package http

import (
	"errors"
	"net/http"
	"strconv"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/service"
	"go-options-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AlertHandler handles HTTP requests for the alert inbox.
type AlertHandler struct {
	alertService service.AlertService
	logger       *logger.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService service.AlertService, logger *logger.Logger) *AlertHandler {
	return &AlertHandler{alertService: alertService, logger: logger}
}

// RegisterRoutes registers the alert routes to the Echo group.
func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListAlerts)
	g.POST("/:id/ack", h.AcknowledgeAlert)
	g.DELETE("/:id", h.DeleteAlert)
}

// ListAlerts returns pending alerts, newest first. Acknowledged alerts are
// included only with ?include_acknowledged=true.
func (h *AlertHandler) ListAlerts(c echo.Context) error {
	includeAcked, _ := strconv.ParseBool(c.QueryParam("include_acknowledged"))
	param := dto.ListAlertsParam{
		IncludeAcknowledged: includeAcked,
		Symbol:              c.QueryParam("symbol"),
	}

	alerts, err := h.alertService.ListAlerts(c.Request().Context(), param)
	if err != nil {
		h.logger.Error("Failed to list alerts", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list alerts"})
	}
	return c.JSON(http.StatusOK, alerts)
}

// AcknowledgeAlert marks an alert as seen.
func (h *AlertHandler) AcknowledgeAlert(c echo.Context) error {
	id := c.Param("id")
	if err := h.alertService.AcknowledgeAlert(c.Request().Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Alert not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to acknowledge alert"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAlert removes an alert from the inbox.
func (h *AlertHandler) DeleteAlert(c echo.Context) error {
	id := c.Param("id")
	if err := h.alertService.DeleteAlert(c.Request().Context(), id); err != nil {
		h.logger.Error("Failed to delete alert",
			logger.StringField("id", id),
			logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete alert"})
	}
	return c.NoContent(http.StatusNoContent)
}
