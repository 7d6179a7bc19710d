package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skpatro/tallystock/internal/apperrors"
	portssvc "github.com/skpatro/tallystock/internal/core/ports/services"
	"github.com/skpatro/tallystock/internal/dto"
	"github.com/skpatro/tallystock/internal/middleware"
)

// orderHandler serves the reorder-planning view.
type orderHandler struct {
	orderService portssvc.OrderSvc
}

func newOrderHandler(os portssvc.OrderSvc) *orderHandler {
	return &orderHandler{orderService: os}
}

// registerOrderRoutes registers reorder-planning routes.
func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvc) {
	h := newOrderHandler(orderService)

	order := rg.Group("/order")
	{
		order.GET("/items", h.listOrderItems)
		order.GET("/items/:name/history", h.getOrderItemHistory)
		order.POST("/pkg-factors", h.applyPackageFactors)
	}
}

// listOrderItems returns every known item with its current stock and a
// purchase suggestion sized to cover the requested months of demand.
func (h *orderHandler) listOrderItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.OrderItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	items, err := h.orderService.OrderItems(q.MonthsCover, q.Lookback, q.Group)
	if err != nil {
		logger.Error("Failed to build order items", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build order items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *orderHandler) getOrderItemHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	var q dto.MonthlyHistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	history, err := h.orderService.ItemHistory(name, q.Months)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
		logger.Error("Failed to compute order item history", slog.String("name", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute item history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// applyPackageFactors reconciles externally sourced package factors
// against canonical item names and stores the matched ones as overrides.
func (h *orderHandler) applyPackageFactors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var entries []portssvc.PackageFactorEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one entry is required"})
		return
	}

	logger.Info("Applying package factors", slog.Int("entries", len(entries)))

	results, err := h.orderService.ApplyPackageFactors(entries)
	if err != nil {
		logger.Error("Failed to apply package factors", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply package factors"})
		return
	}
	c.JSON(http.StatusOK, results)
}
