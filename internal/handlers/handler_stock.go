package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skpatro/tallystock/internal/apperrors"
	"github.com/skpatro/tallystock/internal/core/domain"
	portssvc "github.com/skpatro/tallystock/internal/core/ports/services"
	"github.com/skpatro/tallystock/internal/dto"
	"github.com/skpatro/tallystock/internal/middleware"
)

// stockHandler serves stock item masters and computed inventory ledgers.
type stockHandler struct {
	datasetService portssvc.DatasetSvc
	ledgerService  portssvc.StockLedgerSvc
}

func newStockHandler(ds portssvc.DatasetSvc, ls portssvc.StockLedgerSvc) *stockHandler {
	return &stockHandler{datasetService: ds, ledgerService: ls}
}

// registerStockRoutes registers stock item and inventory ledger routes.
func registerStockRoutes(rg *gin.RouterGroup, datasetService portssvc.DatasetSvc, ledgerService portssvc.StockLedgerSvc) {
	h := newStockHandler(datasetService, ledgerService)

	items := rg.Group("/items")
	{
		items.GET("", h.listItems)
		items.GET("/inventory", h.listItemInventories)
		items.GET("/:name", h.getItem)
		items.GET("/:name/inventory", h.getItemPeriod)
		items.GET("/:name/history", h.getItemHistory)
		items.GET("/:name/annual", h.getItemAnnualSummary)
	}
}

func (h *stockHandler) listItems(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasetService.StockItems())
}

// listItemInventories returns every item's movement for the current
// calendar month, as of the ledger service's clock.
func (h *stockHandler) listItemInventories(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledgerService.ItemInventories())
}

func (h *stockHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	item, err := h.datasetService.StockItem(name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
		logger.Error("Failed to get stock item", slog.String("name", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stock item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// getItemPeriod computes one item's inventory movement over an inclusive
// date range, replaying opening stock from the fiscal year start.
func (h *stockHandler) getItemPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	var q dto.StockPeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	start, _ := dto.ParseTallyDate(q.From)
	end, _ := dto.ParseTallyDate(q.To)
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must not be before 'from'"})
		return
	}

	period, err := h.ledgerService.ItemPeriod(name, start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
		logger.Error("Failed to compute item period", slog.String("name", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute inventory period"})
		return
	}

	warnings := h.ledgerService.ValidatePeriods(name, []domain.StockPeriod{period})
	c.JSON(http.StatusOK, gin.H{"period": period, "warnings": warnings})
}

// getItemHistory returns a trailing month-by-month movement history.
func (h *stockHandler) getItemHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	var q dto.MonthlyHistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	history, err := h.ledgerService.MonthlyHistory(name, q.Months)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
		logger.Error("Failed to compute item history", slog.String("name", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute inventory history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// getItemAnnualSummary returns the 12 fiscal-year months for one item.
func (h *stockHandler) getItemAnnualSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	var q dto.AnnualSummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	summary, err := h.ledgerService.AnnualSummary(name, q.Year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
		logger.Error("Failed to compute annual summary", slog.String("name", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute annual summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
