package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skpatro/tallystock/internal/apperrors"
	"github.com/skpatro/tallystock/internal/dto"
	"github.com/skpatro/tallystock/internal/middleware"
	"github.com/skpatro/tallystock/internal/store"
)

// rateHandler handles HTTP requests for user-edited item rates. Stored
// rates always win over source-derived rates; deleting one reverts the
// item to its source rate.
type rateHandler struct {
	rates *store.RateStore
}

func newRateHandler(s *store.RateStore) *rateHandler {
	return &rateHandler{rates: s}
}

// registerRateRoutes registers item rate override CRUD routes plus the
// rate-change audit log.
func registerRateRoutes(rg *gin.RouterGroup, rates *store.RateStore) {
	h := newRateHandler(rates)

	group := rg.Group("/rates")
	{
		group.GET("", h.listRates)
		group.GET("/log/changes", h.listRateChanges)
		group.GET("/:item", h.getRate)
		group.POST("/:item", h.saveRate)
		group.DELETE("/:item", h.deleteRate)
	}
}

func (h *rateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	all, err := h.rates.All()
	if err != nil {
		logger.Error("Failed to load rate overrides", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rate overrides"})
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *rateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	item := c.Param("item")

	override, err := h.rates.Get(item)
	if err != nil {
		logger.Error("Failed to load rate override", slog.String("item", item), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rate override"})
		return
	}
	c.JSON(http.StatusOK, dto.RateOverrideResponse{ItemName: item, Override: override})
}

func (h *rateHandler) saveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	item := c.Param("item")

	var req dto.UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for rate update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	merged, warnings, err := h.rates.Set(item, req.ToRateOverride())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to save rate override", slog.String("item", item), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rate override"})
		return
	}
	c.JSON(http.StatusOK, dto.RateOverrideResponse{ItemName: item, Override: merged, Warnings: warnings})
}

func (h *rateHandler) deleteRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	item := c.Param("item")

	if err := h.rates.Delete(item); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rate override not found"})
			return
		}
		logger.Error("Failed to delete rate override", slog.String("item", item), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rate override"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *rateHandler) listRateChanges(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.RateChangesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	changes, err := h.rates.Changes(q.Limit)
	if err != nil {
		logger.Error("Failed to load rate change log", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rate change log"})
		return
	}
	c.JSON(http.StatusOK, changes)
}
