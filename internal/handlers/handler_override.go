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

// overrideHandler handles HTTP requests for user-edited master overrides.
type overrideHandler struct {
	overrides *store.OverrideStore
}

func newOverrideHandler(s *store.OverrideStore) *overrideHandler {
	return &overrideHandler{overrides: s}
}

// registerOverrideRoutes registers master override CRUD routes.
func registerOverrideRoutes(rg *gin.RouterGroup, overrides *store.OverrideStore) {
	h := newOverrideHandler(overrides)

	group := rg.Group("/overrides")
	{
		group.GET("", h.listOverrides)
		group.GET("/:item", h.getOverride)
		group.PUT("/:item", h.putOverride)
		group.DELETE("/:item", h.deleteOverride)
		group.DELETE("", h.clearOverrides)
	}
}

func (h *overrideHandler) listOverrides(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	all, err := h.overrides.All()
	if err != nil {
		logger.Error("Failed to load overrides", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load overrides"})
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *overrideHandler) getOverride(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	item := c.Param("item")

	override, err := h.overrides.Get(item)
	if err != nil {
		logger.Error("Failed to load override", slog.String("item", item), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load override"})
		return
	}
	c.JSON(http.StatusOK, dto.OverrideResponse{ItemName: item, Override: override})
}

func (h *overrideHandler) putOverride(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	item := c.Param("item")

	var req dto.UpdateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for override update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	merged, err := h.overrides.Set(item, req.ToMasterOverride())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to save override", slog.String("item", item), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save override"})
		return
	}
	c.JSON(http.StatusOK, dto.OverrideResponse{ItemName: item, Override: merged})
}

func (h *overrideHandler) deleteOverride(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	item := c.Param("item")

	if err := h.overrides.Delete(item); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Override not found"})
			return
		}
		logger.Error("Failed to delete override", slog.String("item", item), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete override"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *overrideHandler) clearOverrides(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	n, err := h.overrides.Clear()
	if err != nil {
		logger.Error("Failed to clear overrides", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear overrides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
