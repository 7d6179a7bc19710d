package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skpatro/tallystock/internal/apperrors"
	"github.com/skpatro/tallystock/internal/core/domain"
	portssvc "github.com/skpatro/tallystock/internal/core/ports/services"
	"github.com/skpatro/tallystock/internal/dto"
	"github.com/skpatro/tallystock/internal/middleware"
)

// datasetHandler serves read access to the accumulated dataset.
type datasetHandler struct {
	datasetService portssvc.DatasetSvc
}

func newDatasetHandler(ds portssvc.DatasetSvc) *datasetHandler {
	return &datasetHandler{datasetService: ds}
}

// registerDatasetRoutes registers routes over the in-memory dataset.
func registerDatasetRoutes(rg *gin.RouterGroup, datasetService portssvc.DatasetSvc) {
	h := newDatasetHandler(datasetService)

	rg.GET("/company", h.getCompany)
	rg.GET("/warnings", h.listWarnings)
	rg.DELETE("/dataset", h.clearDataset)

	rg.GET("/voucher-types", h.listVoucherTypes)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:key", h.getVoucher)
	}

	ledgers := rg.Group("/ledgers")
	{
		ledgers.GET("", h.listLedgers)
		ledgers.GET("/:name", h.getLedger)
	}

	rg.GET("/units", h.listUnits)
}

func (h *datasetHandler) getCompany(c *gin.Context) {
	company := h.datasetService.Company()
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No company identified yet"})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *datasetHandler) listWarnings(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasetService.Warnings())
}

// clearDataset drops all merged data, returning the import pipeline to a
// cold start. The parse cache and overrides are unaffected.
func (h *datasetHandler) clearDataset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn("Clearing accumulated dataset")
	h.datasetService.Clear()
	c.Status(http.StatusNoContent)
}

func (h *datasetHandler) listVouchers(c *gin.Context) {
	var q dto.ListVouchersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	var from, to time.Time
	if q.From != "" {
		from, _ = dto.ParseTallyDate(q.From)
	}
	if q.To != "" {
		to, _ = dto.ParseTallyDate(q.To)
	}

	party := strings.ToLower(q.Party)
	now := time.Now()
	vouchers := h.datasetService.Vouchers()
	out := make([]dto.VoucherSummaryResponse, 0, len(vouchers))
	for i := range vouchers {
		v := &vouchers[i]
		if q.Type != "" && string(v.Type) != q.Type {
			continue
		}
		if !from.IsZero() && v.Date.Before(from) {
			continue
		}
		if !to.IsZero() && v.Date.After(to) {
			continue
		}
		if party != "" && !strings.Contains(strings.ToLower(v.PartyName), party) {
			continue
		}
		out = append(out, dto.ToVoucherSummaryResponse(v, now))
	}

	total := len(out)
	if q.Offset > 0 {
		if q.Offset >= total {
			out = out[:0]
		} else {
			out = out[q.Offset:]
		}
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "vouchers": out})
}

// listVoucherTypes returns the closed set of canonical voucher types.
func (h *datasetHandler) listVoucherTypes(c *gin.Context) {
	c.JSON(http.StatusOK, domain.VoucherTypes())
}

func (h *datasetHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	key := c.Param("key")

	voucher, err := h.datasetService.Voucher(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
			return
		}
		logger.Error("Failed to get voucher", slog.String("key", key), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voucher"})
		return
	}
	c.JSON(http.StatusOK, voucher)
}

func (h *datasetHandler) listLedgers(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasetService.Ledgers())
}

func (h *datasetHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	ledger, err := h.datasetService.Ledger(name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
			return
		}
		logger.Error("Failed to get ledger", slog.String("name", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger"})
		return
	}
	c.JSON(http.StatusOK, ledger)
}

func (h *datasetHandler) listUnits(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasetService.Units())
}
