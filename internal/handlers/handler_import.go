package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skpatro/tallystock/internal/apperrors"
	portssvc "github.com/skpatro/tallystock/internal/core/ports/services"
	"github.com/skpatro/tallystock/internal/dto"
	"github.com/skpatro/tallystock/internal/middleware"
)

// importHandler handles HTTP requests for the file import pipeline.
type importHandler struct {
	importService portssvc.ImportSvc
	inboxDir      string
}

func newImportHandler(is portssvc.ImportSvc, inboxDir string) *importHandler {
	return &importHandler{importService: is, inboxDir: inboxDir}
}

// registerImportRoutes registers routes related to importing Tally exports.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvc, inboxDir string) {
	h := newImportHandler(importService, inboxDir)

	imports := rg.Group("/imports")
	{
		imports.POST("", h.importUpload)
		imports.POST("/inbox", h.importInbox)
		imports.GET("/logs", h.listImportLogs)
	}
}

// importUpload accepts one uploaded XML file and runs it through the
// pipeline. Uploads bypass the parse cache since there is no stable
// modification time to key on.
func (h *importHandler) importUpload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Import upload missing file field", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	logger.Info("Received import upload", slog.String("file_name", fileHeader.Filename), slog.Int("bytes", len(raw)))

	log, err := h.importService.ImportFile(c.Request.Context(), fileHeader.Filename, raw, time.Time{})
	if err != nil {
		if errors.Is(err, apperrors.ErrFatalParse) {
			logger.Warn("Uploaded file failed to parse", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, log)
			return
		}
		logger.Error("Import failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}

	c.JSON(http.StatusOK, log)
}

// importInbox imports every XML file currently in the inbox directory.
func (h *importHandler) importInbox(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	paths, err := filepath.Glob(filepath.Join(h.inboxDir, "*.xml"))
	if err != nil {
		logger.Error("Failed to scan inbox directory", slog.String("dir", h.inboxDir), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan inbox directory"})
		return
	}
	if len(paths) == 0 {
		c.JSON(http.StatusOK, dto.ToImportInboxResponse(nil))
		return
	}
	sort.Strings(paths)

	logger.Info("Importing inbox", slog.String("dir", h.inboxDir), slog.Int("files", len(paths)))

	logs := h.importService.ImportPaths(c.Request.Context(), paths)
	c.JSON(http.StatusOK, dto.ToImportInboxResponse(logs))
}

// listImportLogs returns the most recent import outcomes, newest first.
func (h *importHandler) listImportLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.ImportLogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	logs, err := h.importService.RecentLogs(c.Request.Context(), q.Limit)
	if err != nil {
		logger.Error("Failed to list import logs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list import logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
