package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skpatro/tallystock/internal/apperrors"
	"github.com/skpatro/tallystock/internal/core/domain"
	"github.com/skpatro/tallystock/internal/core/ports/repositories"
	"github.com/skpatro/tallystock/internal/etl/worker"
	"github.com/skpatro/tallystock/internal/store"
)

// ImporterService drives the per-file pipeline: cache lookup, worker
// dispatch, merge into the dataset, best-effort persistence, and an
// import log per file. Files are always processed one at a time.
type ImporterService struct {
	dataset *DatasetService
	pool    *worker.Pool
	cache   *store.ParseCache

	// Persistence is optional; nil repositories mean in-memory only.
	masters  repositories.MasterRepository
	vouchers repositories.VoucherRepository
	logs     repositories.ImportLogRepository

	fyStartMonth time.Month
	logger       *slog.Logger
	now          func() time.Time

	mu     sync.Mutex
	recent []domain.ImportLog
}

const recentLogCap = 200

func NewImporterService(
	dataset *DatasetService,
	pool *worker.Pool,
	cache *store.ParseCache,
	masters repositories.MasterRepository,
	vouchers repositories.VoucherRepository,
	logs repositories.ImportLogRepository,
	fyStartMonth time.Month,
	logger *slog.Logger,
) *ImporterService {
	return &ImporterService{
		dataset:      dataset,
		pool:         pool,
		cache:        cache,
		masters:      masters,
		vouchers:     vouchers,
		logs:         logs,
		fyStartMonth: fyStartMonth,
		logger:       logger,
		now:          time.Now,
	}
}

// ImportFile runs one document through the pipeline. A fatal parse fails
// this file only; the returned log always describes the outcome.
func (s *ImporterService) ImportFile(ctx context.Context, fileName string, raw []byte, modTime time.Time) (domain.ImportLog, error) {
	log := domain.ImportLog{
		ID:        uuid.NewString(),
		FileName:  fileName,
		StartedAt: s.now(),
	}

	batch := s.cachedBatch(fileName, modTime)
	if batch != nil {
		log.FromCache = true
	} else {
		var err error
		batch, err = s.runPipeline(ctx, fileName, raw)
		if err != nil {
			log.Status = domain.ImportError
			log.ErrorMessage = err.Error()
			log.FinishedAt = s.now()
			if errors.Is(err, apperrors.ErrFatalParse) {
				log.Warnings = append(log.Warnings, domain.Warning{
					Kind:    domain.WarnFatalParse,
					Source:  fileName,
					Message: err.Error(),
				})
			}
			s.record(ctx, log)
			return log, err
		}
		if s.cache != nil && !modTime.IsZero() {
			s.cache.Put(fileName, modTime, batch)
		}
	}

	stats := s.dataset.Merge(batch)
	log.FileType = batch.FileType
	log.VouchersProcessed = len(batch.Vouchers)
	log.VouchersMerged = stats.NewVouchers
	log.VouchersDuplicate = stats.DuplicateVouchers
	log.MastersProcessed = stats.MastersUpserted
	log.Warnings = batch.Warnings

	s.persist(ctx, batch, &log)

	log.Status = ImportStatusOf(log.Warnings, nil)
	log.FinishedAt = s.now()
	s.record(ctx, log)

	s.logger.Info("file imported",
		"file", fileName,
		"type", batch.FileType,
		"vouchers_new", stats.NewVouchers,
		"vouchers_dup", stats.DuplicateVouchers,
		"masters", stats.MastersUpserted,
		"warnings", len(log.Warnings),
		"from_cache", log.FromCache)
	return log, nil
}

// ImportPaths imports on-disk files sequentially in sorted order; one bad
// file does not stop the rest.
func (s *ImporterService) ImportPaths(ctx context.Context, paths []string) []domain.ImportLog {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	out := make([]domain.ImportLog, 0, len(sorted))
	for _, path := range sorted {
		if ctx.Err() != nil {
			break
		}
		name := filepath.Base(path)
		raw, err := os.ReadFile(path)
		if err != nil {
			s.logger.Error("cannot read import file", "path", path, "error", err)
			out = append(out, domain.ImportLog{
				ID:           uuid.NewString(),
				FileName:     name,
				Status:       domain.ImportError,
				ErrorMessage: err.Error(),
				StartedAt:    s.now(),
				FinishedAt:   s.now(),
			})
			continue
		}
		var modTime time.Time
		if info, err := os.Stat(path); err == nil {
			modTime = info.ModTime()
		}
		log, _ := s.ImportFile(ctx, name, raw, modTime)
		out = append(out, log)
	}
	return out
}

// RecentLogs returns the latest import outcomes, newest first, from the
// database when available, else from the in-memory ring.
func (s *ImporterService) RecentLogs(ctx context.Context, limit int) ([]domain.ImportLog, error) {
	if s.logs != nil {
		logs, err := s.logs.List(ctx, limit)
		if err == nil {
			return logs, nil
		}
		s.logger.Warn("import log query failed, serving in-memory logs", "error", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.recent)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.ImportLog, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.recent[len(s.recent)-1-i])
	}
	return out, nil
}

func (s *ImporterService) cachedBatch(fileName string, modTime time.Time) *domain.ParsedBatch {
	if s.cache == nil || modTime.IsZero() {
		return nil
	}
	return s.cache.Get(fileName, modTime)
}

func (s *ImporterService) runPipeline(ctx context.Context, fileName string, raw []byte) (*domain.ParsedBatch, error) {
	fy := domain.FiscalYearOf(s.now(), s.fyStartMonth)
	reply := s.pool.Submit(worker.Request{ID: fileName, FileName: fileName, Raw: raw, FY: fy})
	select {
	case res := <-reply:
		if res.Err != nil {
			return nil, fmt.Errorf("import %s: %w", fileName, res.Err)
		}
		return res.Batch, nil
	case <-ctx.Done():
		// No mid-file cancellation; the worker finishes and the result
		// is dropped.
		return nil, fmt.Errorf("import %s: %w", fileName, ctx.Err())
	}
}

// persist writes the batch through the optional repositories. Failures
// downgrade to warnings; the in-memory dataset is already authoritative.
func (s *ImporterService) persist(ctx context.Context, batch *domain.ParsedBatch, log *domain.ImportLog) {
	warn := func(what string, err error) {
		s.logger.Warn("persistence failed", "what", what, "file", log.FileName, "error", err)
		log.Warnings = append(log.Warnings, domain.Warning{
			Kind:    domain.WarnValidation,
			Source:  log.FileName,
			Message: what + " persistence failed: " + err.Error(),
		})
	}

	if s.masters != nil {
		if len(batch.Ledgers) > 0 {
			ledgers := make([]domain.Ledger, 0, len(batch.Ledgers))
			for _, l := range batch.Ledgers {
				ledgers = append(ledgers, l)
			}
			if err := s.masters.UpsertLedgers(ctx, ledgers); err != nil {
				warn("ledger", err)
			}
		}
		if len(batch.StockItems) > 0 {
			items := make([]domain.StockItem, 0, len(batch.StockItems))
			for _, it := range batch.StockItems {
				items = append(items, it)
			}
			if err := s.masters.UpsertStockItems(ctx, items); err != nil {
				warn("stock item", err)
			}
		}
		if len(batch.Units) > 0 {
			units := make([]domain.Unit, 0, len(batch.Units))
			for _, u := range batch.Units {
				units = append(units, u)
			}
			if err := s.masters.UpsertUnits(ctx, units); err != nil {
				warn("unit", err)
			}
		}
	}
	if s.vouchers != nil && len(batch.Vouchers) > 0 {
		if _, err := s.vouchers.UpsertVouchers(ctx, batch.Vouchers); err != nil {
			warn("voucher", err)
		}
	}
}

func (s *ImporterService) record(ctx context.Context, log domain.ImportLog) {
	s.mu.Lock()
	s.recent = append(s.recent, log)
	if len(s.recent) > recentLogCap {
		s.recent = s.recent[len(s.recent)-recentLogCap:]
	}
	s.mu.Unlock()

	if s.logs != nil {
		if err := s.logs.Save(ctx, log); err != nil {
			s.logger.Warn("import log persistence failed", "file", log.FileName, "error", err)
		}
	}
}

// ImportStatusOf derives a file's status from its warnings and error.
func ImportStatusOf(warnings []domain.Warning, err error) domain.ImportStatus {
	switch {
	case err != nil:
		return domain.ImportError
	case len(warnings) > 0:
		return domain.ImportPartial
	default:
		return domain.ImportSuccess
	}
}
