// Package services declares the service interfaces the transport layer
// depends on. The concrete implementations live in internal/core/services.
package services

import (
	"context"
	"time"

	"github.com/skpatro/tallystock/internal/core/domain"
)

// ImportSvc drives the per-file import pipeline.
type ImportSvc interface {
	// ImportFile runs one raw document through the pipeline and merges
	// the result into the accumulated dataset.
	ImportFile(ctx context.Context, fileName string, raw []byte, modTime time.Time) (domain.ImportLog, error)
	// ImportPaths imports files from disk sequentially, one at a time.
	ImportPaths(ctx context.Context, paths []string) []domain.ImportLog
	// RecentLogs returns the most recent import outcomes, newest first.
	RecentLogs(ctx context.Context, limit int) ([]domain.ImportLog, error)
}

// DatasetSvc reads the accumulated dataset.
type DatasetSvc interface {
	Company() *domain.Company
	Vouchers() []domain.Voucher
	Voucher(key string) (domain.Voucher, error)
	Ledgers() []domain.Ledger
	Ledger(name string) (domain.Ledger, error)
	StockItems() []domain.StockItem
	StockItem(name string) (domain.StockItem, error)
	Units() []domain.Unit
	SourceFiles() []string
	Warnings() []domain.Warning
	Clear()
}

// StockLedgerSvc computes per-item inventory periods.
type StockLedgerSvc interface {
	ItemPeriod(name string, start, end time.Time) (domain.StockPeriod, error)
	ItemInventories() []domain.ItemInventory
	MonthlyHistory(name string, months int) ([]domain.StockPeriod, error)
	AnnualSummary(name string, fyYear int) ([]domain.StockPeriod, error)
	ValidatePeriods(itemName string, periods []domain.StockPeriod) []domain.Warning
}

// OrderSvc produces the reorder-planning view.
type OrderSvc interface {
	OrderItems(monthsCover, lookback int, group string) ([]domain.OrderItem, error)
	ItemHistory(name string, months int) ([]domain.StockPeriod, error)
	ApplyPackageFactors(entries []PackageFactorEntry) ([]PackageFactorResult, error)
}

// ServiceContainer bundles the service implementations handed to the
// transport layer.
type ServiceContainer struct {
	Import      ImportSvc
	Dataset     DatasetSvc
	StockLedger StockLedgerSvc
	Order       OrderSvc
}

// PackageFactorEntry is one externally sourced package factor to
// reconcile against canonical item names.
type PackageFactorEntry struct {
	ItemName  string  `json:"itemName"`
	PkgFactor float64 `json:"pkgFactor"`
	PkgUnit   string  `json:"pkgUnit,omitempty"`
}

// PackageFactorResult reports how one entry was matched and applied.
type PackageFactorResult struct {
	Input      string  `json:"input"`
	MatchedTo  string  `json:"matchedTo,omitempty"`
	Confidence string  `json:"confidence"`
	Score      float64 `json:"score"`
	Applied    bool    `json:"applied"`
}
