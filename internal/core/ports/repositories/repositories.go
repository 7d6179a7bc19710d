// Package repositories declares the persistence interfaces the core
// services depend on. Adapters implement them; persistence is best-effort
// and optional, so services must tolerate nil implementations.
package repositories

import (
	"context"

	"github.com/skpatro/tallystock/internal/core/domain"
)

// MasterRepository persists master entities. Upserts are keyed by
// normalized name; re-importing the same masters overwrites in place.
type MasterRepository interface {
	UpsertLedgers(ctx context.Context, ledgers []domain.Ledger) error
	UpsertStockItems(ctx context.Context, items []domain.StockItem) error
	UpsertUnits(ctx context.Context, units []domain.Unit) error
}

// VoucherRepository persists vouchers keyed by their composite identity.
// Upsert returns how many rows were newly inserted; conflicts are left
// untouched, mirroring first-seen-wins merge semantics.
type VoucherRepository interface {
	UpsertVouchers(ctx context.Context, vouchers []domain.Voucher) (inserted int, err error)
}

// ImportLogRepository records per-file import outcomes.
type ImportLogRepository interface {
	Save(ctx context.Context, log domain.ImportLog) error
	List(ctx context.Context, limit int) ([]domain.ImportLog, error)
}
