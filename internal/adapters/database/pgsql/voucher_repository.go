package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skpatro/tallystock/internal/core/domain"
	portsrepo "github.com/skpatro/tallystock/internal/core/ports/repositories"
)

// PgxVoucherRepository persists vouchers keyed by their composite
// identity. Inserts mirror the merge layer's first-seen-wins semantics:
// an existing identity is left untouched, so a re-import of unchanged
// data is a database no-op too.
type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepository {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepository = (*PgxVoucherRepository)(nil)

func (r *PgxVoucherRepository) UpsertVouchers(ctx context.Context, vouchers []domain.Voucher) (int, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	voucherQuery := `
		INSERT INTO vouchers (dedup_key, voucher_type, voucher_number, voucher_date, effective_date, party_name, party_gstin, place_of_supply, irn, narration, amount, is_optional, is_cancelled, is_post_dated, is_void, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())
		ON CONFLICT (dedup_key) DO NOTHING;
	`
	lineQuery := `
		INSERT INTO voucher_lines (voucher_key, line_no, ledger_name, stock_item_name, is_deemed_positive, amount, actual_qty, billed_qty, unit, rate, is_tax_line, tax_type, is_party_ledger, bill_allocations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	inserted := 0
	for _, v := range vouchers {
		var effective any
		if !v.EffectiveDate.IsZero() {
			effective = v.EffectiveDate
		}
		tag, err := tx.Exec(ctx, voucherQuery,
			v.Key(), v.Type, v.Number, v.Date, effective,
			v.PartyName, v.PartyGSTIN, v.PlaceOfSupply, v.IRN, v.Narration,
			v.Amount, v.IsOptional, v.IsCancelled, v.IsPostDated, v.IsVoid, v.IsDeleted,
		)
		if err != nil {
			return 0, fmt.Errorf("insert voucher %s: %w", v.Key(), err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		inserted++

		for i, line := range v.Lines {
			var allocations any
			if len(line.BillAllocations) > 0 {
				raw, err := json.Marshal(line.BillAllocations)
				if err != nil {
					return 0, fmt.Errorf("encode bill allocations for %s: %w", v.Key(), err)
				}
				allocations = raw
			}
			_, err := tx.Exec(ctx, lineQuery,
				v.Key(), i, line.LedgerName, line.StockItemName,
				line.IsDeemedPositive, line.Amount, line.ActualQty, line.BilledQty,
				line.Unit, line.Rate, line.IsTaxLine, line.TaxType,
				line.IsPartyLedger, allocations,
			)
			if err != nil {
				return 0, fmt.Errorf("insert voucher line %d of %s: %w", i, v.Key(), err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit voucher batch: %w", err)
	}
	return inserted, nil
}
