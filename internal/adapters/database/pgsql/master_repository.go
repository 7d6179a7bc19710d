package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skpatro/tallystock/internal/core/domain"
	portsrepo "github.com/skpatro/tallystock/internal/core/ports/repositories"
)

// PgxMasterRepository persists master entities keyed by normalized name.
type PgxMasterRepository struct {
	BaseRepository
}

func newPgxMasterRepository(pool *pgxpool.Pool) portsrepo.MasterRepository {
	return &PgxMasterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MasterRepository = (*PgxMasterRepository)(nil)

func (r *PgxMasterRepository) UpsertLedgers(ctx context.Context, ledgers []domain.Ledger) error {
	query := `
		INSERT INTO ledgers (name_key, name, parent_group, opening_balance, mailing_name, gstin, email, phone, address, state, pincode, credit_period_days, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (name_key) DO UPDATE SET
			name = EXCLUDED.name,
			parent_group = EXCLUDED.parent_group,
			opening_balance = EXCLUDED.opening_balance,
			mailing_name = EXCLUDED.mailing_name,
			gstin = EXCLUDED.gstin,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			state = EXCLUDED.state,
			pincode = EXCLUDED.pincode,
			credit_period_days = EXCLUDED.credit_period_days,
			updated_at = now();
	`
	for _, l := range ledgers {
		_, err := r.Pool.Exec(ctx, query,
			l.Key(), l.Name, l.ParentGroup, l.OpeningBalance,
			l.MailingName, l.GSTIN, l.Email, l.Phone,
			l.Address, l.State, l.Pincode, l.CreditPeriodDays,
		)
		if err != nil {
			return fmt.Errorf("upsert ledger %s: %w", l.Name, err)
		}
	}
	return nil
}

func (r *PgxMasterRepository) UpsertStockItems(ctx context.Context, items []domain.StockItem) error {
	query := `
		INSERT INTO stock_items (name_key, name, parent_group, base_unit, alternate_unit, conversion, hsn_code, gst_rate, opening_qty, opening_value, opening_rate, opening_fy, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (name_key) DO UPDATE SET
			name = EXCLUDED.name,
			parent_group = EXCLUDED.parent_group,
			base_unit = EXCLUDED.base_unit,
			alternate_unit = EXCLUDED.alternate_unit,
			conversion = EXCLUDED.conversion,
			hsn_code = EXCLUDED.hsn_code,
			gst_rate = EXCLUDED.gst_rate,
			opening_qty = EXCLUDED.opening_qty,
			opening_value = EXCLUDED.opening_value,
			opening_rate = EXCLUDED.opening_rate,
			opening_fy = EXCLUDED.opening_fy,
			updated_at = now();
	`
	for _, it := range items {
		_, err := r.Pool.Exec(ctx, query,
			it.Key(), it.Name, it.ParentGroup, it.BaseUnit,
			it.AlternateUnit, it.Conversion, it.HSNCode, it.GSTRate,
			it.OpeningQty, it.OpeningValue, it.OpeningRate, it.OpeningFY,
		)
		if err != nil {
			return fmt.Errorf("upsert stock item %s: %w", it.Name, err)
		}
	}
	return nil
}

func (r *PgxMasterRepository) UpsertUnits(ctx context.Context, units []domain.Unit) error {
	query := `
		INSERT INTO units (symbol, formal_name, is_simple, base_unit, additional_unit, conversion)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol) DO UPDATE SET
			formal_name = EXCLUDED.formal_name,
			is_simple = EXCLUDED.is_simple,
			base_unit = EXCLUDED.base_unit,
			additional_unit = EXCLUDED.additional_unit,
			conversion = EXCLUDED.conversion;
	`
	for _, u := range units {
		_, err := r.Pool.Exec(ctx, query,
			u.Symbol, u.FormalName, u.IsSimple, u.BaseUnit, u.AdditionalUnit, u.Conversion,
		)
		if err != nil {
			return fmt.Errorf("upsert unit %s: %w", u.Symbol, err)
		}
	}
	return nil
}
