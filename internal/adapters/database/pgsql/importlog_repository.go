package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skpatro/tallystock/internal/core/domain"
	portsrepo "github.com/skpatro/tallystock/internal/core/ports/repositories"
)

// PgxImportLogRepository records per-file import outcomes.
type PgxImportLogRepository struct {
	BaseRepository
}

func newPgxImportLogRepository(pool *pgxpool.Pool) portsrepo.ImportLogRepository {
	return &PgxImportLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ImportLogRepository = (*PgxImportLogRepository)(nil)

func (r *PgxImportLogRepository) Save(ctx context.Context, log domain.ImportLog) error {
	var warnings any
	if len(log.Warnings) > 0 {
		raw, err := json.Marshal(log.Warnings)
		if err != nil {
			return fmt.Errorf("encode import warnings: %w", err)
		}
		warnings = raw
	}

	query := `
		INSERT INTO import_logs (id, file_name, file_type, status, vouchers_processed, vouchers_merged, vouchers_duplicate, masters_processed, from_cache, error_message, warnings, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		log.ID, log.FileName, log.FileType, log.Status,
		log.VouchersProcessed, log.VouchersMerged, log.VouchersDuplicate, log.MastersProcessed,
		log.FromCache, log.ErrorMessage, warnings, log.StartedAt, log.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("save import log for %s: %w", log.FileName, err)
	}
	return nil
}

func (r *PgxImportLogRepository) List(ctx context.Context, limit int) ([]domain.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, file_name, file_type, status, vouchers_processed, vouchers_merged, vouchers_duplicate, masters_processed, from_cache, error_message, warnings, started_at, finished_at
		FROM import_logs
		ORDER BY started_at DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query import logs: %w", err)
	}
	defer rows.Close()

	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ImportLog, error) {
		var log domain.ImportLog
		var errMsg *string
		var warnings []byte
		err := row.Scan(
			&log.ID, &log.FileName, &log.FileType, &log.Status,
			&log.VouchersProcessed, &log.VouchersMerged, &log.VouchersDuplicate, &log.MastersProcessed,
			&log.FromCache, &errMsg, &warnings, &log.StartedAt, &log.FinishedAt,
		)
		if err != nil {
			return log, err
		}
		if errMsg != nil {
			log.ErrorMessage = *errMsg
		}
		if len(warnings) > 0 {
			if err := json.Unmarshal(warnings, &log.Warnings); err != nil {
				return log, fmt.Errorf("decode import warnings: %w", err)
			}
		}
		return log, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan import logs: %w", err)
	}
	return logs, nil
}
