package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/skpatro/tallystock/internal/core/ports/repositories"
)

// Repositories bundles the pgsql-backed repository implementations.
type Repositories struct {
	Masters    portsrepo.MasterRepository
	Vouchers   portsrepo.VoucherRepository
	ImportLogs portsrepo.ImportLogRepository
}

// NewRepositories wires all repositories onto one shared pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Masters:    newPgxMasterRepository(pool),
		Vouchers:   newPgxVoucherRepository(pool),
		ImportLogs: newPgxImportLogRepository(pool),
	}
}
