package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/skpatro/tallystock/internal/core/domain"
	"github.com/skpatro/tallystock/internal/core/services"
	"github.com/skpatro/tallystock/internal/etl/worker"
	"github.com/skpatro/tallystock/internal/platform/config"
	"github.com/skpatro/tallystock/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tallyctl",
		Short: "Import Tally exports and inspect stock from the terminal",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newStockCommand())
	rootCmd.AddCommand(newOrderCommand())

	return rootCmd
}

// pipeline bundles the in-memory services a CLI run works against.
// CLI runs never touch the database; persistence is the server's job.
type pipeline struct {
	cfg      *config.Config
	importer *services.ImporterService
	dataset  *services.DatasetService
	ledger   *services.StockLedgerService
	orders   *services.OrderService
	pool     *worker.Pool
}

func newPipeline() (*pipeline, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	dataset := services.NewDatasetService()
	pool := worker.New(logger)
	cache := store.NewParseCache(cfg.CacheDir, cfg.CacheTTL, logger)
	overrides := store.NewOverrideStore(cfg.OverridesFile, logger)

	importer := services.NewImporterService(dataset, pool, cache, nil, nil, nil, cfg.FYStartMonth, logger)
	ledger := services.NewStockLedgerService(dataset, cfg.FYStartMonth, logger)
	orders := services.NewOrderService(dataset, ledger, overrides, logger)

	return &pipeline{
		cfg:      cfg,
		importer: importer,
		dataset:  dataset,
		ledger:   ledger,
		orders:   orders,
		pool:     pool,
	}, nil
}

func (p *pipeline) close() {
	p.pool.Close()
}

// importPaths runs the given files, or every XML file in the inbox when
// none are given, through the pipeline.
func (p *pipeline) importPaths(ctx context.Context, args []string) ([]domain.ImportLog, error) {
	paths := args
	if len(paths) == 0 {
		globbed, err := filepath.Glob(filepath.Join(p.cfg.TallyInbox, "*.xml"))
		if err != nil {
			return nil, fmt.Errorf("scanning inbox %s: %w", p.cfg.TallyInbox, err)
		}
		paths = globbed
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to import (inbox: %s)", p.cfg.TallyInbox)
	}
	sort.Strings(paths)
	return p.importer.ImportPaths(ctx, paths), nil
}
