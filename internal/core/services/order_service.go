package services

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/skpatro/tallystock/internal/core/domain"
	portssvc "github.com/skpatro/tallystock/internal/core/ports/services"
	"github.com/skpatro/tallystock/internal/pkgunit"
	"github.com/skpatro/tallystock/internal/store"
)

// replayEpoch predates any plausible voucher; using it as both fiscal
// anchor and period start turns ComputePeriod into an all-history replay.
var replayEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// OrderService builds the reorder-planning view: per-item closing stock,
// average monthly outward, and a purchase suggestion in package units.
// User-edited overrides always take precedence over source-derived
// package factors, groups and units.
type OrderService struct {
	dataset   *DatasetService
	ledger    *StockLedgerService
	overrides *store.OverrideStore
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrderService(dataset *DatasetService, ledger *StockLedgerService, overrides *store.OverrideStore, logger *slog.Logger) *OrderService {
	return &OrderService{
		dataset:   dataset,
		ledger:    ledger,
		overrides: overrides,
		logger:    logger,
		now:       time.Now,
	}
}

// OrderItems returns every known item (masters plus names that only occur
// on voucher lines) with current stock and a reorder suggestion sized to
// monthsCover months of the average outward over the lookback window.
func (s *OrderService) OrderItems(monthsCover, lookback int, group string) ([]domain.OrderItem, error) {
	if monthsCover < 1 {
		monthsCover = 2
	}
	if lookback < 1 {
		lookback = 6
	}

	overrides, err := s.overrides.All()
	if err != nil {
		// Overrides are an enrichment; losing them must not hide stock data.
		s.logger.Warn("override load failed, continuing without overrides", "error", err)
		overrides = map[string]store.MasterOverride{}
	}

	now := s.now()
	vouchers := s.dataset.Vouchers()
	items := s.allItems(vouchers)
	cutoff := now.AddDate(0, -lookback, 0)

	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		ov := overrides[item.Name]

		itemGroup := item.ParentGroup
		if ov.Group != nil {
			itemGroup = *ov.Group
		}
		if group != "" && itemGroup != group {
			continue
		}

		total := ComputePeriod(item, vouchers, replayEpoch, replayEpoch, now, now)
		recent := ComputePeriod(item, vouchers, cutoff, cutoff, now, now)
		avgOutward := round3(recent.Outward / float64(lookback))

		var factor *float64
		if item.Conversion > 0 {
			c := item.Conversion
			factor = &c
		}
		if ov.PkgFactor != nil {
			factor = ov.PkgFactor
		}

		baseUnit := item.BaseUnit
		if baseUnit == "" {
			baseUnit = "PCS"
		}
		if ov.BaseUnit != nil {
			baseUnit = *ov.BaseUnit
		}

		row := domain.OrderItem{
			Name:              item.Name,
			Group:             itemGroup,
			BaseUnit:          baseUnit,
			PkgFactor:         factor,
			ClosingBase:       total.Closing,
			AvgMonthlyOutward: avgOutward,
		}

		target := avgOutward * float64(monthsCover)
		row.SuggestionBase = round3(math.Max(0, target-total.Closing))
		if factor != nil && *factor > 0 {
			closingPkg := math.Round(total.Closing / *factor * 100) / 100
			row.ClosingPkg = &closingPkg
			suggestionPkg := math.Ceil(row.SuggestionBase / *factor)
			row.SuggestionPkg = &suggestionPkg
		}
		out = append(out, row)
	}
	return out, nil
}

// ItemHistory returns the item's monthly ledger for the trailing window.
func (s *OrderService) ItemHistory(name string, months int) ([]domain.StockPeriod, error) {
	if months < 1 {
		months = 12
	}
	return s.ledger.MonthlyHistory(name, months)
}

// ApplyPackageFactors reconciles externally sourced package factors
// against canonical item names and stores the matched ones as overrides.
// Unmatched entries are reported, not applied.
func (s *OrderService) ApplyPackageFactors(entries []portssvc.PackageFactorEntry) ([]portssvc.PackageFactorResult, error) {
	items := s.dataset.StockItems()
	candidates := make([]string, 0, len(items))
	for _, it := range items {
		candidates = append(candidates, it.Name)
	}

	out := make([]portssvc.PackageFactorResult, 0, len(entries))
	for _, e := range entries {
		m := pkgunit.MatchItemName(e.ItemName, candidates)
		res := portssvc.PackageFactorResult{
			Input:      e.ItemName,
			MatchedTo:  m.Name,
			Confidence: string(m.Confidence),
			Score:      m.Score,
		}
		if m.Confidence != pkgunit.ConfidenceNone && e.PkgFactor > 0 {
			factor := e.PkgFactor
			update := store.MasterOverride{PkgFactor: &factor}
			if e.PkgUnit != "" {
				unit := e.PkgUnit
				update.Notes = &unit
			}
			if _, err := s.overrides.Set(m.Name, update); err != nil {
				return nil, fmt.Errorf("apply package factor for %q: %w", m.Name, err)
			}
			res.Applied = true
		}
		out = append(out, res)
	}
	return out, nil
}

// allItems unions the stock-item masters with item names that only ever
// appear on voucher lines, sorted by name.
func (s *OrderService) allItems(vouchers []domain.Voucher) []domain.StockItem {
	byKey := make(map[string]domain.StockItem)
	for _, it := range s.dataset.StockItems() {
		byKey[it.Key()] = it
	}
	for _, v := range vouchers {
		for _, line := range v.Lines {
			if !line.IsInventory() {
				continue
			}
			key := domain.NormalizeName(line.StockItemName)
			if _, ok := byKey[key]; !ok {
				byKey[key] = domain.StockItem{Name: line.StockItemName, BaseUnit: line.Unit}
			}
		}
	}
	out := make([]domain.StockItem, 0, len(byKey))
	for _, it := range byKey {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
