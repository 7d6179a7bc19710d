package services

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/skpatro/tallystock/internal/core/domain"
)

// ComputePeriod replays the voucher stream for one stock item over
// [start, end]. The opening balance starts from the item master's opening
// quantity (anchored at fyStart) plus every effective movement dated in
// [fyStart, start). Direction comes from isDeemedPositive only, never
// from the sign of the amount. This is a brute-force full replay per
// call; periods are independent and are not chained off a prior closing.
func ComputePeriod(item domain.StockItem, vouchers []domain.Voucher, fyStart, start, end, now time.Time) domain.StockPeriod {
	key := item.Key()
	opening := item.OpeningQty

	var inward, outward float64
	inwardSeen := make(map[string]struct{})
	outwardSeen := make(map[string]struct{})

	for _, v := range vouchers {
		if !v.IsEffective(now) {
			continue
		}
		beforePeriod := !v.Date.Before(fyStart) && v.Date.Before(start)
		inPeriod := !v.Date.Before(start) && !v.Date.After(end)
		if !beforePeriod && !inPeriod {
			continue
		}
		for _, line := range v.Lines {
			if !line.IsInventory() || domain.NormalizeName(line.StockItemName) != key {
				continue
			}
			qty := math.Abs(line.ActualQty)
			switch {
			case beforePeriod && line.IsDeemedPositive:
				opening += qty
			case beforePeriod:
				opening -= qty
			case line.IsDeemedPositive:
				inward += qty
				inwardSeen[v.Key()] = struct{}{}
			default:
				outward += qty
				outwardSeen[v.Key()] = struct{}{}
			}
		}
	}

	opening = round3(opening)
	inward = round3(inward)
	outward = round3(outward)
	return domain.StockPeriod{
		Start:           start,
		End:             end,
		Opening:         opening,
		Inward:          inward,
		Outward:         outward,
		Closing:         round3(opening + inward - outward),
		InwardVouchers:  len(inwardSeen),
		OutwardVouchers: len(outwardSeen),
	}
}

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }

// StockLedgerService computes per-item inventory ledgers against the
// accumulated dataset.
type StockLedgerService struct {
	dataset      *DatasetService
	fyStartMonth time.Month
	logger       *slog.Logger
	now          func() time.Time
}

func NewStockLedgerService(dataset *DatasetService, fyStartMonth time.Month, logger *slog.Logger) *StockLedgerService {
	return &StockLedgerService{
		dataset:      dataset,
		fyStartMonth: fyStartMonth,
		logger:       logger,
		now:          time.Now,
	}
}

// fyStartFor returns the start of the fiscal year containing t.
func (s *StockLedgerService) fyStartFor(t time.Time) time.Time {
	return domain.FiscalYearStart(domain.FiscalYearOf(t, s.fyStartMonth), s.fyStartMonth)
}

// ItemPeriod computes one period for a named item.
func (s *StockLedgerService) ItemPeriod(name string, start, end time.Time) (domain.StockPeriod, error) {
	item, err := s.dataset.StockItem(name)
	if err != nil {
		return domain.StockPeriod{}, fmt.Errorf("item period: %w", err)
	}
	return ComputePeriod(item, s.dataset.Vouchers(), s.fyStartFor(start), start, end, s.now()), nil
}

// ItemInventories computes every item's movement for the current
// calendar month, sorted by item name.
func (s *StockLedgerService) ItemInventories() []domain.ItemInventory {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	vouchers := s.dataset.Vouchers()

	items := s.dataset.StockItems()
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	out := make([]domain.ItemInventory, 0, len(items))
	for _, item := range items {
		out = append(out, domain.ItemInventory{
			Name:   item.Name,
			Period: ComputePeriod(item, vouchers, s.fyStartFor(monthStart), monthStart, now, now),
		})
	}
	return out
}

// MonthlyHistory returns one period per calendar month for the last
// `months` months, anchored on the current date rather than a fiscal
// year. Each month is an independent replay.
func (s *StockLedgerService) MonthlyHistory(name string, months int) ([]domain.StockPeriod, error) {
	item, err := s.dataset.StockItem(name)
	if err != nil {
		return nil, fmt.Errorf("monthly history: %w", err)
	}
	if months < 1 {
		months = 12
	}
	now := s.now()
	vouchers := s.dataset.Vouchers()

	out := make([]domain.StockPeriod, 0, months)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		start := first.AddDate(0, i, 0)
		end := start.AddDate(0, 1, -1)
		out = append(out, ComputePeriod(item, vouchers, s.fyStartFor(start), start, end, now))
	}
	return out, nil
}

// AnnualSummary returns twelve monthly periods covering the given fiscal
// year, anchored on the fiscal-year window.
func (s *StockLedgerService) AnnualSummary(name string, fyYear int) ([]domain.StockPeriod, error) {
	item, err := s.dataset.StockItem(name)
	if err != nil {
		return nil, fmt.Errorf("annual summary: %w", err)
	}
	now := s.now()
	vouchers := s.dataset.Vouchers()
	fyStart := domain.FiscalYearStart(fyYear, s.fyStartMonth)

	out := make([]domain.StockPeriod, 0, 12)
	for i := 0; i < 12; i++ {
		start := fyStart.AddDate(0, i, 0)
		end := start.AddDate(0, 1, -1)
		out = append(out, ComputePeriod(item, vouchers, fyStart, start, end, now))
	}
	return out, nil
}

// ValidatePeriods recomputes the ledger identity for each period and
// reports advisory warnings: an identity mismatch beyond the 0.001
// tolerance, or a negative closing (valid data, flagged only).
func (s *StockLedgerService) ValidatePeriods(itemName string, periods []domain.StockPeriod) []domain.Warning {
	var warns []domain.Warning
	for _, p := range periods {
		expect := round3(p.Opening + p.Inward - p.Outward)
		if math.Abs(expect-p.Closing) > 0.001 {
			warns = append(warns, domain.Warning{
				Kind:   domain.WarnValidation,
				Source: itemName,
				Message: fmt.Sprintf("ledger identity mismatch for %s to %s: opening %.3f + inward %.3f - outward %.3f = %.3f, closing %.3f",
					p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"), p.Opening, p.Inward, p.Outward, expect, p.Closing),
			})
		}
		if p.Closing < 0 {
			warns = append(warns, domain.Warning{
				Kind:   domain.WarnValidation,
				Source: itemName,
				Message: fmt.Sprintf("negative closing %.3f for %s to %s",
					p.Closing, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02")),
			})
		}
	}
	if len(warns) > 0 && s.logger != nil {
		s.logger.Warn("stock ledger validation flagged periods", "item", itemName, "count", len(warns))
	}
	return warns
}
