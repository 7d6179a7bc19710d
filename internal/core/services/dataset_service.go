package services

import (
	"fmt"
	"sync"

	"github.com/skpatro/tallystock/internal/apperrors"
	"github.com/skpatro/tallystock/internal/core/domain"
)

// MergeStats summarizes what one batch contributed to the dataset.
type MergeStats struct {
	NewVouchers       int `json:"newVouchers"`
	DuplicateVouchers int `json:"duplicateVouchers"`
	MastersUpserted   int `json:"mastersUpserted"`
}

// DatasetService owns the accumulated in-memory dataset built up from
// successive imports. All mutation goes through Merge and Clear; there is
// no other writer. Masters merge later-wins by normalized name, vouchers
// merge first-seen-wins by composite identity, so re-importing unchanged
// data is a no-op.
type DatasetService struct {
	mu sync.RWMutex

	company    *domain.Company
	ledgers    map[string]domain.Ledger
	stockItems map[string]domain.StockItem
	units      map[string]domain.Unit

	vouchers     map[string]domain.Voucher
	voucherOrder []string

	sources  map[string]struct{}
	warnings []domain.Warning
}

func NewDatasetService() *DatasetService {
	s := &DatasetService{}
	s.reset()
	return s
}

func (s *DatasetService) reset() {
	s.company = nil
	s.ledgers = make(map[string]domain.Ledger)
	s.stockItems = make(map[string]domain.StockItem)
	s.units = make(map[string]domain.Unit)
	s.vouchers = make(map[string]domain.Voucher)
	s.voucherOrder = nil
	s.sources = make(map[string]struct{})
	s.warnings = nil
}

// Merge folds a normalized batch into the dataset.
func (s *DatasetService) Merge(batch *domain.ParsedBatch) MergeStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats MergeStats
	if batch.Company != nil {
		s.company = batch.Company
	}
	for k, v := range batch.Ledgers {
		s.ledgers[k] = v
		stats.MastersUpserted++
	}
	for k, v := range batch.StockItems {
		s.stockItems[k] = v
		stats.MastersUpserted++
	}
	for k, v := range batch.Units {
		s.units[k] = v
		stats.MastersUpserted++
	}

	for _, v := range batch.Vouchers {
		key := v.Key()
		if _, seen := s.vouchers[key]; seen {
			stats.DuplicateVouchers++
			continue
		}
		s.vouchers[key] = v
		s.voucherOrder = append(s.voucherOrder, key)
		stats.NewVouchers++
	}

	for _, src := range batch.SourceFiles {
		s.sources[src] = struct{}{}
	}
	s.warnings = append(s.warnings, batch.Warnings...)
	return stats
}

// Clear resets the dataset to empty.
func (s *DatasetService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *DatasetService) Company() *domain.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.company
}

// Vouchers returns all vouchers in first-seen order.
func (s *DatasetService) Vouchers() []domain.Voucher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Voucher, 0, len(s.voucherOrder))
	for _, key := range s.voucherOrder {
		out = append(out, s.vouchers[key])
	}
	return out
}

// Voucher looks up one voucher by its composite identity key.
func (s *DatasetService) Voucher(key string) (domain.Voucher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vouchers[key]
	if !ok {
		return domain.Voucher{}, fmt.Errorf("voucher %q: %w", key, apperrors.ErrNotFound)
	}
	return v, nil
}

func (s *DatasetService) Ledgers() []domain.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Ledger, 0, len(s.ledgers))
	for _, l := range s.ledgers {
		out = append(out, l)
	}
	return out
}

func (s *DatasetService) Ledger(name string) (domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.ledgers[domain.NormalizeName(name)]
	if !ok {
		return domain.Ledger{}, fmt.Errorf("ledger %q: %w", name, apperrors.ErrNotFound)
	}
	return l, nil
}

func (s *DatasetService) StockItems() []domain.StockItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StockItem, 0, len(s.stockItems))
	for _, it := range s.stockItems {
		out = append(out, it)
	}
	return out
}

func (s *DatasetService) StockItem(name string) (domain.StockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.stockItems[domain.NormalizeName(name)]
	if !ok {
		return domain.StockItem{}, fmt.Errorf("stock item %q: %w", name, apperrors.ErrNotFound)
	}
	return it, nil
}

func (s *DatasetService) Units() []domain.Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Unit, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, u)
	}
	return out
}

func (s *DatasetService) Unit(symbol string) (domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.units[domain.NormalizeName(symbol)]
	if !ok {
		return domain.Unit{}, fmt.Errorf("unit %q: %w", symbol, apperrors.ErrNotFound)
	}
	return u, nil
}

// SourceFiles returns the deduplicated set of imported file names.
func (s *DatasetService) SourceFiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sources))
	for src := range s.sources {
		out = append(out, src)
	}
	return out
}

func (s *DatasetService) Warnings() []domain.Warning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}
