package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/skpatro/tallystock/internal/apperrors"
)

// RateOverride is a user-corrected price for one item: per-package and/or
// per-base-unit. Nil means "no override for this field". Stored rates
// always take precedence over source-derived rates.
type RateOverride struct {
	PkgRate      *float64 `json:"pkgRate,omitempty"`
	UnitRate     *float64 `json:"unitRate,omitempty"`
	LastModified string   `json:"lastModified,omitempty"`
}

// IsEmpty reports whether no rate is carried.
func (r RateOverride) IsEmpty() bool {
	return r.PkgRate == nil && r.UnitRate == nil
}

// RateChange is one audit entry recording an individual rate edit.
type RateChange struct {
	Item      string   `json:"item"`
	Field     string   `json:"field"` // "pkgRate" | "unitRate"
	OldValue  *float64 `json:"oldValue,omitempty"`
	NewValue  float64  `json:"newValue"`
	Timestamp string   `json:"timestamp"`
}

// rateChangeThreshold: a save that moves a rate by more than this
// fraction of its previous value gets an advisory warning. The save
// still happens.
const rateChangeThreshold = 0.30

// rateLogCap bounds the audit log to a rolling window.
const rateLogCap = 1000

// RateStore persists item rate overrides and their audit log as two JSON
// files. Writes are whole-file rewrites guarded by a mutex.
type RateStore struct {
	mu      sync.Mutex
	path    string
	logPath string
	logger  *slog.Logger
	now     func() time.Time
}

func NewRateStore(path, logPath string, logger *slog.Logger) *RateStore {
	return &RateStore{path: path, logPath: logPath, logger: logger, now: time.Now}
}

func (s *RateStore) load() (map[string]RateOverride, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]RateOverride{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}
	out := map[string]RateOverride{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode rates file: %w", err)
	}
	return out, nil
}

func (s *RateStore) save(data map[string]RateOverride) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create rates dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write rates file: %w", err)
	}
	return nil
}

func (s *RateStore) loadLog() ([]RateChange, error) {
	raw, err := os.ReadFile(s.logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rate log: %w", err)
	}
	var out []RateChange
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode rate log: %w", err)
	}
	return out, nil
}

func (s *RateStore) appendLog(entries []RateChange) error {
	log, err := s.loadLog()
	if err != nil {
		return err
	}
	log = append(log, entries...)
	if len(log) > rateLogCap {
		log = log[len(log)-rateLogCap:]
	}
	raw, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rate log: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.logPath), 0o755); err != nil {
		return fmt.Errorf("create rate log dir: %w", err)
	}
	if err := os.WriteFile(s.logPath, raw, 0o644); err != nil {
		return fmt.Errorf("write rate log: %w", err)
	}
	return nil
}

// All returns every stored rate override keyed by item name.
func (s *RateStore) All() (map[string]RateOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the rate override for one item; a missing item yields an
// empty override, not an error.
func (s *RateStore) Get(itemName string) (RateOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return RateOverride{}, err
	}
	return data[itemName], nil
}

// Set merges the non-nil rates of update into the stored override,
// appends one audit entry per changed field, and returns advisory
// warnings for changes beyond the threshold. Zero is a valid rate;
// negative rates are rejected.
func (s *RateStore) Set(itemName string, update RateOverride) (RateOverride, []string, error) {
	if update.IsEmpty() {
		return RateOverride{}, nil, fmt.Errorf("no rate fields provided: %w", apperrors.ErrValidation)
	}
	if update.PkgRate != nil && *update.PkgRate < 0 {
		return RateOverride{}, nil, fmt.Errorf("pkgRate cannot be negative: %w", apperrors.ErrValidation)
	}
	if update.UnitRate != nil && *update.UnitRate < 0 {
		return RateOverride{}, nil, fmt.Errorf("unitRate cannot be negative: %w", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return RateOverride{}, nil, err
	}

	merged := data[itemName]
	ts := s.now().UTC().Format(time.RFC3339)

	var warnings []string
	var changes []RateChange
	apply := func(field string, old **float64, val *float64) {
		if val == nil {
			return
		}
		if *old != nil && **old > 0 {
			pct := math.Abs(*val-**old) / **old
			if pct > rateChangeThreshold {
				warnings = append(warnings, fmt.Sprintf("%s changed by %.1f%% (threshold is %.0f%%)",
					field, pct*100, rateChangeThreshold*100))
			}
		}
		changes = append(changes, RateChange{
			Item:      itemName,
			Field:     field,
			OldValue:  *old,
			NewValue:  *val,
			Timestamp: ts,
		})
		*old = val
	}
	apply("pkgRate", &merged.PkgRate, update.PkgRate)
	apply("unitRate", &merged.UnitRate, update.UnitRate)
	merged.LastModified = ts

	data[itemName] = merged
	if err := s.save(data); err != nil {
		return RateOverride{}, nil, err
	}
	if err := s.appendLog(changes); err != nil {
		// The override is already saved; a lost audit entry is logged,
		// not fatal.
		s.logger.Warn("rate change log write failed", "item", itemName, "error", err)
	}
	s.logger.Info("saved rate override", "item", itemName, "warnings", len(warnings))
	return merged, warnings, nil
}

// Delete removes the rate override for one item, reverting it to the
// source-derived rate.
func (s *RateStore) Delete(itemName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[itemName]; !ok {
		return fmt.Errorf("rate override for %q: %w", itemName, apperrors.ErrNotFound)
	}
	delete(data, itemName)
	return s.save(data)
}

// Changes returns the most recent audit entries, newest first.
func (s *RateStore) Changes(limit int) ([]RateChange, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	log, err := s.loadLog()
	if err != nil {
		return nil, err
	}
	n := len(log)
	if limit < n {
		n = limit
	}
	out := make([]RateChange, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, log[len(log)-1-i])
	}
	return out, nil
}

// EffectiveUnitRate returns the per-unit rate for an item: the stored
// override when present, else the source-derived rate.
func (s *RateStore) EffectiveUnitRate(itemName string, sourceRate float64) float64 {
	ov, err := s.Get(itemName)
	if err != nil || ov.UnitRate == nil {
		return sourceRate
	}
	return *ov.UnitRate
}

// EffectivePkgRate returns the per-package rate for an item: the stored
// override when present, else the source-derived rate.
func (s *RateStore) EffectivePkgRate(itemName string, sourceRate float64) float64 {
	ov, err := s.Get(itemName)
	if err != nil || ov.PkgRate == nil {
		return sourceRate
	}
	return *ov.PkgRate
}
