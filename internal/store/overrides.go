// Package store holds the file-backed collaborator stores: user-edited
// master overrides and the parse cache. Both are JSON on local disk;
// neither is part of the core pipeline.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/skpatro/tallystock/internal/apperrors"
)

// MasterOverride is a user correction for one item. All fields are
// optional; nil means "no override for this field". Stored values take
// precedence over source-derived values wherever package factors or
// reporting consult them.
type MasterOverride struct {
	BaseUnit     *string  `json:"baseUnit,omitempty"`
	PkgFactor    *float64 `json:"pkgFactor,omitempty"`
	Group        *string  `json:"group,omitempty"`
	HSNCode      *string  `json:"hsnCode,omitempty"`
	GSTRate      *float64 `json:"gstRate,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	LastModified string   `json:"lastModified,omitempty"`
}

// IsEmpty reports whether no field carries an override.
func (o MasterOverride) IsEmpty() bool {
	return o.BaseUnit == nil && o.PkgFactor == nil && o.Group == nil &&
		o.HSNCode == nil && o.GSTRate == nil && o.Notes == nil
}

// OverrideStore persists item overrides as a single JSON file keyed by
// item name. Writes are whole-file rewrites guarded by a mutex.
type OverrideStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	now    func() time.Time
}

func NewOverrideStore(path string, logger *slog.Logger) *OverrideStore {
	return &OverrideStore{path: path, logger: logger, now: time.Now}
}

func (s *OverrideStore) load() (map[string]MasterOverride, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]MasterOverride{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read overrides file: %w", err)
	}
	out := map[string]MasterOverride{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode overrides file: %w", err)
	}
	return out, nil
}

func (s *OverrideStore) save(data map[string]MasterOverride) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create overrides dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write overrides file: %w", err)
	}
	return nil
}

// All returns every stored override keyed by item name.
func (s *OverrideStore) All() (map[string]MasterOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the override for one item; a missing item yields an empty
// override, not an error.
func (s *OverrideStore) Get(itemName string) (MasterOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return MasterOverride{}, err
	}
	return data[itemName], nil
}

// Set merges the non-nil fields of update into the stored override for
// the item and persists the file.
func (s *OverrideStore) Set(itemName string, update MasterOverride) (MasterOverride, error) {
	if update.IsEmpty() {
		return MasterOverride{}, fmt.Errorf("no override fields provided: %w", apperrors.ErrValidation)
	}
	if update.PkgFactor != nil && *update.PkgFactor <= 0 {
		return MasterOverride{}, fmt.Errorf("pkgFactor must be > 0: %w", apperrors.ErrValidation)
	}
	if update.GSTRate != nil && (*update.GSTRate < 0 || *update.GSTRate > 100) {
		return MasterOverride{}, fmt.Errorf("gstRate must be between 0 and 100: %w", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return MasterOverride{}, err
	}

	merged := data[itemName]
	if update.BaseUnit != nil {
		merged.BaseUnit = update.BaseUnit
	}
	if update.PkgFactor != nil {
		merged.PkgFactor = update.PkgFactor
	}
	if update.Group != nil {
		merged.Group = update.Group
	}
	if update.HSNCode != nil {
		merged.HSNCode = update.HSNCode
	}
	if update.GSTRate != nil {
		merged.GSTRate = update.GSTRate
	}
	if update.Notes != nil {
		merged.Notes = update.Notes
	}
	merged.LastModified = s.now().UTC().Format(time.RFC3339)

	data[itemName] = merged
	if err := s.save(data); err != nil {
		return MasterOverride{}, err
	}
	s.logger.Info("saved master override", "item", itemName)
	return merged, nil
}

// Delete removes the override for one item.
func (s *OverrideStore) Delete(itemName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[itemName]; !ok {
		return fmt.Errorf("override for %q: %w", itemName, apperrors.ErrNotFound)
	}
	delete(data, itemName)
	return s.save(data)
}

// Clear removes every stored override and returns how many were removed.
func (s *OverrideStore) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return 0, err
	}
	n := len(data)
	if err := s.save(map[string]MasterOverride{}); err != nil {
		return 0, err
	}
	s.logger.Warn("cleared all master overrides", "count", n)
	return n, nil
}
