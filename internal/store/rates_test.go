package store

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skpatro/tallystock/internal/apperrors"
)

func newTestRateStore(t *testing.T) *RateStore {
	t.Helper()
	dir := t.TempDir()
	s := NewRateStore(filepath.Join(dir, "rates.json"), filepath.Join(dir, "rate_log.json"), slog.Default())
	s.now = func() time.Time { return time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestRateSetMergesNonNilFields(t *testing.T) {
	s := newTestRateStore(t)

	_, _, err := s.Set("BELL CROWN MINI", RateOverride{PkgRate: f64Ptr(240)})
	require.NoError(t, err)

	merged, warns, err := s.Set("BELL CROWN MINI", RateOverride{UnitRate: f64Ptr(20)})
	require.NoError(t, err)
	assert.Empty(t, warns)

	require.NotNil(t, merged.PkgRate)
	assert.Equal(t, 240.0, *merged.PkgRate, "earlier field survives partial update")
	require.NotNil(t, merged.UnitRate)
	assert.Equal(t, 20.0, *merged.UnitRate)
	assert.NotEmpty(t, merged.LastModified)
}

func TestRateSetValidation(t *testing.T) {
	s := newTestRateStore(t)

	_, _, err := s.Set("X", RateOverride{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = s.Set("X", RateOverride{PkgRate: f64Ptr(-5)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = s.Set("X", RateOverride{UnitRate: f64Ptr(-0.01)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Zero is a legitimate rate, not a validation error.
	_, _, err = s.Set("X", RateOverride{UnitRate: f64Ptr(0)})
	assert.NoError(t, err)
}

func TestRateSetWarnsOnLargeChange(t *testing.T) {
	s := newTestRateStore(t)

	_, warns, err := s.Set("ITEM", RateOverride{UnitRate: f64Ptr(100)})
	require.NoError(t, err)
	assert.Empty(t, warns, "first rate has nothing to compare against")

	_, warns, err = s.Set("ITEM", RateOverride{UnitRate: f64Ptr(125)})
	require.NoError(t, err)
	assert.Empty(t, warns, "25% move stays under the threshold")

	merged, warns, err := s.Set("ITEM", RateOverride{UnitRate: f64Ptr(200)})
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "unitRate")

	// The flagged change still saves.
	require.NotNil(t, merged.UnitRate)
	assert.Equal(t, 200.0, *merged.UnitRate)
}

func TestRateChangeLogNewestFirst(t *testing.T) {
	s := newTestRateStore(t)

	_, _, err := s.Set("A", RateOverride{UnitRate: f64Ptr(10)})
	require.NoError(t, err)
	_, _, err = s.Set("A", RateOverride{PkgRate: f64Ptr(120), UnitRate: f64Ptr(11)})
	require.NoError(t, err)

	changes, err := s.Changes(0)
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, "unitRate", changes[0].Field)
	assert.Equal(t, 11.0, changes[0].NewValue)
	require.NotNil(t, changes[0].OldValue)
	assert.Equal(t, 10.0, *changes[0].OldValue)

	assert.Equal(t, "pkgRate", changes[1].Field)
	assert.Nil(t, changes[1].OldValue, "first edit of a field has no prior value")

	assert.Equal(t, "unitRate", changes[2].Field)
	assert.Equal(t, 10.0, changes[2].NewValue)

	limited, err := s.Changes(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 11.0, limited[0].NewValue)
}

func TestRateDeleteRevertsToSource(t *testing.T) {
	s := newTestRateStore(t)

	_, _, err := s.Set("ITEM", RateOverride{UnitRate: f64Ptr(50)})
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.EffectiveUnitRate("ITEM", 42))

	require.NoError(t, s.Delete("ITEM"))
	assert.Equal(t, 42.0, s.EffectiveUnitRate("ITEM", 42))

	assert.ErrorIs(t, s.Delete("ITEM"), apperrors.ErrNotFound)
}

func TestRateEffectivePrecedence(t *testing.T) {
	s := newTestRateStore(t)

	assert.Equal(t, 7.5, s.EffectiveUnitRate("NOPE", 7.5))
	assert.Equal(t, 90.0, s.EffectivePkgRate("NOPE", 90))

	_, _, err := s.Set("ITEM", RateOverride{PkgRate: f64Ptr(100)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.EffectivePkgRate("ITEM", 90))
	assert.Equal(t, 7.5, s.EffectiveUnitRate("ITEM", 7.5), "unset field falls back to the source rate")
}

func TestRatePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ratesPath := filepath.Join(dir, "rates.json")
	logPath := filepath.Join(dir, "rate_log.json")

	s1 := NewRateStore(ratesPath, logPath, slog.Default())
	_, _, err := s1.Set("ITEM", RateOverride{PkgRate: f64Ptr(300)})
	require.NoError(t, err)

	s2 := NewRateStore(ratesPath, logPath, slog.Default())
	ov, err := s2.Get("ITEM")
	require.NoError(t, err)
	require.NotNil(t, ov.PkgRate)
	assert.Equal(t, 300.0, *ov.PkgRate)

	changes, err := s2.Changes(0)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "ITEM", changes[0].Item)
}
