// Package pkgunit converts stock quantities between base units and
// package units and reconciles externally sourced item names against the
// canonical master names.
package pkgunit

import (
	"math"
	"strconv"
)

// Mode selects which unit a quantity is displayed or entered in.
type Mode string

const (
	ModeBase    Mode = "BASE"
	ModePackage Mode = "PACKAGE"
)

// Config describes an item's package relationship: one package unit
// equals UnitsPerPkg base units.
type Config struct {
	BaseUnit    string  `json:"baseUnit"`
	PkgUnit     string  `json:"pkgUnit"`
	UnitsPerPkg float64 `json:"unitsPerPkg"`
}

// FormatQty renders a base-unit quantity for display. Package mode with a
// positive conversion factor divides and rounds to 2 decimals; anything
// else falls back to the base quantity rounded to 2 decimals.
func FormatQty(baseQty float64, cfg Config, mode Mode) string {
	if mode == ModePackage && cfg.UnitsPerPkg > 0 {
		return trim2(baseQty/cfg.UnitsPerPkg) + " " + cfg.PkgUnit
	}
	unit := cfg.BaseUnit
	if unit == "" {
		unit = "PCS"
	}
	return trim2(baseQty) + " " + unit
}

// ToBase converts a user-entered display quantity back to base units; it
// is the exact inverse of FormatQty and must be applied before persisting
// any user-entered quantity.
func ToBase(displayQty float64, cfg Config, mode Mode) float64 {
	if mode == ModePackage && cfg.UnitsPerPkg > 0 {
		return displayQty * cfg.UnitsPerPkg
	}
	return displayQty
}

func trim2(x float64) string {
	return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64)
}
