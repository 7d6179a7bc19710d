package domain

import "time"

// StockPeriod is the computed movement of one item over a date range.
// The invariant Opening + Inward - Outward == Closing holds to within
// 0.001 after 3-decimal rounding. Negative closing is valid data.
type StockPeriod struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Opening float64   `json:"opening"`
	Inward  float64   `json:"inward"`
	Outward float64   `json:"outward"`
	Closing float64   `json:"closing"`

	// Distinct contributing voucher counts per direction, diagnostic only.
	InwardVouchers  int `json:"inwardVouchers"`
	OutwardVouchers int `json:"outwardVouchers"`
}

// ItemInventory pairs an item with its movement over one period.
type ItemInventory struct {
	Name   string      `json:"name"`
	Period StockPeriod `json:"period"`
}

// FiscalYearStart returns the first day of the fiscal year labelled by
// year, given the configured start month (e.g. April for Indian books).
func FiscalYearStart(year int, startMonth time.Month) time.Time {
	return time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
}

// FiscalYearOf returns the fiscal-year label containing t: the calendar
// year in which that fiscal year begins.
func FiscalYearOf(t time.Time, startMonth time.Month) int {
	if t.Month() < startMonth {
		return t.Year() - 1
	}
	return t.Year()
}
