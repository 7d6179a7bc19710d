package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Coercion helpers for the loosely-typed field text the exporter emits.
// They default rather than fail: unparseable numerics become zero and
// unparseable dates become absent, with the caller recording a warning.

var (
	qtyRe       = regexp.MustCompile(`^([+-]?\s*[\d.,]+)\s*([A-Za-z].*)?$`)
	hsnSuffixRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	digitsRe    = regexp.MustCompile(`^\d{8}$`)
	leadIntRe   = regexp.MustCompile(`^\s*(\d+)`)
)

// ParseNum parses a plain numeric field, tolerating thousands separators.
func ParseNum(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseAmount parses a money field into a decimal.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseQty parses quantity strings like "10 PC", " 20 PC", "5.5 KGS",
// returning the numeric part and any trailing unit label.
func ParseQty(raw string) (float64, string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "", false
	}
	m := qtyRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, "", false
	}
	numStr := strings.NewReplacer(",", "", " ", "").Replace(m[1])
	f, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, "", false
	}
	return f, strings.TrimSpace(m[2]), true
}

// ParseRate parses rate strings like "1066.96/PC" or "100", dropping the
// unit qualifier after the slash.
func ParseRate(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	return ParseAmount(raw)
}

// ParseBool treats only a case-insensitive exact "yes" as true.
func ParseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "yes")
}

// ParseDate accepts exactly eight digits as YYYYMMDD with month 1-12 and
// day 1-31; anything else is absent.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if !digitsRe.MatchString(raw) {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(raw[:4])
	month, _ := strconv.Atoi(raw[4:6])
	day, _ := strconv.Atoi(raw[6:8])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// ParseDays extracts the leading integer from credit-period strings like
// "30 Days".
func ParseDays(raw string) int {
	m := leadIntRe.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// StripHSNSuffix removes a trailing parenthetical suffix from a stock
// group name, e.g. "FASTENERS (7318)" becomes "FASTENERS".
func StripHSNSuffix(name string) string {
	return strings.TrimSpace(hsnSuffixRe.ReplaceAllString(name, ""))
}

// unitAliases folds the exporter's unit spellings to one canonical symbol.
var unitAliases = map[string]string{
	"PC":   "PCS",
	"NOS":  "PCS",
	"NO":   "PCS",
	"UNIT": "PCS",
	"U":    "PCS",
	"KGS":  "KG",
	"MTRS": "MTR",
	"M":    "MTR",
}

// CanonicalUnit normalizes a unit symbol (PC and NOS both mean PCS).
func CanonicalUnit(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if canon, ok := unitAliases[upper]; ok {
		return canon
	}
	return upper
}
