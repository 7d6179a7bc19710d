package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skpatro/tallystock/internal/core/domain"
)

// ListVouchersQuery filters the voucher listing. Dates are YYYYMMDD and
// the party filter is a case-insensitive substring match.
type ListVouchersQuery struct {
	Type   string `form:"type"`
	From   string `form:"from" binding:"omitempty,tallydate"`
	To     string `form:"to" binding:"omitempty,tallydate"`
	Party  string `form:"party"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=1000"`
	Offset int    `form:"offset" binding:"omitempty,gte=0"`
}

// VoucherSummaryResponse is the list-view projection of a voucher.
type VoucherSummaryResponse struct {
	Key       string             `json:"key"`
	Type      domain.VoucherType `json:"type"`
	Number    string             `json:"number"`
	Date      time.Time          `json:"date"`
	PartyName string             `json:"partyName,omitempty"`
	Amount    decimal.Decimal    `json:"amount"`
	LineCount int                `json:"lineCount"`
	Effective bool               `json:"effective"`
}

// ToVoucherSummaryResponse converts a domain.Voucher to its list projection.
func ToVoucherSummaryResponse(v *domain.Voucher, now time.Time) VoucherSummaryResponse {
	return VoucherSummaryResponse{
		Key:       v.Key(),
		Type:      v.Type,
		Number:    v.Number,
		Date:      v.Date,
		PartyName: v.PartyName,
		Amount:    v.Amount,
		LineCount: len(v.Lines),
		Effective: v.IsEffective(now),
	}
}

// ToListVoucherSummaryResponse converts a slice of vouchers to list projections.
func ToListVoucherSummaryResponse(vouchers []domain.Voucher, now time.Time) []VoucherSummaryResponse {
	res := make([]VoucherSummaryResponse, len(vouchers))
	for i := range vouchers {
		res[i] = ToVoucherSummaryResponse(&vouchers[i], now)
	}
	return res
}
