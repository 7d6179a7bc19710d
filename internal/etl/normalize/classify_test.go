package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skpatro/tallystock/internal/core/domain"
)

func TestClassifyVoucherType(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.VoucherType
	}{
		{"Sales", domain.Sales},
		{"GST SALES", domain.Sales},
		{"Purchase", domain.Purchase},
		{"Credit Note", domain.CreditNote},
		{"CREDITNOTE", domain.CreditNote},
		{"Debit Note", domain.DebitNote},
		{"Rejection In", domain.RejectionIn},
		{"Rejection Out", domain.RejectionOut},
		{"Stock Journal", domain.StockJournal},
		{"Delivery Note", domain.DeliveryNote},
		{"Receipt Note", domain.ReceiptNote},
		{"Receipt", domain.Receipt},
		{"Payment", domain.Payment},
		{"Journal", domain.Journal},
		{"Contra", domain.Contra},
		{"Payroll", domain.OtherVoucher},
		{"", domain.OtherVoucher},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyVoucherType(tc.raw), tc.raw)
	}
}

// The generic rules are deliberately evaluated before the order-specific
// ones, so an order type name resolves to the generic type. Downstream
// direction logic depends on this exact precedence.
func TestClassifyVoucherTypeOrderPrecedence(t *testing.T) {
	assert.Equal(t, domain.Sales, ClassifyVoucherType("Sales Order"))
	assert.Equal(t, domain.Purchase, ClassifyVoucherType("Purchase Order"))
}

func TestClassifyTax(t *testing.T) {
	tests := []struct {
		name  string
		want  domain.TaxType
		isTax bool
	}{
		{"CGST @ 9%", domain.TaxCGST, true},
		{"SGST Output", domain.TaxSGST, true},
		{"IGST 18%", domain.TaxIGST, true},
		{"Compensation Cess", domain.TaxCess, true},
		{"TDS Payable", domain.TaxTDS, true},
		{"Service Tax", domain.TaxOther, true},
		{"GST Round Off", domain.TaxOther, true},
		{"Acme Traders", domain.TaxNone, false},
	}
	for _, tc := range tests {
		got, isTax := ClassifyTax(tc.name)
		assert.Equal(t, tc.want, got, tc.name)
		assert.Equal(t, tc.isTax, isTax, tc.name)
	}
}

func TestParseBillType(t *testing.T) {
	assert.Equal(t, domain.BillNewRef, ParseBillType("New Ref"))
	assert.Equal(t, domain.BillAgstRef, ParseBillType("AGST REF"))
	assert.Equal(t, domain.BillAdvance, ParseBillType("Advance"))
	assert.Equal(t, domain.BillOnAccount, ParseBillType("On Account"))
	assert.Equal(t, domain.BillOnAccount, ParseBillType("whatever"))
}
