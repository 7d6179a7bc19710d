package normalize

import (
	"strings"

	"github.com/skpatro/tallystock/internal/core/domain"
)

// Classification is ordered substring matching evaluated top to bottom.
// The ordering is load-bearing: downstream stock direction depends on the
// exact type a voucher resolves to, so the rule tables are under test and
// must not be reordered casually. In particular the generic SALES and
// PURCHASE rules sit above SALES ORDER and PURCHASE ORDER, so a name
// containing both resolves to the generic type.

type voucherTypeRule struct {
	substr string
	vtype  domain.VoucherType
}

var voucherTypeRules = []voucherTypeRule{
	{"CREDIT NOTE", domain.CreditNote},
	{"CREDITNOTE", domain.CreditNote},
	{"DEBIT NOTE", domain.DebitNote},
	{"DEBITNOTE", domain.DebitNote},
	{"REJECTION IN", domain.RejectionIn},
	{"REJECTION OUT", domain.RejectionOut},
	{"STOCK JOURNAL", domain.StockJournal},
	{"DELIVERY NOTE", domain.DeliveryNote},
	{"RECEIPT NOTE", domain.ReceiptNote},
	{"SALES", domain.Sales},
	{"PURCHASE", domain.Purchase},
	{"SALES ORDER", domain.SalesOrder},
	{"PURCHASE ORDER", domain.PurchaseOrder},
	{"RECEIPT", domain.Receipt},
	{"PAYMENT", domain.Payment},
	{"JOURNAL", domain.Journal},
	{"CONTRA", domain.Contra},
}

// ClassifyVoucherType canonicalizes a raw voucher type name.
func ClassifyVoucherType(raw string) domain.VoucherType {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	for _, r := range voucherTypeRules {
		if strings.Contains(upper, r.substr) {
			return r.vtype
		}
	}
	return domain.OtherVoucher
}

type taxRule struct {
	substr string
	ttype  domain.TaxType
}

// Generic TAX and GST come last: GST is a substring of CGST/SGST/IGST.
var taxRules = []taxRule{
	{"CGST", domain.TaxCGST},
	{"SGST", domain.TaxSGST},
	{"IGST", domain.TaxIGST},
	{"CESS", domain.TaxCess},
	{"TDS", domain.TaxTDS},
	{"TAX", domain.TaxOther},
	{"GST", domain.TaxOther},
}

// ClassifyTax inspects a ledger line name and reports whether it is a tax
// line and of what kind.
func ClassifyTax(ledgerName string) (domain.TaxType, bool) {
	upper := strings.ToUpper(ledgerName)
	for _, r := range taxRules {
		if strings.Contains(upper, r.substr) {
			return r.ttype, true
		}
	}
	return domain.TaxNone, false
}

// ParseBillType maps the exporter's bill allocation type strings onto the
// closed enumeration, defaulting to On Account.
func ParseBillType(raw string) domain.BillType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "NEW REF":
		return domain.BillNewRef
	case "AGST REF":
		return domain.BillAgstRef
	case "ADVANCE":
		return domain.BillAdvance
	default:
		return domain.BillOnAccount
	}
}
