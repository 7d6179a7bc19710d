package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType is the closed set of canonical transaction types.
type VoucherType string

const (
	Sales         VoucherType = "Sales"
	Purchase      VoucherType = "Purchase"
	Receipt       VoucherType = "Receipt"
	Payment       VoucherType = "Payment"
	Journal       VoucherType = "Journal"
	Contra        VoucherType = "Contra"
	DebitNote     VoucherType = "Debit Note"
	CreditNote    VoucherType = "Credit Note"
	SalesOrder    VoucherType = "Sales Order"
	PurchaseOrder VoucherType = "Purchase Order"
	DeliveryNote  VoucherType = "Delivery Note"
	ReceiptNote   VoucherType = "Receipt Note"
	RejectionIn   VoucherType = "Rejection In"
	RejectionOut  VoucherType = "Rejection Out"
	StockJournal  VoucherType = "Stock Journal"
	OtherVoucher  VoucherType = "Other"
)

// VoucherTypes returns the canonical voucher types in stable order.
func VoucherTypes() []VoucherType {
	return []VoucherType{
		Sales, Purchase, Receipt, Payment, Journal, Contra,
		DebitNote, CreditNote, SalesOrder, PurchaseOrder,
		DeliveryNote, ReceiptNote, RejectionIn, RejectionOut,
		StockJournal, OtherVoucher,
	}
}

// TaxType classifies a tax ledger line.
type TaxType string

const (
	TaxCGST  TaxType = "CGST"
	TaxSGST  TaxType = "SGST"
	TaxIGST  TaxType = "IGST"
	TaxCess  TaxType = "Cess"
	TaxTDS   TaxType = "TDS"
	TaxOther TaxType = "Tax"
	TaxNone  TaxType = ""
)

// BillType classifies a bill allocation against an invoice reference.
type BillType string

const (
	BillNewRef    BillType = "New Ref"
	BillAgstRef   BillType = "Agst Ref"
	BillAdvance   BillType = "Advance"
	BillOnAccount BillType = "On Account"
)

// BillAllocation is a sub-allocation of a financial line's amount against a
// specific invoice reference.
type BillAllocation struct {
	BillRef string          `json:"billRef"`
	Type    BillType        `json:"type"`
	Amount  decimal.Decimal `json:"amount"` // stored as absolute value
	DueDate time.Time       `json:"dueDate,omitempty"`
}

// VoucherLine is a single line within a voucher. Exactly one of LedgerName
// (financial line) or StockItemName (inventory line) is set.
//
// IsDeemedPositive is the authoritative direction flag: true means
// debit/inward, false means credit/outward. The signed Amount from the
// source must never be used alone to infer direction.
type VoucherLine struct {
	LedgerName    string `json:"ledgerName,omitempty"`
	StockItemName string `json:"stockItemName,omitempty"`

	IsDeemedPositive bool            `json:"isDeemedPositive"`
	Amount           decimal.Decimal `json:"amount"`

	// Inventory line fields. ActualQty is authoritative for stock math.
	ActualQty float64         `json:"actualQty,omitempty"`
	BilledQty float64         `json:"billedQty,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	Rate      decimal.Decimal `json:"rate,omitempty"`

	// Financial line fields.
	IsTaxLine       bool             `json:"isTaxLine,omitempty"`
	TaxType         TaxType          `json:"taxType,omitempty"`
	IsPartyLedger   bool             `json:"isPartyLedger,omitempty"`
	BillAllocations []BillAllocation `json:"billAllocations,omitempty"`
}

// IsInventory reports whether the line moves stock.
func (l VoucherLine) IsInventory() bool { return l.StockItemName != "" }

// Voucher is a single transaction entry. Its identity is the composite
// {type}|{number}|{date}; there is no surrogate key, which keeps the
// identity stable across re-imports of the same underlying data.
type Voucher struct {
	Type          VoucherType     `json:"type"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	EffectiveDate time.Time       `json:"effectiveDate,omitempty"`
	PartyName     string          `json:"partyName,omitempty"`
	PartyGSTIN    string          `json:"partyGSTIN,omitempty"`
	PlaceOfSupply string          `json:"placeOfSupply,omitempty"`
	IRN           string          `json:"irn,omitempty"`
	Narration     string          `json:"narration,omitempty"`
	Amount        decimal.Decimal `json:"amount"`

	IsOptional  bool `json:"isOptional,omitempty"` // pending order, never affects stock
	IsCancelled bool `json:"isCancelled,omitempty"`
	IsPostDated bool `json:"isPostDated,omitempty"`
	IsVoid      bool `json:"isVoid,omitempty"`
	IsDeleted   bool `json:"isDeleted,omitempty"`

	Lines []VoucherLine `json:"lines,omitempty"`
}

// Key returns the composite identity used for merge-by-identity dedup.
func (v Voucher) Key() string {
	return fmt.Sprintf("%s|%s|%s", v.Type, v.Number, v.Date.Format("20060102"))
}

// IsEffective reports whether the voucher moves stock as of now: pending
// orders, cancelled, void and deleted vouchers never do, and post-dated
// vouchers only once their date has been reached.
func (v Voucher) IsEffective(now time.Time) bool {
	if v.IsOptional || v.IsCancelled || v.IsVoid || v.IsDeleted {
		return false
	}
	if v.IsPostDated && v.Date.After(now) {
		return false
	}
	return true
}
