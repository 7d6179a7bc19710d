package domain

import "github.com/shopspring/decimal"

// Company identifies the books a file was exported from.
type Company struct {
	Name    string `json:"name"`
	GSTIN   string `json:"gstin,omitempty"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Unit is a unit-of-measure master. Compound units express one AdditionalUnit
// as Conversion times the BaseUnit (additional = conversion x base).
type Unit struct {
	Symbol         string  `json:"symbol"`
	FormalName     string  `json:"formalName,omitempty"`
	IsSimple       bool    `json:"isSimple"`
	BaseUnit       string  `json:"baseUnit,omitempty"`
	AdditionalUnit string  `json:"additionalUnit,omitempty"`
	Conversion     float64 `json:"conversion,omitempty"`
}

// Ledger is a financial ledger master. OpeningBalance is signed, positive
// meaning debit.
type Ledger struct {
	Name             string          `json:"name"`
	ParentGroup      string          `json:"parentGroup,omitempty"`
	OpeningBalance   decimal.Decimal `json:"openingBalance"`
	MailingName      string          `json:"mailingName,omitempty"`
	GSTIN            string          `json:"gstin,omitempty"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Address          string          `json:"address,omitempty"`
	State            string          `json:"state,omitempty"`
	Pincode          string          `json:"pincode,omitempty"`
	CreditPeriodDays int             `json:"creditPeriodDays,omitempty"`
}

// Key returns the normalized lookup key for the ledger.
func (l Ledger) Key() string { return NormalizeName(l.Name) }

// StockItem is an inventory item master. ParentGroup has any trailing
// parenthetical HSN suffix stripped. AlternateUnit, when present, is a
// package unit equal to Conversion base units.
type StockItem struct {
	Name          string          `json:"name"`
	ParentGroup   string          `json:"parentGroup,omitempty"`
	BaseUnit      string          `json:"baseUnit"`
	AlternateUnit string          `json:"alternateUnit,omitempty"`
	Conversion    float64         `json:"conversion,omitempty"`
	HSNCode       string          `json:"hsnCode,omitempty"`
	GSTRate       float64         `json:"gstRate,omitempty"`
	OpeningQty    float64         `json:"openingQty"`
	OpeningValue  decimal.Decimal `json:"openingValue"`
	OpeningRate   decimal.Decimal `json:"openingRate"`
	OpeningFY     int             `json:"openingFY,omitempty"` // fiscal year the opening quantity is anchored to
}

// Key returns the normalized lookup key for the stock item.
func (s StockItem) Key() string { return NormalizeName(s.Name) }
