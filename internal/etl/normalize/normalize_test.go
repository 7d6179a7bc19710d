package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skpatro/tallystock/internal/core/domain"
	"github.com/skpatro/tallystock/internal/etl/tallyxml"
)

func parse(t *testing.T, doc string) *tallyxml.Node {
	t.Helper()
	root, err := tallyxml.Parse(doc)
	require.NoError(t, err)
	return root
}

const masterDoc = `<ENVELOPE><BODY><IMPORTDATA><REQUESTDATA>
<TALLYMESSAGE>
  <COMPANY NAME="ACME HARDWARE"><GSTIN>27AAAAA0000A1Z5</GSTIN><STATENAME>Maharashtra</STATENAME></COMPANY>
  <UNIT NAME="Pc"><FORMALNAME>Pieces</FORMALNAME><ISSIMPLEUNIT>Yes</ISSIMPLEUNIT></UNIT>
  <UNIT NAME="Box"><ISSIMPLEUNIT>No</ISSIMPLEUNIT><BASEUNITS>Pc</BASEUNITS><ADDITIONALUNITS>Box</ADDITIONALUNITS><CONVERSION>12</CONVERSION></UNIT>
  <LEDGER NAME="Acme Traders">
    <PARENT>Sundry Debtors</PARENT>
    <OPENINGBALANCE>1500.50</OPENINGBALANCE>
    <PARTYGSTIN>27BBBBB0000B1Z5</PARTYGSTIN>
    <BILLCREDITPERIOD>30 Days</BILLCREDITPERIOD>
  </LEDGER>
  <STOCKITEM NAME="Bell Crown Mini">
    <PARENT>FASTENERS (7318)</PARENT>
    <BASEUNITS>Pc</BASEUNITS>
    <HSNCODE>73181500</HSNCODE>
    <GSTRATE>18</GSTRATE>
    <OPENINGBALANCE>9 PC</OPENINGBALANCE>
    <OPENINGVALUE>-4500.00</OPENINGVALUE>
    <OPENINGRATE>500.00/PC</OPENINGRATE>
  </STOCKITEM>
</TALLYMESSAGE>
</REQUESTDATA></IMPORTDATA></BODY></ENVELOPE>`

func TestBatchMasters(t *testing.T) {
	b := Batch(parse(t, masterDoc), "Master.xml", 2024)

	require.NotNil(t, b.Company)
	assert.Equal(t, "ACME HARDWARE", b.Company.Name)
	assert.Equal(t, domain.FileMaster, b.FileType)

	unit, ok := b.Units["PCS"]
	require.True(t, ok, "PC normalizes to PCS")
	assert.True(t, unit.IsSimple)

	box, ok := b.Units["BOX"]
	require.True(t, ok)
	assert.False(t, box.IsSimple)
	assert.Equal(t, "PCS", box.BaseUnit)
	assert.Equal(t, 12.0, box.Conversion)

	led, ok := b.Ledgers["ACME TRADERS"]
	require.True(t, ok)
	assert.Equal(t, "Sundry Debtors", led.ParentGroup)
	assert.Equal(t, "1500.5", led.OpeningBalance.String())
	assert.Equal(t, 30, led.CreditPeriodDays)

	item, ok := b.StockItems["BELL CROWN MINI"]
	require.True(t, ok)
	assert.Equal(t, "FASTENERS", item.ParentGroup, "HSN suffix stripped")
	assert.Equal(t, "PCS", item.BaseUnit)
	assert.Equal(t, 9.0, item.OpeningQty)
	assert.Equal(t, "4500", item.OpeningValue.String(), "credit sign dropped")
	assert.Equal(t, "500", item.OpeningRate.String())
	assert.Equal(t, 2024, item.OpeningFY)
	assert.Empty(t, b.Warnings)
}

const voucherDoc = `<ENVELOPE><BODY><IMPORTDATA><REQUESTDATA>
<TALLYMESSAGE>
<VOUCHER VCHTYPE="Sales" VOUCHERNUMBER="INV-42" DATE="20240510">
  <PARTYNAME>Acme Traders</PARTYNAME>
  <NARRATION>May invoice</NARRATION>
  <ALLLEDGERENTRIES.LIST>
    <LEDGERNAME>Acme Traders</LEDGERNAME>
    <ISDEEMEDPOSITIVE>Yes</ISDEEMEDPOSITIVE>
    <ISPARTYLEDGER>Yes</ISPARTYLEDGER>
    <AMOUNT>-11800.00</AMOUNT>
    <BILLALLOCATIONS.LIST>
      <NAME>INV-42</NAME>
      <BILLTYPE>New Ref</BILLTYPE>
      <AMOUNT>-11800.00</AMOUNT>
    </BILLALLOCATIONS.LIST>
  </ALLLEDGERENTRIES.LIST>
  <ALLLEDGERENTRIES.LIST>
    <LEDGERNAME>CGST Output</LEDGERNAME>
    <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
    <AMOUNT>900.00</AMOUNT>
  </ALLLEDGERENTRIES.LIST>
  <ALLINVENTORYENTRIES.LIST>
    <STOCKITEMNAME>Bell Crown Mini</STOCKITEMNAME>
    <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
    <RATE>500.00/PC</RATE>
    <AMOUNT>10000.00</AMOUNT>
    <ACTUALQTY>20 PC</ACTUALQTY>
    <BILLEDQTY>20 PC</BILLEDQTY>
  </ALLINVENTORYENTRIES.LIST>
</VOUCHER>
</TALLYMESSAGE>
<TALLYMESSAGE>
<VOUCHER VCHTYPE="Receipt" VOUCHERNUMBER="RCP-7" DATE="bad-date"></VOUCHER>
</TALLYMESSAGE>
</REQUESTDATA></IMPORTDATA></BODY></ENVELOPE>`

func TestBatchVouchers(t *testing.T) {
	b := Batch(parse(t, voucherDoc), "Transactions.xml", 2024)

	assert.Equal(t, domain.FileTransaction, b.FileType)
	require.Len(t, b.Vouchers, 1, "voucher with bad date is dropped")

	v := b.Vouchers[0]
	assert.Equal(t, domain.Sales, v.Type)
	assert.Equal(t, "INV-42", v.Number)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), v.Date)
	assert.Equal(t, "Sales|INV-42|20240510", v.Key())
	assert.Equal(t, "11800", v.Amount.String(), "party line wins over inventory sum")
	require.Len(t, v.Lines, 3)

	party := v.Lines[0]
	assert.True(t, party.IsPartyLedger)
	assert.True(t, party.IsDeemedPositive)
	require.Len(t, party.BillAllocations, 1)
	assert.Equal(t, domain.BillNewRef, party.BillAllocations[0].Type)
	assert.Equal(t, "11800", party.BillAllocations[0].Amount.String(), "allocation amount stored absolute")

	tax := v.Lines[1]
	assert.True(t, tax.IsTaxLine)
	assert.Equal(t, domain.TaxCGST, tax.TaxType)

	inv := v.Lines[2]
	assert.True(t, inv.IsInventory())
	assert.False(t, inv.IsDeemedPositive, "sales moves stock out")
	assert.Equal(t, 20.0, inv.ActualQty)
	assert.Equal(t, "PCS", inv.Unit)
	assert.Equal(t, "500", inv.Rate.String())

	require.Len(t, b.Warnings, 1)
	assert.Equal(t, domain.WarnMissingField, b.Warnings[0].Kind)
	assert.Contains(t, b.Warnings[0].Message, "RCP-7")
}

func TestBatchCompanyFallbackFromHeader(t *testing.T) {
	doc := `<ENVELOPE><BODY><DESC><STATICVARIABLES>
		<SVCURRENTCOMPANY>Beta Industries</SVCURRENTCOMPANY>
		<CMPGSTIN>27CCCCC0000C1Z5</CMPGSTIN>
	</STATICVARIABLES></DESC><IMPORTDATA><REQUESTDATA>
	<TALLYMESSAGE><VOUCHER VCHTYPE="Payment" VOUCHERNUMBER="P-1" DATE="20240401"></VOUCHER></TALLYMESSAGE>
	</REQUESTDATA></IMPORTDATA></BODY></ENVELOPE>`

	b := Batch(parse(t, doc), "t.xml", 2024)

	require.NotNil(t, b.Company)
	assert.Equal(t, "Beta Industries", b.Company.Name)
	assert.Equal(t, "27CCCCC0000C1Z5", b.Company.GSTIN)
	assert.Equal(t, domain.FileMixed, b.FileType)
}

func TestBatchVoucherFlags(t *testing.T) {
	doc := `<E><TALLYMESSAGE>
	<VOUCHER VCHTYPE="Sales Order" VOUCHERNUMBER="SO-1" DATE="20240601">
		<ISOPTIONAL>Yes</ISOPTIONAL>
	</VOUCHER>
	<VOUCHER VCHTYPE="Sales" VOUCHERNUMBER="INV-9" DATE="20240601">
		<ISCANCELLED>Yes</ISCANCELLED>
	</VOUCHER>
	</TALLYMESSAGE></E>`

	b := Batch(parse(t, doc), "t.xml", 2024)

	require.Len(t, b.Vouchers, 2)
	assert.True(t, b.Vouchers[0].IsOptional)
	assert.Equal(t, domain.Sales, b.Vouchers[0].Type, "order name resolves to generic type")
	assert.True(t, b.Vouchers[1].IsCancelled)
}

func TestBatchMasterMissingNameDropped(t *testing.T) {
	doc := `<E><TALLYMESSAGE><LEDGER><PARENT>Sundry Debtors</PARENT></LEDGER></TALLYMESSAGE></E>`

	b := Batch(parse(t, doc), "t.xml", 2024)

	assert.Empty(t, b.Ledgers)
	require.Len(t, b.Warnings, 1)
	assert.Equal(t, domain.WarnMissingField, b.Warnings[0].Kind)
}
