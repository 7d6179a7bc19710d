package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/skpatro/tallystock/internal/core/domain"
	"github.com/skpatro/tallystock/internal/etl/tallyxml"
)

var ledgerEntryTags = []string{"ALLLEDGERENTRIES.LIST", "LEDGERENTRIES.LIST"}
var inventoryEntryTags = []string{"ALLINVENTORYENTRIES.LIST", "INVENTORYENTRIES.LIST"}

// parseVoucher normalizes one VOUCHER element. A voucher without a
// parseable date has no stable identity and is dropped with a warning.
func (p *parser) parseVoucher(el *tallyxml.Node) (domain.Voucher, bool) {
	number := attrOrChild(el, "VOUCHERNUMBER")
	typeRaw := attrOrChild(el, "VCHTYPE")
	if typeRaw == "" {
		typeRaw = el.ChildText("VOUCHERTYPENAME")
	}

	dateRaw := attrOrChild(el, "DATE")
	date, ok := ParseDate(dateRaw)
	if !ok {
		p.missing("VOUCHER "+number, "voucher dropped: unparseable date "+dateRaw)
		return domain.Voucher{}, false
	}

	v := domain.Voucher{
		Type:          ClassifyVoucherType(typeRaw),
		Number:        number,
		Date:          date,
		PartyName:     firstText(el, "PARTYNAME", "PARTYLEDGERNAME"),
		PartyGSTIN:    firstText(el, "PARTYGSTIN", "GSTREGISTRATIONNUMBER"),
		PlaceOfSupply: firstText(el, "PLACEOFSUPPLY", "STATENAME"),
		IRN:           el.ChildText("IRN"),
		Narration:     el.ChildText("NARRATION"),
		IsOptional:    ParseBool(attrOrChild(el, "ISOPTIONAL")),
		IsCancelled:   ParseBool(attrOrChild(el, "ISCANCELLED")),
		IsPostDated:   ParseBool(attrOrChild(el, "ISPOSTDATED")),
		IsVoid:        ParseBool(attrOrChild(el, "ISVOID")),
		IsDeleted:     ParseBool(attrOrChild(el, "ISDELETED")),
	}
	if eff, ok := ParseDate(el.ChildText("EFFECTIVEDATE")); ok {
		v.EffectiveDate = eff
	}

	for _, tag := range ledgerEntryTags {
		for _, entry := range el.List(tag) {
			v.Lines = append(v.Lines, p.parseLedgerLine(entry, number))
		}
	}
	for _, tag := range inventoryEntryTags {
		for _, entry := range el.List(tag) {
			if line, ok := p.parseInventoryLine(entry, number); ok {
				v.Lines = append(v.Lines, line)
			}
		}
	}

	v.Amount = voucherAmount(v.Lines)
	return v, true
}

func (p *parser) parseLedgerLine(entry *tallyxml.Node, voucherNo string) domain.VoucherLine {
	name := entry.ChildText("LEDGERNAME")
	taxType, isTax := ClassifyTax(name)

	line := domain.VoucherLine{
		LedgerName:       name,
		IsDeemedPositive: ParseBool(entry.ChildText("ISDEEMEDPOSITIVE")),
		IsPartyLedger:    ParseBool(entry.ChildText("ISPARTYLEDGER")),
		IsTaxLine:        isTax,
		TaxType:          taxType,
	}
	if raw := entry.ChildText("AMOUNT"); raw != "" {
		amt, ok := ParseAmount(raw)
		if !ok {
			p.coerced("VOUCHER "+voucherNo, "unparseable ledger amount "+raw)
		}
		line.Amount = amt
	}

	for _, alloc := range entry.List("BILLALLOCATIONS.LIST") {
		ref := alloc.ChildText("NAME")
		if ref == "" {
			continue
		}
		ba := domain.BillAllocation{
			BillRef: ref,
			Type:    ParseBillType(alloc.ChildText("BILLTYPE")),
		}
		if amt, ok := ParseAmount(alloc.ChildText("AMOUNT")); ok {
			ba.Amount = amt.Abs()
		}
		if due, ok := ParseDate(alloc.ChildText("BILLDATE")); ok {
			ba.DueDate = due
		}
		line.BillAllocations = append(line.BillAllocations, ba)
	}
	return line
}

func (p *parser) parseInventoryLine(entry *tallyxml.Node, voucherNo string) (domain.VoucherLine, bool) {
	item := entry.ChildText("STOCKITEMNAME")
	if item == "" {
		// Empty inventory placeholders occur in real exports.
		return domain.VoucherLine{}, false
	}

	line := domain.VoucherLine{
		StockItemName:    item,
		IsDeemedPositive: ParseBool(entry.ChildText("ISDEEMEDPOSITIVE")),
	}

	if raw := entry.ChildText("AMOUNT"); raw != "" {
		amt, ok := ParseAmount(raw)
		if !ok {
			p.coerced("VOUCHER "+voucherNo, "unparseable inventory amount "+raw)
		}
		line.Amount = amt.Abs()
	}

	qtyRaw := firstText(entry, "ACTUALQTY", "BILLEDQTY")
	qty, unit, ok := ParseQty(qtyRaw)
	if !ok && qtyRaw != "" {
		p.coerced("VOUCHER "+voucherNo, "unparseable quantity "+qtyRaw+" for "+item)
	}
	line.ActualQty = qty
	if billed, _, ok := ParseQty(entry.ChildText("BILLEDQTY")); ok {
		line.BilledQty = billed
	} else {
		line.BilledQty = qty
	}

	line.Unit = entry.ChildText("UNIT")
	if line.Unit == "" {
		line.Unit = unit
	}
	line.Unit = CanonicalUnit(line.Unit)

	if rate, ok := ParseRate(entry.ChildText("RATE")); ok {
		line.Rate = rate
	}
	return line, true
}

// voucherAmount is the absolute party-ledger amount when a party line
// exists, else the sum of absolute inventory-line amounts.
func voucherAmount(lines []domain.VoucherLine) decimal.Decimal {
	for _, l := range lines {
		if l.IsPartyLedger {
			return l.Amount.Abs()
		}
	}
	total := decimal.Zero
	for _, l := range lines {
		if l.IsInventory() {
			total = total.Add(l.Amount.Abs())
		}
	}
	return total
}

// attrOrChild reads a value that the exporter places either as an
// attribute or a child element depending on export settings.
func attrOrChild(el *tallyxml.Node, name string) string {
	if v := el.Attr(name); v != "" {
		return v
	}
	return el.ChildText(name)
}
