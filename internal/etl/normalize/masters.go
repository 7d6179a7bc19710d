package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/skpatro/tallystock/internal/core/domain"
	"github.com/skpatro/tallystock/internal/etl/tallyxml"
)

func parseCompany(el *tallyxml.Node) *domain.Company {
	name := tallyxml.NameOf(el)
	if name == "" {
		name = el.ChildText("BASICCOMPANYNAME")
	}
	if name == "" {
		return nil
	}
	return &domain.Company{
		Name:    name,
		GSTIN:   firstText(el, "GSTIN", "GSTREGISTRATIONNUMBER"),
		Address: el.ChildText("ADDRESS"),
		State:   firstText(el, "BASICCOMPANYSTATE", "STATENAME"),
		Pincode: el.ChildText("PINCODE"),
		Email:   el.ChildText("EMAIL"),
		Phone:   el.ChildText("PHONE"),
	}
}

func (p *parser) parseUnit(el *tallyxml.Node) (domain.Unit, bool) {
	name := tallyxml.NameOf(el)
	if name == "" {
		p.missing("UNIT", "unit has no resolvable name")
		return domain.Unit{}, false
	}
	u := domain.Unit{
		Symbol:     CanonicalUnit(name),
		FormalName: el.ChildText("FORMALNAME"),
		IsSimple:   true,
	}
	if el.Child("ISSIMPLEUNIT") != nil {
		u.IsSimple = ParseBool(el.ChildText("ISSIMPLEUNIT"))
	}
	if !u.IsSimple {
		u.BaseUnit = CanonicalUnit(el.ChildText("BASEUNITS"))
		u.AdditionalUnit = CanonicalUnit(el.ChildText("ADDITIONALUNITS"))
		u.Conversion = p.num(el, "CONVERSION", "unit "+name)
	}
	return u, true
}

func (p *parser) parseLedger(el *tallyxml.Node) (domain.Ledger, bool) {
	name := tallyxml.NameOf(el)
	if name == "" {
		p.missing("LEDGER", "ledger has no resolvable name")
		return domain.Ledger{}, false
	}

	// The opening balance sometimes arrives "9 PC" style; take the number.
	opening := decimal.Zero
	if raw := el.ChildText("OPENINGBALANCE"); raw != "" {
		if qty, _, ok := ParseQty(raw); ok {
			opening = decimal.NewFromFloat(qty)
		} else {
			p.coerced("LEDGER "+name, "unparseable opening balance "+raw)
		}
	}

	return domain.Ledger{
		Name:             name,
		ParentGroup:      el.ChildText("PARENT"),
		OpeningBalance:   opening,
		MailingName:      el.ChildText("MAILINGNAME"),
		GSTIN:            firstText(el, "PARTYGSTIN", "GSTIN"),
		Email:            el.ChildText("EMAIL"),
		Phone:            el.ChildText("LEDPHONE"),
		Address:          el.ChildText("ADDRESS"),
		State:            el.ChildText("STATENAME"),
		Pincode:          el.ChildText("PINCODE"),
		CreditPeriodDays: ParseDays(el.ChildText("BILLCREDITPERIOD")),
	}, true
}

func (p *parser) parseStockItem(el *tallyxml.Node) (domain.StockItem, bool) {
	name := tallyxml.NameOf(el)
	if name == "" {
		p.missing("STOCKITEM", "stock item has no resolvable name")
		return domain.StockItem{}, false
	}

	item := domain.StockItem{
		Name:        name,
		ParentGroup: StripHSNSuffix(el.ChildText("PARENT")),
		BaseUnit:    "PCS",
		HSNCode:     firstText(el, "HSNCODE", "HSN"),
		OpeningFY:   p.fy,
	}

	if raw := firstText(el, "BASEUNITS", "UNITS"); raw != "" {
		item.BaseUnit = CanonicalUnit(raw)
	}
	if raw := el.ChildText("ADDITIONALUNITS"); raw != "" {
		item.AlternateUnit = CanonicalUnit(raw)
		item.Conversion = p.num(el, "CONVERSION", "stock item "+name)
	}

	if raw := firstText(el, "TAXRATE", "GSTRATE"); raw != "" {
		if rate, ok := ParseNum(raw); ok {
			item.GSTRate = rate
		} else {
			p.coerced("STOCKITEM "+name, "unparseable GST rate "+raw)
		}
	}

	// Opening quantity is "9 PC" style; opening value may carry the credit
	// sign, which is meaningless for valuation and dropped.
	if raw := el.ChildText("OPENINGBALANCE"); raw != "" {
		if qty, _, ok := ParseQty(raw); ok {
			item.OpeningQty = qty
		} else {
			p.coerced("STOCKITEM "+name, "unparseable opening quantity "+raw)
		}
	}
	if raw := el.ChildText("OPENINGVALUE"); raw != "" {
		if v, ok := ParseAmount(raw); ok {
			item.OpeningValue = v.Abs()
		} else {
			p.coerced("STOCKITEM "+name, "unparseable opening value "+raw)
		}
	}
	if raw := el.ChildText("OPENINGRATE"); raw != "" {
		if r, ok := ParseRate(raw); ok {
			item.OpeningRate = r
		}
	}
	return item, true
}

// firstText walks a fallback chain of child tags, first non-empty wins.
func firstText(el *tallyxml.Node, tags ...string) string {
	for _, tag := range tags {
		if v := el.ChildText(tag); v != "" {
			return v
		}
	}
	return ""
}
