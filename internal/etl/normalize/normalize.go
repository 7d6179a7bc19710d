// Package normalize converts parsed element trees into canonical domain
// entities. Field extraction follows fallback chains (attribute form,
// direct child, list-wrapped form); coercion failures degrade to safe
// defaults with a recorded warning rather than aborting the document.
package normalize

import (
	"strings"

	"github.com/skpatro/tallystock/internal/core/domain"
	"github.com/skpatro/tallystock/internal/etl/tallyxml"
)

type parser struct {
	source string
	fy     int
	batch  *domain.ParsedBatch
}

// Batch normalizes a parsed document into a ParsedBatch. fy tags master
// opening balances with the fiscal year they are anchored to.
func Batch(root *tallyxml.Node, source string, fy int) *domain.ParsedBatch {
	p := &parser{source: source, fy: fy, batch: domain.NewParsedBatch(source)}

	msgs := root.FindAll("TALLYMESSAGE")
	if len(msgs) == 0 {
		msgs = []*tallyxml.Node{root}
	}
	for _, msg := range msgs {
		p.message(msg)
	}

	// Exports without a COMPANY master still identify the books in the
	// request header.
	if p.batch.Company == nil {
		if sv := root.Find("SVCURRENTCOMPANY"); sv != nil {
			c := &domain.Company{Name: strings.TrimSpace(sv.Text)}
			if g := root.Find("CMPGSTIN"); g != nil {
				c.GSTIN = strings.TrimSpace(g.Text)
			}
			if c.Name != "" {
				p.batch.Company = c
			}
		}
	}

	p.batch.FileType = classifyFileType(p.batch)
	return p.batch
}

func (p *parser) message(msg *tallyxml.Node) {
	if el := msg.Child("COMPANY"); el != nil {
		if c := parseCompany(el); c != nil {
			p.batch.Company = c
		}
	}
	for _, el := range msg.List("UNIT") {
		if u, ok := p.parseUnit(el); ok {
			p.batch.Units[domain.NormalizeName(u.Symbol)] = u
		}
	}
	for _, el := range msg.List("LEDGER") {
		if l, ok := p.parseLedger(el); ok {
			p.batch.Ledgers[l.Key()] = l
		}
	}
	for _, el := range msg.List("STOCKITEM") {
		if s, ok := p.parseStockItem(el); ok {
			p.batch.StockItems[s.Key()] = s
		}
	}
	for _, el := range msg.List("VOUCHER") {
		if v, ok := p.parseVoucher(el); ok {
			p.batch.Vouchers = append(p.batch.Vouchers, v)
		}
	}
}

func classifyFileType(b *domain.ParsedBatch) domain.FileType {
	hasMasters := b.Company != nil || len(b.Ledgers) > 0 || len(b.StockItems) > 0 || len(b.Units) > 0
	hasVouchers := len(b.Vouchers) > 0
	switch {
	case hasMasters && hasVouchers:
		return domain.FileMixed
	case hasMasters:
		return domain.FileMaster
	case hasVouchers:
		return domain.FileTransaction
	default:
		return domain.FileUnknown
	}
}

func (p *parser) missing(entity, msg string) {
	p.batch.Warnings = append(p.batch.Warnings, domain.Warning{
		Kind:    domain.WarnMissingField,
		Source:  p.source,
		Message: entity + ": " + msg,
	})
}

func (p *parser) coerced(entity, msg string) {
	p.batch.Warnings = append(p.batch.Warnings, domain.Warning{
		Kind:    domain.WarnCoercion,
		Source:  p.source,
		Message: entity + ": " + msg,
	})
}

// num reads a numeric child, defaulting to 0 with a warning on garbage.
func (p *parser) num(el *tallyxml.Node, tag, entity string) float64 {
	raw := el.ChildText(tag)
	if raw == "" {
		return 0
	}
	f, ok := ParseNum(raw)
	if !ok {
		p.coerced(entity, "unparseable "+tag+" value "+raw)
	}
	return f
}
