// Package tallyxml parses sanitized accounting exports into a generic
// element tree. The export format is position- and repetition-sensitive,
// so the tree preserves document order for both attributes and children.
package tallyxml

import "strings"

// Node is one element of the parsed document tree.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Attr is a single attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// listTags is the set of tags that repeat meaningfully. List collapses
// repeats of any other tag to the first occurrence, which mirrors how the
// upstream format is consumed: repeated non-list tags are noise.
var listTags = map[string]struct{}{
	"TALLYMESSAGE":               {},
	"LEDGER":                     {},
	"STOCKITEM":                  {},
	"STOCKGROUP":                 {},
	"UNIT":                       {},
	"VOUCHER":                    {},
	"ALLLEDGERENTRIES.LIST":      {},
	"LEDGERENTRIES.LIST":         {},
	"ALLINVENTORYENTRIES.LIST":   {},
	"INVENTORYENTRIES.LIST":      {},
	"BILLALLOCATIONS.LIST":       {},
	"BATCHALLOCATIONS.LIST":      {},
	"ACCOUNTINGALLOCATIONS.LIST": {},
	"INVENTORYALLOCATIONS.LIST":  {},
	"LANGUAGENAME.LIST":          {},
	"NAME.LIST":                  {},
	"FULLPRICELIST.LIST":         {},
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value
		}
	}
	return ""
}

// Child returns the first direct child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed text of the first direct child with the
// given tag, or "".
func (n *Node) ChildText(tag string) string {
	if c := n.Child(tag); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// List returns the direct children with the given tag. For tags outside
// the known repeating set it returns at most the first match, even when
// the document repeats the tag.
func (n *Node) List(tag string) []*Node {
	var out []*Node
	_, repeats := listTags[tag]
	for _, c := range n.Children {
		if c.Tag != tag {
			continue
		}
		out = append(out, c)
		if !repeats {
			break
		}
	}
	return out
}

// Find returns the first descendant with the given tag, searching depth
// first in document order, or nil.
func (n *Node) Find(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
		if d := c.Find(tag); d != nil {
			return d
		}
	}
	return nil
}

// FindAll returns every descendant with the given tag in document order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	n.walk(tag, &out)
	return out
}

func (n *Node) walk(tag string, out *[]*Node) {
	for _, c := range n.Children {
		if c.Tag == tag {
			*out = append(*out, c)
		}
		c.walk(tag, out)
	}
}

// NameOf resolves an entity element's name. The export sometimes carries
// the name as a NAME attribute, sometimes as a NAME child, and sometimes
// buried inside a LANGUAGENAME.LIST block.
func NameOf(n *Node) string {
	if v := n.Attr("NAME"); v != "" {
		return strings.TrimSpace(v)
	}
	if v := n.ChildText("NAME"); v != "" {
		return v
	}
	for _, ln := range n.List("LANGUAGENAME.LIST") {
		for _, nl := range ln.List("NAME.LIST") {
			if v := nl.ChildText("NAME"); v != "" {
				return v
			}
		}
	}
	return ""
}
