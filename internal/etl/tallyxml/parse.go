package tallyxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/skpatro/tallystock/internal/apperrors"
)

// Parse builds the element tree for a sanitized document. Malformed XML is
// a fatal parse failure for the file: the error wraps
// apperrors.ErrFatalParse and carries the decoder's position detail.
func Parse(text string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Entity = xml.HTMLEntity

	root := &Node{Tag: ""}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", apperrors.ErrFatalParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].Text += string(t)
		}
	}

	if len(root.Children) == 0 {
		return nil, fmt.Errorf("%w: document has no root element", apperrors.ErrFatalParse)
	}
	return root.Children[0], nil
}
