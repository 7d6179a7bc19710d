// Package sanitize turns raw bytes exported by desktop accounting software
// into well-formed UTF-8 XML text. The exports are frequently UTF-16 with a
// BOM, carry numeric references to control characters, and contain bare
// ampersands in party names. Cleaning never fails; defects are recorded as
// warnings and processing continues.
package sanitize

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/skpatro/tallystock/internal/core/domain"
)

var (
	xmlDeclRe = regexp.MustCompile(`(?s)<\?xml.*?\?>`)

	// Numeric character references; the handler decides which to drop.
	charRefRe = regexp.MustCompile(`&#(x[0-9a-fA-F]+|[0-9]+);`)

	// Longest alternatives first so a well-formed entity is preferred over
	// the lone ampersand it starts with.
	ampRe = regexp.MustCompile(`&[a-zA-Z]+;|&#[0-9]+;|&#x[0-9a-fA-F]+;|&`)
)

// Clean decodes raw into UTF-8 and repairs the defects the upstream export
// is known for. It returns the cleaned document text and any warnings;
// it never returns an error.
func Clean(raw []byte, source string) (string, []domain.Warning) {
	var warnings []domain.Warning

	text, decodeWarn := decode(raw, source)
	if decodeWarn != nil {
		warnings = append(warnings, *decodeWarn)
	}

	// The declaration often names an encoding we just converted away from,
	// so it goes unconditionally.
	text = xmlDeclRe.ReplaceAllString(text, "")

	refsDropped := 0
	text = charRefRe.ReplaceAllStringFunc(text, func(ref string) string {
		if dropCharRef(ref) {
			refsDropped++
			return ""
		}
		return ref
	})

	ctrlDropped := 0
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\uFEFF' || (r < 0x20 && r != '\t' && r != '\n' && r != '\r') {
			ctrlDropped++
			continue
		}
		b.WriteRune(r)
	}
	text = b.String()

	ampsEscaped := 0
	text = ampRe.ReplaceAllStringFunc(text, func(m string) string {
		if m == "&" {
			ampsEscaped++
			return "&amp;"
		}
		return m
	})

	if n := refsDropped + ctrlDropped + ampsEscaped; n > 0 {
		warnings = append(warnings, domain.Warning{
			Kind:   domain.WarnCoercion,
			Source: source,
			Message: fmt.Sprintf("repaired %d defects (%d control refs, %d control chars, %d bare ampersands)",
				n, refsDropped, ctrlDropped, ampsEscaped),
		})
	}
	return text, warnings
}

// decode sniffs the byte-order mark and converts UTF-16 input to UTF-8.
// Input without a BOM is treated as UTF-8 as-is.
func decode(raw []byte, source string) (string, *domain.Warning) {
	var enc transform.Transformer
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		raw = raw[2:]
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		raw = raw[2:]
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:]), nil
	default:
		return string(raw), nil
	}

	out, _, err := transform.Bytes(enc, raw)
	if err != nil {
		// Decoders substitute U+FFFD rather than fail, but guard anyway.
		return string(raw), &domain.Warning{
			Kind:    domain.WarnCoercion,
			Source:  source,
			Message: "UTF-16 decode error: " + err.Error(),
		}
	}
	return string(out), nil
}

// dropCharRef reports whether a numeric character reference points at a
// control character that XML forbids. Tab, LF and CR stay.
func dropCharRef(ref string) bool {
	body := ref[2 : len(ref)-1]
	var n int64
	var err error
	if body[0] == 'x' {
		n, err = strconv.ParseInt(body[1:], 16, 32)
	} else {
		n, err = strconv.ParseInt(body, 10, 32)
	}
	if err != nil {
		return false
	}
	if n >= 1 && n <= 31 {
		return n != 9 && n != 10 && n != 13
	}
	return false
}
