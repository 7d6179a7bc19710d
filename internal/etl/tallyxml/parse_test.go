package tallyxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skpatro/tallystock/internal/apperrors"
)

func TestParseBuildsTree(t *testing.T) {
	root, err := Parse(`<ENVELOPE><BODY><DATA><TALLYMESSAGE><LEDGER NAME="Acme"><PARENT>Sundry Debtors</PARENT></LEDGER></TALLYMESSAGE></DATA></BODY></ENVELOPE>`)

	require.NoError(t, err)
	assert.Equal(t, "ENVELOPE", root.Tag)

	led := root.Find("LEDGER")
	require.NotNil(t, led)
	assert.Equal(t, "Acme", led.Attr("NAME"))
	assert.Equal(t, "Sundry Debtors", led.ChildText("PARENT"))
}

func TestParseMalformedIsFatal(t *testing.T) {
	_, err := Parse(`<ENVELOPE><BODY></ENVELOPE>`)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFatalParse)
}

func TestParseEmptyIsFatal(t *testing.T) {
	_, err := Parse("   ")

	assert.ErrorIs(t, err, apperrors.ErrFatalParse)
}

func TestListRepeatsOnlyKnownTags(t *testing.T) {
	root, err := Parse(`<V>
		<ALLINVENTORYENTRIES.LIST><STOCKITEMNAME>A</STOCKITEMNAME></ALLINVENTORYENTRIES.LIST>
		<ALLINVENTORYENTRIES.LIST><STOCKITEMNAME>B</STOCKITEMNAME></ALLINVENTORYENTRIES.LIST>
		<NARRATION>first</NARRATION>
		<NARRATION>second</NARRATION>
	</V>`)
	require.NoError(t, err)

	assert.Len(t, root.List("ALLINVENTORYENTRIES.LIST"), 2)

	// Repeated non-list tags collapse to the first occurrence.
	narr := root.List("NARRATION")
	require.Len(t, narr, 1)
	assert.Equal(t, "first", narr[0].Text)
}

func TestFindAllDocumentOrder(t *testing.T) {
	root, err := Parse(`<E><M><VOUCHER VCHTYPE="Sales"/></M><M><VOUCHER VCHTYPE="Receipt"/></M></E>`)
	require.NoError(t, err)

	all := root.FindAll("VOUCHER")
	require.Len(t, all, 2)
	assert.Equal(t, "Sales", all[0].Attr("VCHTYPE"))
	assert.Equal(t, "Receipt", all[1].Attr("VCHTYPE"))
}

func TestNameOfFallbackChain(t *testing.T) {
	byAttr, err := Parse(`<LEDGER NAME="Acme"/>`)
	require.NoError(t, err)
	assert.Equal(t, "Acme", NameOf(byAttr))

	byChild, err := Parse(`<LEDGER><NAME> Beta Corp </NAME></LEDGER>`)
	require.NoError(t, err)
	assert.Equal(t, "Beta Corp", NameOf(byChild))

	byLang, err := Parse(`<STOCKITEM><LANGUAGENAME.LIST><NAME.LIST><NAME>Gamma</NAME></NAME.LIST></LANGUAGENAME.LIST></STOCKITEM>`)
	require.NoError(t, err)
	assert.Equal(t, "Gamma", NameOf(byLang))
}

func TestChildMissingReturnsNil(t *testing.T) {
	root, err := Parse(`<A><B>x</B></A>`)
	require.NoError(t, err)

	assert.Nil(t, root.Child("C"))
	assert.Equal(t, "", root.ChildText("C"))
}
