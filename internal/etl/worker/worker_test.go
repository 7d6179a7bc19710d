package worker

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skpatro/tallystock/internal/apperrors"
	"github.com/skpatro/tallystock/internal/core/domain"
)

func await(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker result")
		return Result{}
	}
}

func TestSubmitProcessesDocument(t *testing.T) {
	p := New(slog.Default())
	defer p.Close()

	doc := `<ENVELOPE><TALLYMESSAGE><VOUCHER VCHTYPE="Sales" VOUCHERNUMBER="INV-1" DATE="20240510"></VOUCHER></TALLYMESSAGE></ENVELOPE>`
	r := await(t, p.Submit(Request{ID: "t.xml", FileName: "t.xml", Raw: []byte(doc), FY: 2024}))

	require.NoError(t, r.Err)
	assert.Equal(t, "t.xml", r.ID)
	require.NotNil(t, r.Batch)
	assert.Len(t, r.Batch.Vouchers, 1)
	assert.Equal(t, domain.FileTransaction, r.Batch.FileType)
}

func TestSubmitMalformedDocument(t *testing.T) {
	p := New(slog.Default())
	defer p.Close()

	r := await(t, p.Submit(Request{ID: "bad", FileName: "bad.xml", Raw: []byte("<A><B></A>"), FY: 2024}))

	require.Error(t, r.Err)
	assert.ErrorIs(t, r.Err, apperrors.ErrFatalParse)
	assert.Nil(t, r.Batch)
}

func TestSubmitSequentialRequests(t *testing.T) {
	p := New(slog.Default())
	defer p.Close()

	doc := `<E><TALLYMESSAGE><LEDGER NAME="Acme"/></TALLYMESSAGE></E>`
	for i := 0; i < 5; i++ {
		r := await(t, p.Submit(Request{ID: "m", FileName: "m.xml", Raw: []byte(doc), FY: 2024}))
		require.NoError(t, r.Err)
		assert.Len(t, r.Batch.Ledgers, 1)
	}
}
