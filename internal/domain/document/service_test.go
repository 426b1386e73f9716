package document

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"docgen-service-go/internal/pkg/assets"
	"docgen-service-go/internal/pkg/statistics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc     *ServiceImpl
	out     string
	history *statistics.MemoryStore
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	root := t.TempDir()
	letterheads := filepath.Join(root, "letterheads")
	require.NoError(t, os.MkdirAll(letterheads, 0o755))
	writeLetterhead(t, letterheads, "gofar_media.png")

	out := filepath.Join(root, "generated_docs")
	history := statistics.NewMemoryStore(10)
	svc := NewService(ServiceConfig{
		Options: Options{
			OutputDir: out,
			Companies: []string{"GoFar Media", "Glory Enterprises"},
		},
		Assets:  assets.NewResolver(letterheads, nil),
		History: history,
		Now:     func() time.Time { return time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC) },
	})
	return serviceFixture{svc: svc, out: out, history: history}
}

func TestGenerate_Invoice(t *testing.T) {
	f := newServiceFixture(t)

	res, err := f.svc.Generate(context.Background(), &Request{
		Company:      "GoFar Media",
		DocumentType: TypeInvoice,
		Data:         validInvoice(),
	})
	require.NoError(t, err)

	assert.Equal(t, "GoFar_Media_Invoice_20260301_101500.pdf", res.FileName)
	assert.Regexp(t, regexp.MustCompile(`^GoFar_Media_Invoice_\d{8}_\d{6}\.pdf$`), res.FileName)
	assert.Equal(t, filepath.Join(f.out, res.FileName), res.Path)

	written, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.PDF, written)
	assert.Equal(t, int64(len(written)), res.Size)
	assert.Equal(t, "%PDF", string(written[:4]))

	history, err := f.history.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, res.FileName, history[0].FileName)
}

func TestGenerate_DoesNotMutateRequest(t *testing.T) {
	f := newServiceFixture(t)
	req := &Request{Company: "GoFar Media", DocumentType: TypeInvoice, Data: validInvoice()}

	_, err := f.svc.Generate(context.Background(), req)
	require.NoError(t, err)
	_, ok := req.Data.Header[fieldInvoiceMonth]
	assert.False(t, ok)
}

func TestGenerate_FailsBeforeAnyFile(t *testing.T) {
	missingColumn := validInvoice()
	delete(missingColumn.LineItems[0], "Duration")

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown type", Request{Company: "GoFar Media", DocumentType: "Quotation", Data: validInvoice()}, ErrUnknownDocumentType},
		{"unknown company", Request{Company: "Nobody Ltd", DocumentType: TypeInvoice, Data: validInvoice()}, ErrUnknownCompany},
		{"invalid row", Request{Company: "GoFar Media", DocumentType: TypeInvoice, Data: missingColumn}, ErrValidation},
		{"no letterhead", Request{Company: "Glory Enterprises", DocumentType: TypeInvoice, Data: validInvoice()}, assets.ErrLetterheadNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture(t)

			res, err := f.svc.Generate(context.Background(), &tc.req)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.want)

			_, statErr := os.Stat(f.out)
			assert.True(t, os.IsNotExist(statErr), "output directory must not be created")

			history, herr := f.history.History(context.Background(), 0)
			require.NoError(t, herr)
			require.Len(t, history, 1)
			assert.False(t, history[0].Success)
		})
	}
}

func TestGenerate_LetterheadErrorNamesExpectedFiles(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Generate(context.Background(), &Request{
		Company: "Glory Enterprises", DocumentType: TypeInvoice, Data: validInvoice(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glory_enterprises.png")
}

func TestService_Listings(t *testing.T) {
	f := newServiceFixture(t)
	assert.Equal(t, []string{"GoFar Media", "Glory Enterprises"}, f.svc.Companies())
	assert.Len(t, f.svc.Templates(), 4)
}
