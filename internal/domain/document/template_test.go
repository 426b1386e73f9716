package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoice() Data {
	return Data{
		Header: map[string]string{
			"M/s":        "Acme Traders",
			"Campaign":   "Spring Launch",
			"Date":       "2026-03-01",
			"Invoice No": "INV-001",
		},
		LineItems: []map[string]string{
			{
				"Description":         "Billboard, Main Boulevard",
				"Campaign Start Date": "2026-03-01",
				"Campaign End Date":   "2026-03-31",
				"Size":                "20x10",
				"Duration":            "1 month",
				"Amount":              "150,000",
			},
			{
				"Description":         "Streamer set",
				"Campaign Start Date": "2026-03-05",
				"Campaign End Date":   "2026-03-20",
				"Size":                "6x3",
				"Duration":            "15 days",
				"Amount":              "25000.50",
			},
		},
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{TypeInvoice, TypeSalarySlip, TypeRequestLetter, TypeSalesTaxInvoice}, r.Types())

	tpl, err := r.Lookup("Invoice")
	require.NoError(t, err)
	assert.Equal(t, invoiceColumns, tpl.LineItemColumns())

	_, err = r.Lookup("Purchase Order")
	assert.ErrorIs(t, err, ErrUnknownDocumentType)
	assert.Contains(t, err.Error(), "Sales Tax Invoice")

	infos := r.Describe()
	require.Len(t, infos, 4)
	assert.Contains(t, infos[1].Sections, SectionEarnings)
	assert.Nil(t, infos[2].LineItemColumns)
}

func TestInvoice_ValidateDerivesMonthAndDropsEmptyRows(t *testing.T) {
	d := validInvoice()
	d.LineItems = append(d.LineItems, map[string]string{"Description": "  ", "Amount": ""})

	require.NoError(t, invoiceTemplate{}.Validate(&d))
	assert.Len(t, d.LineItems, 2)
	assert.Equal(t, "March 2026", d.Get(fieldInvoiceMonth))
}

func TestInvoice_ValidateKeepsExplicitMonth(t *testing.T) {
	d := validInvoice()
	d.Header[fieldInvoiceMonth] = "February 2026"

	require.NoError(t, invoiceTemplate{}.Validate(&d))
	assert.Equal(t, "February 2026", d.Get(fieldInvoiceMonth))
}

func TestInvoice_ValidateReportsAllProblems(t *testing.T) {
	d := validInvoice()
	delete(d.Header, "Campaign")
	d.Header["Date"] = "yesterday"
	delete(d.LineItems[1], "Size")
	d.LineItems[0]["Amount"] = "a lot"

	err := invoiceTemplate{}.Validate(&d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, TypeInvoice, verr.DocumentType)
	assert.Len(t, verr.Problems, 4)
	assert.Contains(t, err.Error(), `header field "Campaign" is required`)
	assert.Contains(t, err.Error(), `line item row 2: column "Size" is required`)
	assert.Contains(t, err.Error(), `"a lot" is not a number`)
}

func TestInvoice_ValidateRequiresLineItems(t *testing.T) {
	d := validInvoice()
	d.LineItems = []map[string]string{{}}

	err := invoiceTemplate{}.Validate(&d)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "at least one line item")
}

func TestSalesTax_Compute(t *testing.T) {
	d := &Data{
		Header: map[string]string{},
		LineItems: []map[string]string{
			{"Amount": "1,000"},
			{"Amount": "333"},
		},
	}
	got := ComputeSalesTax(d)
	assert.Equal(t, SalesTaxTotals{Rate: 15, Subtotal: 1333, GST: 200, GrandTotal: 1533}, got)

	d.Header[fieldGSTPercentage] = "17"
	got = ComputeSalesTax(d)
	assert.Equal(t, 227.0, got.GST)
}

func TestSalesTax_ValidateRate(t *testing.T) {
	d := Data{
		Header: map[string]string{
			"M/s.": "Acme", "Campaign": "C", "PO Number": "1", "NTN": "1", "STRN": "1",
			"Date": "01/03/2026", "Invoice No": "7", "Company NTN": "2", "Company STN": "3",
			fieldGSTPercentage: "150",
		},
		LineItems: []map[string]string{{
			"Description": "Spot", "Size": "A", "Duration": "1", "Start Date": "x", "End Date": "y", "Amount": "10",
		}},
	}
	err := salesTaxTemplate{}.Validate(&d)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "between 0 and 100")

	d.Header[fieldGSTPercentage] = ""
	require.NoError(t, salesTaxTemplate{}.Validate(&d))
	assert.Equal(t, "March 2026", d.Get(fieldInvoiceMonth))
}

func TestSalarySlip(t *testing.T) {
	d := Data{
		Header: map[string]string{
			"Employee Name": "A. Khan", "Employee No": "17", "Designation": "Engineer",
			"Department": "IT", "CNIC": "35202-0000000-1", "Month": "March 2026",
		},
		Sections: map[string][]map[string]string{
			SectionEarnings: {
				{"Particulars": "Basic Salary", "Amount": "100,000"},
				{"Particulars": "House Rent Allowance", "Amount": "45000"},
				{"Particulars": "", "Amount": ""},
			},
			SectionDeductions: {
				{"Particulars": "Income Tax", "Amount": "12,500.50"},
			},
		},
	}

	require.NoError(t, salarySlipTemplate{}.Validate(&d))
	assert.Len(t, d.Sections[SectionEarnings], 2)
	assert.InDelta(t, 132499.5, NetPay(&d), 1e-9)

	d.Sections[SectionDeductions][0]["Particulars"] = ""
	delete(d.Sections, SectionEarnings)
	err := salarySlipTemplate{}.Validate(&d)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "at least one earnings row")
	assert.Contains(t, err.Error(), `deductions row 1: column "Particulars" is required`)
}

func TestRequestLetter(t *testing.T) {
	d := Data{Header: map[string]string{"Date": "2026-03-01", "To": "The Manager", "Subject": "Adjustment"}}
	err := requestLetterTemplate{}.Validate(&d)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "content is required")

	d.Content = "First line.\r\n  Second line.  \n"
	require.NoError(t, requestLetterTemplate{}.Validate(&d))
	assert.Equal(t, []string{"First line.", "Second line.", ""}, Paragraphs(d.Content))
}

func TestParseInvoiceStyle(t *testing.T) {
	s, err := ParseInvoiceStyle("Boxed")
	require.NoError(t, err)
	assert.Equal(t, StyleBoxed, s)

	s, err = ParseInvoiceStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleClassic, s)

	_, err = ParseInvoiceStyle("fancy")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2026-03-01", "01/03/2026", "01-03-2026", "March 1, 2026", "1 March 2026", "01 Mar 2026"} {
		d, ok := ParseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, "2026-03-01", d.Format("2006-01-02"), in)
	}
	_, ok := ParseDate("next week")
	assert.False(t, ok)
}
