package document

import (
	"math"
	"strconv"
	"strings"

	"docgen-service-go/internal/pkg/format"
	"docgen-service-go/internal/pkg/layout"
)

const (
	fieldGSTPercentage = "GST Percentage"
	defaultGSTRate     = 15.0
)

var salesTaxFields = []Field{
	{Name: "M/s.", Kind: KindText},
	{Name: "Campaign", Kind: KindText},
	{Name: "PO Number", Kind: KindText},
	{Name: "NTN", Kind: KindText},
	{Name: "STRN", Kind: KindText},
	{Name: "Date", Kind: KindDate},
	{Name: "Invoice No", Kind: KindText},
	{Name: fieldInvoiceMonth, Kind: KindText, Optional: true},
	{Name: "Company NTN", Kind: KindText},
	{Name: "Company STN", Kind: KindText},
	{Name: fieldGSTPercentage, Kind: KindNumber, Optional: true},
}

var salesTaxColumns = []string{
	"Description",
	"Size",
	"Duration",
	"Start Date",
	"End Date",
	"Amount",
}

type salesTaxTemplate struct{}

func (salesTaxTemplate) Type() string              { return TypeSalesTaxInvoice }
func (salesTaxTemplate) HeaderFields() []Field     { return salesTaxFields }
func (salesTaxTemplate) LineItemColumns() []string { return salesTaxColumns }

func (t salesTaxTemplate) Validate(d *Data) error {
	p := &problems{docType: t.Type()}
	d.LineItems = dropEmptyRows(d.LineItems)
	deriveInvoiceMonth(d)

	checkHeader(p, salesTaxFields, d)
	if rate, ok := format.ParseAmount(d.Get(fieldGSTPercentage)); ok && (rate < 0 || rate > 100) {
		p.add("header field %q must be between 0 and 100", fieldGSTPercentage)
	}
	if len(d.LineItems) == 0 {
		p.add("at least one line item is required")
	}
	checkRows(p, "line item", salesTaxColumns, d.LineItems, "Amount")
	return p.err()
}

// SalesTaxTotals промежуточный итог, налог и итог к оплате
type SalesTaxTotals struct {
	Rate       float64
	Subtotal   float64
	GST        float64
	GrandTotal float64
}

// ComputeSalesTax считает налог с округлением до целого
func ComputeSalesTax(d *Data) SalesTaxTotals {
	rate := defaultGSTRate
	if v, ok := format.ParseAmount(d.Get(fieldGSTPercentage)); ok {
		rate = v
	}
	sub := sumColumn(d.LineItems, "Amount")
	gst := math.Round(sub * rate / 100)
	return SalesTaxTotals{Rate: rate, Subtotal: sub, GST: gst, GrandTotal: sub + gst}
}

func (t salesTaxTemplate) Render(c *Canvas, d *Data) error {
	f := c.Formatter()
	totals := ComputeSalesTax(d)

	err := c.Header(func() error {
		c.Title(t.Type())
		t.header(c, d)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.LineItems(func() error {
		rows := make([][]string, 0, len(d.LineItems))
		for i, item := range d.LineItems {
			amount := strings.TrimSpace(item["Amount"])
			if v, ok := format.ParseAmount(amount); ok {
				amount = f.FormatWhole(v)
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				strings.TrimSpace(item["Description"]),
				strings.TrimSpace(item["Size"]),
				strings.TrimSpace(item["Duration"]),
				strings.TrimSpace(item["Start Date"]),
				strings.TrimSpace(item["End Date"]),
				amount,
			})
		}
		c.DrawTable(t.table(c), rows)
		return nil
	})
	if err != nil {
		return err
	}

	return c.Totals(func() error {
		lines := []struct {
			label string
			value float64
		}{
			{"Subtotal:", totals.Subtotal},
			{"GST @ " + f.FormatWhole(totals.Rate) + "%:", totals.GST},
			{"Grand Total:", totals.GrandTotal},
		}
		words := "Amount in words: " + f.AmountInWords(totals.GrandTotal, "Rupees Only/=")
		c.Font("I", 10)
		c.EnsureSpace(float64(len(lines))*8 + 5 + c.TextHeight(words, PageWidth-2*PageMargin, 6))

		c.Font("B", 10)
		for _, l := range lines {
			y := c.Y()
			c.CellAt(15, y, 137, 8, l.label, "1", "R")
			c.CellAt(152, y, 40, 8, "Rs. "+f.FormatWhole(l.value)+"/-", "1", "R")
			c.SetY(y + 8)
		}
		c.Ln(5)
		c.Font("I", 10)
		c.Paragraph(6, words, "L")
		return nil
	})
}

func (salesTaxTemplate) header(c *Canvas, d *Data) {
	y0 := c.Y()
	const h = 7

	left := []string{"M/s.", "Campaign", "PO Number", "NTN", "STRN"}
	for i, name := range left {
		y := y0 + float64(i)*h
		c.Font("B", 9)
		c.CellAt(15, y, 38, h, name, "1", "L")
		c.Font("", 9)
		c.CellAt(53, y, 52, h, d.Get(name), "1", "L")
	}

	right := []struct{ label, field string }{
		{"Date", "Date"},
		{"Invoice Month", fieldInvoiceMonth},
		{"Invoice No", "Invoice No"},
		{"Company NTN No", "Company NTN"},
		{"Company SRB No", "Company STN"},
	}
	for i, r := range right {
		y := y0 + float64(i)*h
		c.Font("B", 9)
		c.CellAt(110, y, 38, h, r.label, "1", "L")
		c.Font("", 9)
		c.CellAt(148, y, 42, h, d.Get(r.field), "1", "L")
	}

	c.SetY(y0 + float64(len(left))*h + 6)
}

func (salesTaxTemplate) table(c *Canvas) TableSpec {
	policy := c.AlignPolicy()
	return TableSpec{
		Kind: "sales_tax",
		Table: layout.Table{
			Columns: []layout.Column{
				{Name: "Sr", Width: 8, Align: layout.AlignCenter, Policy: policy},
				{Name: "Description", Width: 60, Align: layout.AlignLeft, Policy: policy},
				{Name: "Size", Width: 15, Align: layout.AlignCenter, Policy: policy},
				{Name: "Duration", Width: 18, Align: layout.AlignCenter, Policy: policy},
				{Name: "Start Date", Width: 23, Align: layout.AlignCenter, Policy: policy},
				{Name: "End Date", Width: 23, Align: layout.AlignCenter, Policy: policy},
				{Name: "Amount", Width: 30, Align: layout.AlignRight, Policy: policy},
			},
			X:            15,
			LineHeight:   5,
			MinRowHeight: 8,
			MinRows:      6,
			TopPadding:   1.5,
		},
		HeaderHeight: 8,
		FontSize:     9,
		HeaderFill:   true,
		RowLines:     true,
	}
}
