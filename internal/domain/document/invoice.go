package document

import (
	"strconv"
	"strings"

	"docgen-service-go/internal/pkg/format"
	"docgen-service-go/internal/pkg/layout"
)

const fieldInvoiceMonth = "Invoice Month"

var invoiceFields = []Field{
	{Name: "M/s", Kind: KindText},
	{Name: "Campaign", Kind: KindText},
	{Name: "Date", Kind: KindDate},
	{Name: "Invoice No", Kind: KindText},
	{Name: fieldInvoiceMonth, Kind: KindText, Optional: true},
}

var invoiceColumns = []string{
	"Description",
	"Campaign Start Date",
	"Campaign End Date",
	"Size",
	"Duration",
	"Amount",
}

type invoiceTemplate struct{}

func (invoiceTemplate) Type() string              { return TypeInvoice }
func (invoiceTemplate) HeaderFields() []Field     { return invoiceFields }
func (invoiceTemplate) LineItemColumns() []string { return invoiceColumns }

func (t invoiceTemplate) Validate(d *Data) error {
	p := &problems{docType: t.Type()}
	d.LineItems = dropEmptyRows(d.LineItems)
	deriveInvoiceMonth(d)

	checkHeader(p, invoiceFields, d)
	if len(d.LineItems) == 0 {
		p.add("at least one line item is required")
	}
	checkRows(p, "line item", invoiceColumns, d.LineItems, "Amount")
	return p.err()
}

// deriveInvoiceMonth заполняет месяц счета из даты, если он не задан
func deriveInvoiceMonth(d *Data) {
	if d.Get(fieldInvoiceMonth) != "" {
		return
	}
	if date, ok := ParseDate(d.Get("Date")); ok {
		d.set(fieldInvoiceMonth, date.Format("January 2006"))
	}
}

func (t invoiceTemplate) Render(c *Canvas, d *Data) error {
	f := c.Formatter()
	total := sumColumn(d.LineItems, "Amount")

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
			desc := strings.TrimSpace(item["Description"]) +
				"\n\nCampaign Start: " + strings.TrimSpace(item["Campaign Start Date"]) +
				"\nCampaign End: " + strings.TrimSpace(item["Campaign End Date"])
			amount := strings.TrimSpace(item["Amount"])
			if v, ok := format.ParseAmount(amount); ok {
				amount = f.FormatCurrency(v)
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				desc,
				strings.TrimSpace(item["Size"]),
				strings.TrimSpace(item["Duration"]),
				"Rs. " + amount + "/-",
			})
		}
		c.DrawTable(t.table(c), rows)
		return nil
	})
	if err != nil {
		return err
	}

	return c.Totals(func() error {
		words := "Amount in words: " + f.AmountInWords(total, c.WordsSuffix())
		c.Font("IU", 12)
		c.EnsureSpace(2 + 15 + c.TextHeight(words, PageWidth-2*PageMargin, 6))

		c.Ln(2)
		c.Font("B", 12)
		y := c.Y()
		c.CellAt(10, y, 145, 10, "TOTAL:", "1", "R")
		c.CellAt(155, y, 35, 10, "PKR "+f.FormatCurrency(total), "1", "R")
		c.SetY(y + 15)
		c.Font("IU", 12)
		c.Paragraph(6, words, "L")
		return nil
	})
}

func (invoiceTemplate) header(c *Canvas, d *Data) {
	boxed := c.Style() == StyleBoxed
	y0 := c.Y()

	// длинные значения переносятся, строка растет на 5 мм за строку текста
	y := y0
	for _, name := range []string{"M/s", "Campaign"} {
		c.Font("", 10)
		value := d.Get(name)
		h, lineHeight := 8.0, 8.0
		if n := c.Measurer().SplitLines(value, 60); n > 1 {
			lineHeight = 5
			h = max(h, float64(n)*lineHeight)
		}

		c.Font("B", 10)
		c.pdf.SetXY(10, y)
		if boxed {
			c.FilledCell(30, h, name+":", "1", 0, "L")
		} else {
			c.Cell(30, h, name+":", "1", 0, "L")
		}
		c.Font("", 10)
		c.BoxAt(40, y, 60, h, lineHeight, value, "L")
		y += h
	}

	for i, name := range []string{"Date", "Invoice No", fieldInvoiceMonth} {
		ry := y0 + float64(i)*8
		c.Font("B", 10)
		c.CellAt(110, ry, 35, 8, name+":", "", "L")
		c.Font("U", 10)
		c.CellAt(145, ry, 45, 8, d.Get(name), "", "L")
	}

	c.SetY(max(y, y0+3*8) + 5)
}

func (invoiceTemplate) table(c *Canvas) TableSpec {
	policy := c.AlignPolicy()
	boxed := c.Style() == StyleBoxed
	return TableSpec{
		Kind: "invoice",
		Table: layout.Table{
			Columns: []layout.Column{
				{Name: "Sr.", Width: 10, Align: layout.AlignCenter, Policy: policy},
				{Name: "Description", Width: 90, Align: layout.AlignLeft, Policy: policy},
				{Name: "Size", Width: 20, Align: layout.AlignCenter, Policy: policy},
				{Name: "Duration", Width: 25, Align: layout.AlignCenter, Policy: policy},
				{Name: "Amount", Width: 35, Align: layout.AlignRight, Policy: policy},
			},
			X:            10,
			LineHeight:   5,
			MinRowHeight: 15,
			MinRows:      6,
			TopPadding:   2,
		},
		HeaderHeight: 10,
		HeaderFill:   boxed,
		RowLines:     boxed,
		Bold:         map[int]bool{4: true},
	}
}
