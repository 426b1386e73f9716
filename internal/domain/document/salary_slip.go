package document

import (
	"strings"

	"docgen-service-go/internal/pkg/format"
	"docgen-service-go/internal/pkg/layout"
)

const (
	SectionEarnings   = "Earnings"
	SectionDeductions = "Deductions"
)

var salaryFields = []Field{
	{Name: "Employee Name", Kind: KindText},
	{Name: "Employee No", Kind: KindText},
	{Name: "Designation", Kind: KindText},
	{Name: "Department", Kind: KindText},
	{Name: "CNIC", Kind: KindText},
	{Name: "Month", Kind: KindText},
}

var salaryColumns = []string{"Particulars", "Amount"}

type salarySlipTemplate struct{}

func (salarySlipTemplate) Type() string              { return TypeSalarySlip }
func (salarySlipTemplate) HeaderFields() []Field     { return salaryFields }
func (salarySlipTemplate) LineItemColumns() []string { return nil }

func (salarySlipTemplate) Sections() map[string][]string {
	return map[string][]string{
		SectionEarnings:   salaryColumns,
		SectionDeductions: salaryColumns,
	}
}

func (t salarySlipTemplate) Validate(d *Data) error {
	p := &problems{docType: t.Type()}
	for name, rows := range d.Sections {
		d.Sections[name] = dropEmptyRows(rows)
	}

	checkHeader(p, salaryFields, d)
	if len(d.Sections[SectionEarnings]) == 0 {
		p.add("at least one %s row is required", strings.ToLower(SectionEarnings))
	}
	for _, name := range []string{SectionEarnings, SectionDeductions} {
		checkRows(p, strings.ToLower(name), salaryColumns, d.Sections[name], "Amount")
	}
	return p.err()
}

// NetPay начисления минус удержания
func NetPay(d *Data) float64 {
	return sumColumn(d.Sections[SectionEarnings], "Amount") - sumColumn(d.Sections[SectionDeductions], "Amount")
}

func (t salarySlipTemplate) Render(c *Canvas, d *Data) error {
	f := c.Formatter()

	err := c.Header(func() error {
		c.Title(t.Type())
		for _, field := range salaryFields {
			c.Font("B", 10)
			c.Cell(40, 8, field.Name+":", "", 0, "L")
			c.Font("", 10)
			c.Cell(0, 8, d.Get(field.Name), "", 1, "L")
		}
		c.Ln(4)
		return nil
	})
	if err != nil {
		return err
	}

	err = c.LineItems(func() error {
		for _, name := range []string{SectionEarnings, SectionDeductions} {
			c.Font("B", 11)
			c.Cell(0, 8, strings.ToUpper(name), "", 1, "L")
			rows := make([][]string, 0, len(d.Sections[name]))
			for _, row := range d.Sections[name] {
				v, _ := format.ParseAmount(row["Amount"])
				rows = append(rows, []string{strings.TrimSpace(row["Particulars"]), f.FormatCurrency(v)})
			}
			c.DrawTable(t.table(c, name), rows)
			c.Ln(4)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.Totals(func() error {
		net := NetPay(d)
		words := "Amount in words: " + f.AmountInWords(net, c.WordsSuffix())
		c.Font("I", 10)
		c.EnsureSpace(15 + c.TextHeight(words, PageWidth-2*PageMargin, 6))

		c.Font("B", 11)
		y := c.Y()
		c.CellAt(PageMargin, y, 120, 10, "NET PAY", "1", "R")
		c.CellAt(PageMargin+120, y, 60, 10, f.FormatCurrency(net), "1", "R")
		c.SetY(y + 15)
		c.Font("I", 10)
		c.Paragraph(6, words, "L")
		return nil
	})
}

func (salarySlipTemplate) table(c *Canvas, section string) TableSpec {
	policy := c.AlignPolicy()
	return TableSpec{
		Kind: "salary_" + strings.ToLower(section),
		Table: layout.Table{
			Columns: []layout.Column{
				{Name: "Particulars", Width: 120, Align: layout.AlignLeft, Policy: policy},
				{Name: "Amount (PKR)", Width: 60, Align: layout.AlignRight},
			},
			X:            PageMargin,
			LineHeight:   5,
			MinRowHeight: 8,
			TopPadding:   1.5,
		},
		HeaderHeight: 8,
		RowLines:     true,
	}
}
