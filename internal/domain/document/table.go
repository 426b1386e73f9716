package document

import (
	"docgen-service-go/internal/pkg/layout"
	"docgen-service-go/internal/pkg/metrics"
)

// TableSpec таблица документа: колонки, геометрия и оформление
type TableSpec struct {
	// Kind имя таблицы для метрик
	Kind         string
	Table        layout.Table
	HeaderHeight float64
	FontSize     float64
	// HeaderFill серая заливка строки заголовков
	HeaderFill bool
	// RowLines горизонтальная линия над каждой строкой
	RowLines bool
	// Bold колонки, выводимые жирным
	Bold map[int]bool
}

// DrawTable раскладывает строки через layout.Table и рисует их от текущей позиции.
// Строка, не помещающаяся на страницу, переносится на новую вместе с заголовком.
func (c *Canvas) DrawTable(spec TableSpec, rows [][]string) layout.TableLayout {
	t := spec.Table
	if spec.FontSize == 0 {
		spec.FontSize = 10
	}
	c.Font("", spec.FontSize)
	t.Measurer = c.Measurer()

	c.pdf.SetAutoPageBreak(false, 0)
	defer c.pdf.SetAutoPageBreak(true, PageMargin)

	cursor := layout.Cursor{X: t.X, Y: c.Y()}
	_, cursor = c.drawHeader(&t, spec, cursor)

	tl, _ := t.LayoutTable(rows, cursor)
	limit := PageHeight - PageMargin
	shift := 0.0
	for i, row := range tl.Rows {
		top := row.Y + shift
		if top+row.Height > limit && i > 0 {
			c.pdf.Line(t.X, top, t.X+t.Width(), top)
			c.pdf.AddPage()
			_, next := c.drawHeader(&t, spec, layout.Cursor{X: t.X, Y: PageMargin})
			shift = next.Y - row.Y
		}
		c.drawRow(&t, spec, row, shift)
	}

	bottom := tl.Bottom + shift
	c.pdf.Line(tl.Closing.X1, bottom, tl.Closing.X2, bottom)
	c.pdf.SetY(bottom)

	kind := spec.Kind
	if kind == "" {
		kind = "table"
	}
	c.rows[kind+"_data"] += tl.DataRows()
	c.rows[kind+"_filler"] += tl.FillerRows()
	metrics.TableRowsRendered.WithLabelValues("data").Add(float64(tl.DataRows()))
	metrics.TableRowsRendered.WithLabelValues("filler").Add(float64(tl.FillerRows()))
	return tl
}

func (c *Canvas) drawHeader(t *layout.Table, spec TableSpec, cursor layout.Cursor) (layout.RowLayout, layout.Cursor) {
	hdr, next := t.LayoutHeader(spec.HeaderHeight, cursor)
	c.Font("B", spec.FontSize)
	for _, cell := range hdr.Cells {
		c.pdf.SetXY(cell.Rect.X, cell.Rect.Y)
		if spec.HeaderFill {
			c.FilledCell(cell.Rect.W, cell.Rect.H, cell.Text, "1", 0, string(cell.Align))
		} else {
			c.Cell(cell.Rect.W, cell.Rect.H, cell.Text, "1", 0, string(cell.Align))
		}
	}
	c.Font("", spec.FontSize)
	return hdr, next
}

func (c *Canvas) drawRow(t *layout.Table, spec TableSpec, row layout.RowLayout, shift float64) {
	for _, r := range row.Rules {
		c.pdf.Line(r.X1, r.Y1+shift, r.X2, r.Y2+shift)
	}
	if spec.RowLines {
		y := row.Y + shift
		c.pdf.Line(t.X, y, t.X+t.Width(), y)
	}
	for i, cell := range row.Cells {
		style := ""
		if spec.Bold[i] {
			style = "B"
		}
		c.Font(style, spec.FontSize)
		c.pdf.SetXY(cell.Rect.X, cell.TextY+shift)
		c.pdf.MultiCell(cell.Rect.W, t.LineHeight, c.tr(cell.Text), "", string(cell.Align), false)
	}
	c.Font("", spec.FontSize)
	c.mark()
}
