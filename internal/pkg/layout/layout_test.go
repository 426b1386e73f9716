package layout

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1 мм на символ: колонка шириной 10 вмещает 10 символов
var mono = MonospaceMeasurer{CharWidth: 1}

func invoiceTable() *Table {
	return &Table{
		Columns: []Column{
			{Name: "Sr.", Width: 10, Align: AlignCenter},
			{Name: "Description", Width: 90, Align: AlignLeft},
			{Name: "Size", Width: 20, Align: AlignCenter},
			{Name: "Duration", Width: 25, Align: AlignCenter},
			{Name: "Amount", Width: 35, Align: AlignCenter},
		},
		X:            10,
		LineHeight:   5,
		MinRowHeight: 15,
		MinRows:      6,
		Measurer:     mono,
	}
}

func TestLayoutRow_SingleLineUsesMinHeight(t *testing.T) {
	tbl := invoiceTable()

	row, next := tbl.LayoutRow([]string{"1", "Billboard", "20x10", "1 month", "Rs. 500/-"}, Cursor{X: 10, Y: 100})

	assert.Equal(t, 15.0, row.Height)
	assert.Equal(t, 115.0, next.Y)
	assert.Equal(t, 10.0, next.X)
	for _, c := range row.Cells {
		assert.Equal(t, 1, c.Lines)
	}
}

func TestLayoutRow_TallestColumnWins(t *testing.T) {
	tbl := invoiceTable()

	tests := []struct {
		name   string
		cells  []string
		height float64
	}{
		{"description wraps to 4 lines", []string{"1", strings.Repeat("x", 350), "", "", ""}, 20},
		{"amount wraps to 5 lines", []string{"1", "short", "", "", strings.Repeat("9", 170)}, 25},
		{"explicit newlines", []string{"1", "a\n\nCampaign Start: 2024-01-01\nCampaign End: 2024-02-01", "", "", ""}, 20},
		{"empty cells count as one line", []string{"", "", "", "", ""}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, next := tbl.LayoutRow(tt.cells, Cursor{Y: 40})
			assert.Equal(t, tt.height, row.Height)
			assert.Equal(t, 40+tt.height, next.Y)
		})
	}
}

func TestLayoutRow_HeightProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tbl := invoiceTable()

	for i := 0; i < 200; i++ {
		cells := make([]string, len(tbl.Columns))
		for j := range cells {
			cells[j] = strings.Repeat("w", rng.Intn(300))
		}

		row, next := tbl.LayoutRow(cells, Cursor{Y: 0})

		want := tbl.MinRowHeight
		if h := float64(row.MaxLines()) * tbl.LineHeight; h > want {
			want = h
		}
		require.Equal(t, want, row.Height)
		require.Equal(t, row.Height, next.Y)
	}
}

func TestLayoutRow_CellGeometry(t *testing.T) {
	tbl := invoiceTable()
	tbl.TopPadding = 2

	row, _ := tbl.LayoutRow([]string{"1", "desc"}, Cursor{Y: 50})

	require.Len(t, row.Cells, 5)
	wantX := []float64{10, 20, 110, 130, 155}
	for i, c := range row.Cells {
		assert.Equal(t, wantX[i], c.Rect.X, "column %d", i)
		assert.Equal(t, 50.0, c.Rect.Y)
		assert.Equal(t, row.Height, c.Rect.H)
		assert.Equal(t, 52.0, c.TextY)
	}
	// отсутствующие ячейки пустые
	assert.Equal(t, "", row.Cells[4].Text)

	require.Len(t, row.Rules, 6)
	assert.Equal(t, Segment{X1: 190, Y1: 50, X2: 190, Y2: 65}, row.Rules[5])
}

func TestLayoutRow_TopPaddingAddsToContent(t *testing.T) {
	tbl := invoiceTable()
	tbl.TopPadding = 2

	row, _ := tbl.LayoutRow([]string{"1", strings.Repeat("x", 270)}, Cursor{})

	// 3 строки * 5 + 2 = 17
	assert.Equal(t, 17.0, row.Height)
}

func TestLayoutTable_FillerRows(t *testing.T) {
	tests := []struct {
		name       string
		dataRows   int
		wantFiller int
	}{
		{"no rows", 0, 6},
		{"two rows", 2, 4},
		{"exactly minimum", 6, 0},
		{"more than minimum", 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := invoiceTable()
			rows := make([][]string, tt.dataRows)
			for i := range rows {
				rows[i] = []string{"1", "item"}
			}

			out, next := tbl.LayoutTable(rows, Cursor{X: 10, Y: 100})

			assert.Equal(t, tt.dataRows, out.DataRows())
			assert.Equal(t, tt.wantFiller, out.FillerRows())
			for _, r := range out.Rows {
				if r.Filler {
					assert.Equal(t, tbl.MinRowHeight, r.Height)
					assert.Empty(t, r.Cells)
					assert.Len(t, r.Rules, 6)
				}
			}
			assert.Equal(t, next.Y, out.Bottom)
			assert.Equal(t, Segment{X1: 10, Y1: next.Y, X2: 190, Y2: next.Y}, out.Closing)
		})
	}
}

func TestLayoutTable_NoGapsOrOverlaps(t *testing.T) {
	tbl := invoiceTable()
	rows := [][]string{
		{"1", strings.Repeat("a", 400)},
		{"2", "short"},
		{"3", strings.Repeat("b", 95)},
	}

	out, next := tbl.LayoutTable(rows, Cursor{Y: 80})

	y := 80.0
	total := 0.0
	for _, r := range out.Rows {
		assert.Equal(t, y, r.Y)
		y += r.Height
		total += r.Height
	}
	assert.Equal(t, y, next.Y)
	assert.Equal(t, 80+total, out.Bottom)
}

func TestLayoutHeader(t *testing.T) {
	tbl := invoiceTable()

	row, next := tbl.LayoutHeader(8, Cursor{Y: 30})

	assert.Equal(t, 38.0, next.Y)
	assert.Equal(t, "Description", row.Cells[1].Text)
	assert.Equal(t, AlignCenter, row.Cells[1].Align)
}

func TestResolveAlign(t *testing.T) {
	tests := []struct {
		name  string
		col   Column
		value string
		want  Align
	}{
		{"declared right", Column{Align: AlignRight}, "text", AlignRight},
		{"declared center", Column{Align: AlignCenter}, "123", AlignCenter},
		{"declared default", Column{}, "123", AlignLeft},
		{"sniff grouped digits", Column{Align: AlignCenter, Policy: DigitSniff}, "1,234", AlignRight},
		{"sniff text", Column{Align: AlignRight, Policy: DigitSniff}, "Billboard", AlignLeft},
		{"sniff decimal is not digits", Column{Policy: DigitSniff}, "12.50", AlignLeft},
		{"sniff empty", Column{Policy: DigitSniff}, "", AlignLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAlign(tt.col, tt.value))
		})
	}
}

func TestMonospaceMeasurer(t *testing.T) {
	m := MonospaceMeasurer{CharWidth: 2}

	assert.Equal(t, 1, m.SplitLines("", 10))
	assert.Equal(t, 1, m.SplitLines("abcde", 10))
	assert.Equal(t, 2, m.SplitLines("abcdef", 10))
	assert.Equal(t, 3, m.SplitLines("ab\n\ncd", 10))
	assert.Equal(t, 1, MonospaceMeasurer{}.SplitLines("anything", 10))
}
