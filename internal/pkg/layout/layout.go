// Package layout рассчитывает геометрию табличных строк с переносом текста.
// Пакет не рисует ничего сам: измерение текста делегируется Measurer,
// а текущая позиция передается явно через Cursor.
package layout

import (
	"strings"
	"unicode"
)

// Align горизонтальное выравнивание ячейки
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// AlignPolicy способ выбора выравнивания для колонки
type AlignPolicy int

const (
	// Declared использует выравнивание, объявленное у колонки
	Declared AlignPolicy = iota
	// DigitSniff выравнивает вправо значения из одних цифр (запятые игнорируются), остальное влево
	DigitSniff
)

// Measurer считает, на сколько строк разобьется текст при заданной ширине
type Measurer interface {
	SplitLines(text string, width float64) int
}

// Column колонка таблицы
type Column struct {
	Name   string
	Width  float64
	Align  Align
	Policy AlignPolicy
}

// Cursor текущая позиция вывода
type Cursor struct {
	X, Y float64
}

// Rect прямоугольник в единицах страницы
type Rect struct {
	X, Y, W, H float64
}

// Segment отрезок линии
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// CellLayout рассчитанная ячейка
type CellLayout struct {
	Text  string
	Lines int
	Align Align
	Rect  Rect
	// TextY координата первой строки текста с учетом верхнего отступа
	TextY float64
}

// RowLayout рассчитанная строка: все ячейки имеют общий верх и высоту
type RowLayout struct {
	Y      float64
	Height float64
	Filler bool
	Cells  []CellLayout
	Rules  []Segment
}

// MaxLines наибольшее число строк среди ячеек
func (r RowLayout) MaxLines() int {
	maxLines := 0
	for _, c := range r.Cells {
		if c.Lines > maxLines {
			maxLines = c.Lines
		}
	}
	return maxLines
}

// TableLayout результат раскладки таблицы
type TableLayout struct {
	Rows []RowLayout
	// Closing нижняя граница таблицы на итоговой высоте
	Closing Segment
	Top     float64
	Bottom  float64
}

// DataRows количество строк с данными
func (t TableLayout) DataRows() int {
	n := 0
	for _, r := range t.Rows {
		if !r.Filler {
			n++
		}
	}
	return n
}

// FillerRows количество пустых строк-заполнителей
func (t TableLayout) FillerRows() int {
	return len(t.Rows) - t.DataRows()
}

// Table параметры раскладки таблицы
type Table struct {
	Columns      []Column
	X            float64
	LineHeight   float64
	MinRowHeight float64
	// MinRows минимальное количество печатаемых строк; недостающие дополняются пустыми
	MinRows    int
	TopPadding float64
	Measurer   Measurer
}

// Width суммарная ширина колонок
func (t *Table) Width() float64 {
	w := 0.0
	for _, c := range t.Columns {
		w += c.Width
	}
	return w
}

// LayoutRow раскладывает одну строку начиная с cursor.Y.
// Высота строки = max(MinRowHeight, TopPadding + maxLines*LineHeight),
// возвращаемый курсор смещен ровно на эту высоту.
func (t *Table) LayoutRow(cells []string, cursor Cursor) (RowLayout, Cursor) {
	row := RowLayout{
		Y:     cursor.Y,
		Cells: make([]CellLayout, len(t.Columns)),
	}

	maxLines := 1
	x := t.X
	for i, col := range t.Columns {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		lines := t.lines(text, col.Width)
		if lines > maxLines {
			maxLines = lines
		}
		row.Cells[i] = CellLayout{
			Text:  text,
			Lines: lines,
			Align: ResolveAlign(col, text),
			Rect:  Rect{X: x, Y: cursor.Y, W: col.Width},
			TextY: cursor.Y + t.TopPadding,
		}
		x += col.Width
	}

	row.Height = t.MinRowHeight
	if h := t.TopPadding + float64(maxLines)*t.LineHeight; h > row.Height {
		row.Height = h
	}
	for i := range row.Cells {
		row.Cells[i].Rect.H = row.Height
	}
	row.Rules = t.verticalRules(cursor.Y, row.Height)

	return row, Cursor{X: cursor.X, Y: cursor.Y + row.Height}
}

// LayoutHeader раскладывает строку заголовков фиксированной высоты без переноса
func (t *Table) LayoutHeader(height float64, cursor Cursor) (RowLayout, Cursor) {
	row := RowLayout{
		Y:      cursor.Y,
		Height: height,
		Cells:  make([]CellLayout, len(t.Columns)),
	}
	x := t.X
	for i, col := range t.Columns {
		row.Cells[i] = CellLayout{
			Text:  col.Name,
			Lines: 1,
			Align: AlignCenter,
			Rect:  Rect{X: x, Y: cursor.Y, W: col.Width, H: height},
			TextY: cursor.Y,
		}
		x += col.Width
	}
	row.Rules = t.verticalRules(cursor.Y, height)
	return row, Cursor{X: cursor.X, Y: cursor.Y + height}
}

// LayoutTable раскладывает строки данных, добавляет пустые строки до MinRows
// и закрывающую горизонтальную линию на итоговой высоте.
func (t *Table) LayoutTable(rows [][]string, cursor Cursor) (TableLayout, Cursor) {
	out := TableLayout{Top: cursor.Y}

	for _, cells := range rows {
		var row RowLayout
		row, cursor = t.LayoutRow(cells, cursor)
		out.Rows = append(out.Rows, row)
	}

	for i := len(rows); i < t.MinRows; i++ {
		row := RowLayout{
			Y:      cursor.Y,
			Height: t.MinRowHeight,
			Filler: true,
			Rules:  t.verticalRules(cursor.Y, t.MinRowHeight),
		}
		out.Rows = append(out.Rows, row)
		cursor.Y += t.MinRowHeight
	}

	out.Bottom = cursor.Y
	out.Closing = Segment{X1: t.X, Y1: cursor.Y, X2: t.X + t.Width(), Y2: cursor.Y}
	return out, cursor
}

func (t *Table) lines(text string, width float64) int {
	if text == "" || t.Measurer == nil {
		return 1
	}
	if n := t.Measurer.SplitLines(text, width); n > 1 {
		return n
	}
	return 1
}

func (t *Table) verticalRules(y, height float64) []Segment {
	rules := make([]Segment, 0, len(t.Columns)+1)
	x := t.X
	rules = append(rules, Segment{X1: x, Y1: y, X2: x, Y2: y + height})
	for _, col := range t.Columns {
		x += col.Width
		rules = append(rules, Segment{X1: x, Y1: y, X2: x, Y2: y + height})
	}
	return rules
}

// ResolveAlign выбирает выравнивание значения по политике колонки
func ResolveAlign(col Column, value string) Align {
	if col.Policy == DigitSniff {
		if isDigits(strings.ReplaceAll(value, ",", "")) {
			return AlignRight
		}
		return AlignLeft
	}
	if col.Align == "" {
		return AlignLeft
	}
	return col.Align
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
