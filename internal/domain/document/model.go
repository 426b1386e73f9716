package document

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"docgen-service-go/internal/pkg/format"
)

// Определяем пользовательские ошибки
var (
	ErrUnknownDocumentType = errors.New("unknown document type")
	ErrUnknownCompany      = errors.New("unknown company")
	ErrValidation          = errors.New("document data is invalid")
	ErrStageOrder          = errors.New("render stage out of order")
)

// FieldKind тип поля шапки
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindDate   FieldKind = "date"
	KindNumber FieldKind = "number"
)

// Field поле шапки документа
type Field struct {
	Name string    `json:"name"`
	Kind FieldKind `json:"kind"`
	// Optional поле можно не заполнять: оно вычисляется или имеет значение по умолчанию
	Optional bool `json:"optional,omitempty"`
}

// Data данные одного документа
type Data struct {
	Header    map[string]string              `json:"header"`
	LineItems []map[string]string            `json:"lineItems,omitempty"`
	Sections  map[string][]map[string]string `json:"sections,omitempty"`
	Content   string                         `json:"content,omitempty"`
}

// Get возвращает значение поля шапки без пробелов по краям
func (d *Data) Get(name string) string {
	if d == nil || d.Header == nil {
		return ""
	}
	return strings.TrimSpace(d.Header[name])
}

func (d Data) clone() Data {
	out := d
	out.Header = maps.Clone(d.Header)
	if d.Sections != nil {
		out.Sections = make(map[string][]map[string]string, len(d.Sections))
		for k, v := range d.Sections {
			out.Sections[k] = append([]map[string]string(nil), v...)
		}
	}
	out.LineItems = append([]map[string]string(nil), d.LineItems...)
	return out
}

func (d *Data) set(name, value string) {
	if d.Header == nil {
		d.Header = make(map[string]string)
	}
	d.Header[name] = value
}

// ValidationError все найденные проблемы с данными документа
type ValidationError struct {
	DocumentType string
	Problems     []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.DocumentType, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// problems накапливает ошибки валидации
type problems struct {
	docType string
	list    []string
}

func (p *problems) add(format string, args ...any) {
	p.list = append(p.list, fmt.Sprintf(format, args...))
}

func (p *problems) err() error {
	if len(p.list) == 0 {
		return nil
	}
	return &ValidationError{DocumentType: p.docType, Problems: p.list}
}

// dateLayouts допустимые форматы дат во входных данных
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"January 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
}

// ParseDate разбирает дату в одном из допустимых форматов
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// checkHeader проверяет обязательные поля и их типы
func checkHeader(p *problems, fields []Field, d *Data) {
	for _, f := range fields {
		v := d.Get(f.Name)
		if v == "" {
			if !f.Optional {
				p.add("header field %q is required", f.Name)
			}
			continue
		}
		switch f.Kind {
		case KindDate:
			if _, ok := ParseDate(v); !ok {
				p.add("header field %q: %q is not a date", f.Name, v)
			}
		case KindNumber:
			if _, ok := format.ParseAmount(v); !ok {
				p.add("header field %q: %q is not a number", f.Name, v)
			}
		}
	}
}

// checkRows проверяет, что в каждой строке заполнены все колонки,
// а колонки из numeric разбираются как числа
func checkRows(p *problems, label string, columns []string, rows []map[string]string, numeric ...string) {
	for i, row := range rows {
		for _, col := range columns {
			v := strings.TrimSpace(row[col])
			if v == "" {
				p.add("%s row %d: column %q is required", label, i+1, col)
				continue
			}
			for _, n := range numeric {
				if n != col {
					continue
				}
				if _, ok := format.ParseAmount(v); !ok {
					p.add("%s row %d: column %q: %q is not a number", label, i+1, col, v)
				}
			}
		}
	}
}

// dropEmptyRows убирает строки, в которых не заполнена ни одна колонка
func dropEmptyRows(rows []map[string]string) []map[string]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// sumColumn суммирует числовую колонку, нечисловые значения пропускаются
func sumColumn(rows []map[string]string, col string) float64 {
	total := 0.0
	for _, row := range rows {
		if v, ok := format.ParseAmount(row[col]); ok {
			total += v
		}
	}
	return total
}

// cells значения колонок строки в порядке columns
func cells(row map[string]string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = strings.TrimSpace(row[c])
	}
	return out
}
