package document

import (
	"fmt"
	"sort"
	"strings"
)

// Типы документов
const (
	TypeInvoice         = "Invoice"
	TypeSalarySlip      = "Salary Slip"
	TypeRequestLetter   = "Request Letter"
	TypeSalesTaxInvoice = "Sales Tax Invoice"
)

// Template описание одного типа документа: поля, колонки, проверка и вывод
type Template interface {
	Type() string
	HeaderFields() []Field
	LineItemColumns() []string
	// Validate нормализует данные и проверяет их до любого вывода
	Validate(*Data) error
	Render(*Canvas, *Data) error
}

// TemplateInfo описание шаблона для API
type TemplateInfo struct {
	Type            string              `json:"type"`
	HeaderFields    []Field             `json:"headerFields"`
	LineItemColumns []string            `json:"lineItemColumns,omitempty"`
	Sections        map[string][]string `json:"sections,omitempty"`
}

// sectioned шаблоны с именованными таблицами вместо строк позиций
type sectioned interface {
	Sections() map[string][]string
}

// InvoiceStyle вариант оформления счета
type InvoiceStyle int

const (
	// StyleClassic рамка только у заголовков, между строками линий нет
	StyleClassic InvoiceStyle = iota
	// StyleBoxed заливка заголовков и линии между всеми строками
	StyleBoxed
)

// ParseInvoiceStyle разбирает значение из конфигурации: "classic" или "boxed"
func ParseInvoiceStyle(s string) (InvoiceStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "classic":
		return StyleClassic, nil
	case "boxed":
		return StyleBoxed, nil
	default:
		return StyleClassic, fmt.Errorf("unknown invoice style %q", s)
	}
}

func (s InvoiceStyle) String() string {
	if s == StyleBoxed {
		return "boxed"
	}
	return "classic"
}

// Registry неизменяемый набор шаблонов, общий для всех генераций
type Registry struct {
	templates map[string]Template
	order     []string
}

// NewRegistry создает реестр со всеми поддерживаемыми типами документов
func NewRegistry() *Registry {
	all := []Template{
		invoiceTemplate{},
		salarySlipTemplate{},
		requestLetterTemplate{},
		salesTaxTemplate{},
	}
	r := &Registry{templates: make(map[string]Template, len(all))}
	for _, t := range all {
		r.templates[t.Type()] = t
		r.order = append(r.order, t.Type())
	}
	return r
}

// Lookup возвращает шаблон по типу документа
func (r *Registry) Lookup(docType string) (Template, error) {
	t, ok := r.templates[strings.TrimSpace(docType)]
	if !ok {
		known := append([]string(nil), r.order...)
		sort.Strings(known)
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDocumentType, docType, strings.Join(known, ", "))
	}
	return t, nil
}

// Types типы документов в порядке регистрации
func (r *Registry) Types() []string {
	return append([]string(nil), r.order...)
}

// Describe описания всех шаблонов
func (r *Registry) Describe() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(r.order))
	for _, name := range r.order {
		t := r.templates[name]
		info := TemplateInfo{
			Type:            t.Type(),
			HeaderFields:    t.HeaderFields(),
			LineItemColumns: t.LineItemColumns(),
		}
		if s, ok := t.(sectioned); ok {
			info.Sections = s.Sections()
		}
		out = append(out, info)
	}
	return out
}
