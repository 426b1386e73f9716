// Package format форматирует денежные суммы и переводит их в слова.
// Локаль передается явно через NumberFormat, глобальное состояние не меняется.
package format

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"docgen-service-go/internal/pkg/logger"
	"docgen-service-go/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NumberFormat явная конфигурация форматирования чисел
type NumberFormat struct {
	// Language локаль для x/text; language.Und включает ручное форматирование
	Language         language.Tag
	DecimalSeparator string
	GroupSeparator   string
	FractionDigits   int
}

// DefaultNumberFormat группировка "1,234.50"
func DefaultNumberFormat() NumberFormat {
	return NumberFormat{
		Language:         language.AmericanEnglish,
		DecimalSeparator: ".",
		GroupSeparator:   ",",
		FractionDigits:   2,
	}
}

// ParseLanguage разбирает BCP 47 тег; при ошибке возвращает language.Und
func ParseLanguage(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und
	}
	return tag
}

// Formatter форматирует суммы для документов
type Formatter struct {
	nf      NumberFormat
	printer *message.Printer
	words   WordsPolicy
}

// New создает Formatter
func New(nf NumberFormat, words WordsPolicy) *Formatter {
	if nf.DecimalSeparator == "" {
		nf.DecimalSeparator = "."
	}
	if nf.GroupSeparator == "" {
		nf.GroupSeparator = ","
	}
	if nf.FractionDigits <= 0 {
		nf.FractionDigits = 2
	}

	f := &Formatter{nf: nf, words: words}
	if nf.Language != language.Und {
		f.printer = message.NewPrinter(nf.Language)
	}
	return f
}

// WordsPolicy возвращает политику перевода в слова
func (f *Formatter) WordsPolicy() WordsPolicy {
	return f.words
}

// FormatCurrency возвращает сумму с группировкой и ровно FractionDigits знаками.
// Никогда не завершается ошибкой.
func (f *Formatter) FormatCurrency(amount float64) string {
	return f.format(amount, f.nf.FractionDigits)
}

// FormatWhole возвращает сумму без дробной части: "1,234"
func (f *Formatter) FormatWhole(amount float64) string {
	return f.format(amount, 0)
}

func (f *Formatter) format(amount float64, digits int) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		metrics.FormatFallbacksTotal.WithLabelValues("currency").Inc()
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	// -0.004 при двух знаках печатается как 0.00 в обеих ветках
	if roundsToZero(amount, digits) {
		amount = 0
	}
	if f.printer != nil {
		if s, ok := f.localized(amount, digits); ok {
			return s
		}
		metrics.FormatFallbacksTotal.WithLabelValues("currency").Inc()
		logger.Debug("localized formatting failed, using fixed format",
			zap.String("language", f.nf.Language.String()),
			zap.Float64("amount", amount))
	}
	return groupFixed(amount, digits, f.nf.DecimalSeparator, f.nf.GroupSeparator)
}

func (f *Formatter) localized(amount float64, digits int) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s, ok = "", false
		}
	}()
	s = f.printer.Sprint(number.Decimal(amount, number.Scale(digits)))
	return s, strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// groupFixed форматирует число как "{:,.Nf}" с заданными разделителями
func groupFixed(amount float64, digits int, decimalSep, groupSep string) string {
	raw := strconv.FormatFloat(math.Abs(amount), 'f', digits, 64)
	intPart, frac, _ := strings.Cut(raw, ".")

	var b strings.Builder
	if amount < 0 && !roundsToZero(amount, digits) {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(groupSep)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(decimalSep)
		b.WriteString(frac)
	}
	return b.String()
}

func roundsToZero(amount float64, digits int) bool {
	return strings.Trim(strconv.FormatFloat(math.Abs(amount), 'f', digits, 64), "0.") == ""
}

// ParseAmount разбирает сумму из поля формы, убирая запятые группировки.
// Для нечисловых значений возвращает 0 и false.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
