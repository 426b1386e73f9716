package format

import (
	"fmt"
	"math"
	"strings"

	"docgen-service-go/internal/pkg/logger"
	"docgen-service-go/internal/pkg/metrics"

	"github.com/divan/num2words"
	"go.uber.org/zap"
)

// WordsPolicy определяет, как дробные суммы переводятся в слова
type WordsPolicy int

const (
	// RoundThenConvert округляет до целого (половина от нуля) и переводит
	RoundThenConvert WordsPolicy = iota
	// LegacyDirect переводит только целые суммы, дробные печатаются числом
	LegacyDirect
)

// maxWords предел, после которого словесная форма не строится
const maxWords = 1e15

// ParseWordsPolicy разбирает значение из конфигурации: "round" или "legacy"
func ParseWordsPolicy(s string) (WordsPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "round":
		return RoundThenConvert, nil
	case "legacy":
		return LegacyDirect, nil
	default:
		return RoundThenConvert, fmt.Errorf("unknown words policy %q", s)
	}
}

func (p WordsPolicy) String() string {
	if p == LegacyDirect {
		return "legacy"
	}
	return "round"
}

// AmountInWords возвращает "One thousand two hundred and thirty-four <suffix>".
// При невозможности перевода печатается числовое значение; ошибок не бывает.
func (f *Formatter) AmountInWords(amount float64, suffix string) string {
	words, ok := f.words.convert(amount)
	if !ok {
		metrics.FormatFallbacksTotal.WithLabelValues("words").Inc()
		logger.Debug("amount in words fallback", zap.Float64("amount", amount))
		words = f.FormatCurrency(amount)
	}
	if suffix == "" {
		return words
	}
	return words + " " + suffix
}

func (p WordsPolicy) convert(amount float64) (string, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", false
	}

	var whole float64
	switch p {
	case LegacyDirect:
		if amount != math.Trunc(amount) {
			return "", false
		}
		whole = amount
	default:
		whole = math.Round(amount)
	}
	if math.Abs(whole) >= maxWords {
		return "", false
	}

	words := toWords(int(whole))
	if words == "" {
		return "", false
	}
	return capitalize(words), true
}

func toWords(n int) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = ""
		}
	}()
	return strings.TrimSpace(num2words.ConvertAnd(n))
}
