package layout

import (
	"math"
	"strings"
	"unicode/utf8"
)

// MonospaceMeasurer измеряет текст, считая все символы одинаковой ширины.
// Переносы строк в тексте учитываются как отдельные абзацы.
type MonospaceMeasurer struct {
	CharWidth float64
}

func (m MonospaceMeasurer) SplitLines(text string, width float64) int {
	if m.CharWidth <= 0 || width <= 0 {
		return 1
	}
	perLine := math.Floor(width / m.CharWidth)
	if perLine < 1 {
		perLine = 1
	}

	total := 0
	for _, para := range strings.Split(text, "\n") {
		n := int(math.Ceil(float64(utf8.RuneCountInString(para)) / perLine))
		if n < 1 {
			n = 1
		}
		total += n
	}
	return total
}
