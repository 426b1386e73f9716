package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFormatCurrency(t *testing.T) {
	localized := New(DefaultNumberFormat(), RoundThenConvert)
	fixed := New(NumberFormat{Language: language.Und}, RoundThenConvert)

	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"grouping and two decimals", 1234.5, "1,234.50"},
		{"zero", 0, "0.00"},
		{"millions", 1234567.891, "1,234,567.89"},
		{"negative", -1234.5, "-1,234.50"},
		{"below thousand", 999, "999.00"},
		{"negative rounding to zero", -0.004, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, localized.FormatCurrency(tt.amount), "localized")
			assert.Equal(t, tt.want, fixed.FormatCurrency(tt.amount), "fixed")
		})
	}
}

func TestFormatCurrency_CustomSeparators(t *testing.T) {
	f := New(NumberFormat{
		Language:         language.Und,
		DecimalSeparator: ",",
		GroupSeparator:   ".",
	}, RoundThenConvert)

	assert.Equal(t, "1.234,50", f.FormatCurrency(1234.5))
	assert.Equal(t, "12.345", f.FormatWhole(12345.4))
}

func TestFormatCurrency_NonFinite(t *testing.T) {
	f := New(DefaultNumberFormat(), RoundThenConvert)

	assert.NotPanics(t, func() {
		assert.Equal(t, "NaN", f.FormatCurrency(math.NaN()))
		assert.Equal(t, "+Inf", f.FormatCurrency(math.Inf(1)))
	})
}

func TestFormatWhole(t *testing.T) {
	f := New(DefaultNumberFormat(), RoundThenConvert)

	assert.Equal(t, "1,234", f.FormatWhole(1234))
	assert.Equal(t, "150,000", f.FormatWhole(150000))
	assert.Equal(t, "0", f.FormatWhole(-0.4))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.50", 1234.5, true},
		{" 500 ", 500, true},
		{"-20", -20, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, language.AmericanEnglish, ParseLanguage("en-US"))
	assert.Equal(t, language.Und, ParseLanguage("not a tag!"))
}
