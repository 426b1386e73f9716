package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"GoFar Media", "Glory Enterprises"}, cfg.Companies)
	assert.Equal(t, 0.3, cfg.Overlay.MinZoom)
	assert.Equal(t, "classic", cfg.Document.InvoiceStyle)
	assert.True(t, cfg.HasCompany("GoFar Media"))
	assert.False(t, cfg.HasCompany("gofar media"))
}

func TestFromYAML(t *testing.T) {
	cfg, err := FromYAML(strings.NewReader(`
server:
  address: ":9090"
  request_timeout: 5s
companies:
  - Acme Corp
document:
  invoice_style: boxed
  words_policy: legacy
format:
  group_separator: "."
  decimal_separator: ","
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"Acme Corp"}, cfg.Companies)
	assert.Equal(t, "boxed", cfg.Document.InvoiceStyle)
	assert.Equal(t, ",", cfg.Format.DecimalSeparator)
	// незаданные поля сохраняют значения по умолчанию
	assert.Equal(t, "generated_docs", cfg.Paths.Output)
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML(strings.NewReader("document:\n  invoice_style: fancy\noverlay:\n  min_zoom: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown invoice style")
	assert.Contains(t, err.Error(), "min zoom must be positive")

	_, err = FromYAML(strings.NewReader("companies: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCGEN_COMPANIES", "One Co, Two Co ,")
	t.Setenv("DOCGEN_OUTPUT_DIR", "/tmp/out")
	t.Setenv("DOCGEN_MIN_ZOOM", "0.5")
	t.Setenv("DOCGEN_DIGIT_SNIFF", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"One Co", "Two Co"}, cfg.Companies)
	assert.Equal(t, "/tmp/out", cfg.Paths.Output)
	assert.Equal(t, 0.5, cfg.Overlay.MinZoom)
	assert.True(t, cfg.Document.DigitSniff)
	assert.True(t, cfg.Tracing.Enabled)
}
