package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config настройки сервиса генерации документов
type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Log       LogConfig      `yaml:"log"`
	Paths     PathsConfig    `yaml:"paths"`
	Companies []string       `yaml:"companies"`
	Format    FormatConfig   `yaml:"format"`
	Document  DocumentConfig `yaml:"document"`
	Overlay   OverlayConfig  `yaml:"overlay"`
	Database  DatabaseConfig `yaml:"database"`
	Tracing   TracingConfig  `yaml:"tracing"`
	Cache     CacheConfig    `yaml:"cache"`
}

type ServerConfig struct {
	Address        string        `yaml:"address"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// PathsConfig каталоги с ресурсами и результатами
type PathsConfig struct {
	Letterheads string `yaml:"letterheads"`
	Output      string `yaml:"output"`
	Signature   string `yaml:"signature"`
	Stamp       string `yaml:"stamp"`
}

// FormatConfig явная конфигурация форматирования чисел
type FormatConfig struct {
	Language         string `yaml:"language"`
	DecimalSeparator string `yaml:"decimal_separator"`
	GroupSeparator   string `yaml:"group_separator"`
	CurrencySuffix   string `yaml:"currency_suffix"`
}

// DocumentConfig политики оформления документов
type DocumentConfig struct {
	InvoiceStyle string `yaml:"invoice_style"`
	WordsPolicy  string `yaml:"words_policy"`
	DigitSniff   bool   `yaml:"digit_sniff"`
}

// OverlayConfig параметры редактора подписей и печатей
type OverlayConfig struct {
	MinZoom    float64       `yaml:"min_zoom"`
	ZoomStep   float64       `yaml:"zoom_step"`
	TempDir    string        `yaml:"temp_dir"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	// Root каталог, за пределы которого не выходят пути HTTP API; пустой без ограничений
	Root string `yaml:"root"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
	Environment  string  `yaml:"environment"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        ":8080",
			RequestTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info", Encoding: "json"},
		Paths: PathsConfig{
			Letterheads: "assets/letterheads",
			Output:      "generated_docs",
		},
		Companies: []string{"GoFar Media", "Glory Enterprises"},
		Format: FormatConfig{
			Language:         "en-US",
			DecimalSeparator: ".",
			GroupSeparator:   ",",
			CurrencySuffix:   "rupees only",
		},
		Document: DocumentConfig{
			InvoiceStyle: "classic",
			WordsPolicy:  "round",
		},
		Overlay: OverlayConfig{
			MinZoom:    0.3,
			ZoomStep:   0.1,
			SessionTTL: 2 * time.Hour,
		},
		Tracing: TracingConfig{SamplingRate: 1.0, Environment: "development"},
		Cache:   CacheConfig{TTL: 10 * time.Minute},
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML файл
// из DOCGEN_CONFIG (если задан), затем переменные окружения.
// Файл .env в рабочем каталоге подхватывается, если он есть.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("DOCGEN_CONFIG"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// FromYAML разбирает YAML поверх значений по умолчанию
func FromYAML(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Server.Address = getEnvWithDefault("DOCGEN_ADDR", c.Server.Address)
	c.Server.RequestTimeout = getEnvDurationWithDefault("DOCGEN_REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Log.Level = getEnvWithDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Encoding = getEnvWithDefault("LOG_ENCODING", c.Log.Encoding)

	c.Paths.Letterheads = getEnvWithDefault("DOCGEN_LETTERHEAD_DIR", c.Paths.Letterheads)
	c.Paths.Output = getEnvWithDefault("DOCGEN_OUTPUT_DIR", c.Paths.Output)
	c.Paths.Signature = getEnvWithDefault("DOCGEN_SIGNATURE", c.Paths.Signature)
	c.Paths.Stamp = getEnvWithDefault("DOCGEN_STAMP", c.Paths.Stamp)
	if v := os.Getenv("DOCGEN_COMPANIES"); v != "" {
		c.Companies = splitList(v)
	}

	c.Format.Language = getEnvWithDefault("DOCGEN_LANGUAGE", c.Format.Language)
	c.Document.InvoiceStyle = getEnvWithDefault("DOCGEN_INVOICE_STYLE", c.Document.InvoiceStyle)
	c.Document.WordsPolicy = getEnvWithDefault("DOCGEN_WORDS_POLICY", c.Document.WordsPolicy)
	c.Document.DigitSniff = getEnvBoolWithDefault("DOCGEN_DIGIT_SNIFF", c.Document.DigitSniff)

	c.Overlay.MinZoom = getEnvFloatWithDefault("DOCGEN_MIN_ZOOM", c.Overlay.MinZoom)
	c.Overlay.ZoomStep = getEnvFloatWithDefault("DOCGEN_ZOOM_STEP", c.Overlay.ZoomStep)
	c.Overlay.TempDir = getEnvWithDefault("DOCGEN_TEMP_DIR", c.Overlay.TempDir)
	c.Overlay.SessionTTL = getEnvDurationWithDefault("DOCGEN_SESSION_TTL", c.Overlay.SessionTTL)
	c.Overlay.Root = getEnvWithDefault("DOCGEN_OVERLAY_ROOT", c.Overlay.Root)

	c.Database.URL = getEnvWithDefault("DATABASE_URL", c.Database.URL)

	c.Tracing.Endpoint = getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.Endpoint)
	c.Tracing.Enabled = getEnvBoolWithDefault("TRACING_ENABLED", c.Tracing.Enabled || c.Tracing.Endpoint != "")
	c.Tracing.SamplingRate = getEnvFloatWithDefault("TRACING_SAMPLING_RATE", c.Tracing.SamplingRate)
	c.Tracing.Environment = getEnvWithDefault("ENVIRONMENT", c.Tracing.Environment)

	c.Cache.TTL = getEnvDurationWithDefault("DOCGEN_CACHE_TTL", c.Cache.TTL)
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error
	if len(c.Companies) == 0 {
		errs = append(errs, errors.New("at least one company must be configured"))
	}
	if c.Paths.Letterheads == "" {
		errs = append(errs, errors.New("letterhead directory is empty"))
	}
	if c.Paths.Output == "" {
		errs = append(errs, errors.New("output directory is empty"))
	}
	if c.Overlay.MinZoom <= 0 {
		errs = append(errs, fmt.Errorf("min zoom must be positive, got %v", c.Overlay.MinZoom))
	}
	if c.Overlay.ZoomStep <= 0 {
		errs = append(errs, fmt.Errorf("zoom step must be positive, got %v", c.Overlay.ZoomStep))
	}
	switch strings.ToLower(c.Document.InvoiceStyle) {
	case "classic", "boxed":
	default:
		errs = append(errs, fmt.Errorf("unknown invoice style %q", c.Document.InvoiceStyle))
	}
	switch strings.ToLower(c.Document.WordsPolicy) {
	case "round", "legacy":
	default:
		errs = append(errs, fmt.Errorf("unknown words policy %q", c.Document.WordsPolicy))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// HasCompany проверяет, что компания есть в списке
func (c *Config) HasCompany(name string) bool {
	for _, company := range c.Companies {
		if company == name {
			return true
		}
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvWithDefault возвращает значение переменной окружения или значение по умолчанию
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDurationWithDefault возвращает значение длительности из переменной окружения или значение по умолчанию
func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
