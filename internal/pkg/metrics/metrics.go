package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal количество HTTP запросов
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration длительность HTTP запросов
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// DocumentGenerationTotal количество генераций документов по типу и статусу
	DocumentGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_generation_total",
			Help: "Total number of document generations",
		},
		[]string{"document_type", "status"},
	)

	// DocumentGenerationDuration длительность генерации документа
	DocumentGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgen_generation_duration_seconds",
			Help:    "Duration of document generation in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"document_type"},
	)

	// DocumentFileSizeBytes размер сгенерированных PDF
	DocumentFileSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgen_file_size_bytes",
			Help:    "Size of generated PDF files in bytes",
			Buckets: prometheus.ExponentialBuckets(4*1024, 2, 10),
		},
		[]string{"document_type"},
	)

	// TableRowsRendered количество строк таблиц (с учетом пустых строк-заполнителей)
	TableRowsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_table_rows_total",
			Help: "Total number of table rows laid out",
		},
		[]string{"kind"},
	)

	// OverlaySavesTotal количество сохранений подписей/печатей
	OverlaySavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_overlay_saves_total",
			Help: "Total number of overlay save operations",
		},
		[]string{"status"},
	)

	// OverlayItemsTotal результаты встраивания отдельных изображений
	OverlayItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_overlay_items_total",
			Help: "Total number of overlay items embedded or skipped",
		},
		[]string{"status"},
	)

	// OverlaySessionsActive текущее количество сессий редактирования
	OverlaySessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docgen_overlay_sessions_active",
			Help: "Current number of open overlay editing sessions",
		},
	)

	// TempFilesCurrent текущее количество временных файлов
	TempFilesCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docgen_temp_files_current",
			Help: "Current number of transient overlay image files",
		},
	)

	// TempFileErrors ошибки работы с временными файлами
	TempFileErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_temp_file_errors_total",
			Help: "Total number of temporary file errors",
		},
		[]string{"operation"},
	)

	// FormatFallbacksTotal сколько раз форматирование ушло в запасной вариант
	FormatFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_format_fallbacks_total",
			Help: "Total number of formatting fallbacks",
		},
		[]string{"formatter"},
	)
)
