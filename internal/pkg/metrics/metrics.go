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

	// ContractGenerationTotal количество запросов на генерацию договора
	ContractGenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_generation_total",
			Help: "Total number of contract generation requests",
		},
		[]string{"status"},
	)

	// ContractGenerationDuration длительность генерации договора
	ContractGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contract_generation_duration_seconds",
			Help:    "Duration of contract generation in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"template"},
	)

	// DocumentFileSizeBytes размер сгенерированных документов
	DocumentFileSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "document_file_size_bytes",
			Help:    "Size of generated documents in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024},
		},
		[]string{"format"},
	)

	// PlaceholderReplacements количество замененных плейсхолдеров на документ
	PlaceholderReplacements = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "placeholder_replacements_per_document",
			Help:    "Number of placeholder replacements made per filled document",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"template"},
	)

	// PlaceholderMismatchTotal документы, в которых не нашлось ни одного плейсхолдера
	PlaceholderMismatchTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "placeholder_mismatch_total",
			Help: "Documents filled with zero matched placeholders",
		},
	)

	// ConversionRequestsTotal количество запросов к внешним конвертерам
	ConversionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversion_requests_total",
			Help: "Total number of requests to external document converters",
		},
		[]string{"converter", "status"},
	)

	// ConversionRequestDuration длительность конвертации
	ConversionRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conversion_request_duration_seconds",
			Help:    "Duration of external converter requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"converter", "operation"},
	)

	// VerificationTotal результаты проверки кодов подписания
	VerificationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_total",
			Help: "Total number of contract verification attempts",
		},
		[]string{"result"},
	)

	// DeliveryAttemptsTotal попытки доставки документов клиенту
	DeliveryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_attempts_total",
			Help: "Total number of document delivery attempts",
		},
		[]string{"channel", "status"},
	)

	// RetryAttemptsTotal попытки выполнения операций с retry
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts",
		},
		[]string{"operation", "attempt", "status"},
	)

	// RetryBackoffDuration длительность задержек между попытками
	RetryBackoffDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retry_backoff_duration_seconds",
			Help:    "Duration of backoff delays between retry attempts",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	// CacheHitsTotal попадания в кэш шаблонов
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_cache_hits_total",
			Help: "Total number of template cache hits and misses",
		},
		[]string{"result"},
	)
)
