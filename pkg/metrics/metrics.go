package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of order requests fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of order requests processed and committed",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of order requests failed to process",
		},
		[]string{"topic"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_cache_operations_total",
			Help: "Document cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "document_cache_size",
			Help: "Number of documents currently in cache",
		},
	)
)

var (
	OrdersBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_built_total",
			Help: "Orders aggregated from catalog selections",
		},
		[]string{"outcome"}, // filled|empty
	)
	DocumentsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_generated_total",
			Help: "Order documents produced",
		},
		[]string{"source"}, // rendered|cache
	)
	DeliveryResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliveries_total",
			Help: "E-mail delivery attempts",
		},
		[]string{"result"}, // ok|failed
	)
	CatalogLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog source reads",
		},
		[]string{"result"}, // ok|memo|error
	)
	InvalidPrices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_invalid_prices",
			Help: "Products with unparseable price in the last loaded catalog",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в DefaultRegisterer; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
			CacheOps, CacheSize,
			OrdersBuilt, DocumentsGenerated, DeliveryResults, CatalogLoads, InvalidPrices,
		)
	})
}
