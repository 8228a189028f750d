package memory

import (
	"context"
	"sync"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/ports"
	"github.com/Gunvolt24/farm_orders/internal/pricing"
	"github.com/Gunvolt24/farm_orders/pkg/metrics"
)

// Проверка, что CatalogMemo удовлетворяет интерфейсу CatalogProvider.
var _ ports.CatalogProvider = (*CatalogMemo)(nil)

// CatalogMemo — мемоизация нормализованного каталога по отпечатку источника.
// Источник перечитывается только когда меняется его отпечаток; ошибки не кэшируются.
type CatalogMemo struct {
	loader  ports.CatalogLoader
	resolve func(string) string
	log     ports.Logger

	mu          sync.Mutex
	fingerprint string
	loaded      bool
	catalog     domain.Catalog
}

// NewCatalogMemo — конструктор; resolve приводит ссылки на изображения (nil — без изменений).
func NewCatalogMemo(loader ports.CatalogLoader, resolve func(string) string, log ports.Logger) *CatalogMemo {
	if resolve == nil {
		resolve = func(s string) string { return s }
	}
	return &CatalogMemo{loader: loader, resolve: resolve, log: log}
}

// Catalog — копия актуального каталога.
func (m *CatalogMemo) Catalog(ctx context.Context) (domain.Catalog, error) {
	fp, err := m.loader.Fingerprint(ctx)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return domain.Catalog{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded && m.fingerprint == fp {
		metrics.CatalogLoads.WithLabelValues("memo").Inc()
		return m.catalog.Clone(), nil
	}

	raw, err := m.loader.Load(ctx)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		return domain.Catalog{}, err
	}

	products, warnings, invalid := pricing.NormalizeCatalog(raw)
	for i := range products {
		products[i].ImageRef = m.resolve(products[i].ImageRef)
	}
	if warnings == nil {
		warnings = []string{}
	}

	m.catalog = domain.Catalog{Products: products, Warnings: warnings}
	m.fingerprint = fp
	m.loaded = true

	metrics.CatalogLoads.WithLabelValues("ok").Inc()
	metrics.InvalidPrices.Set(float64(invalid))
	if m.log != nil {
		m.log.Infof(ctx, "catalog loaded: products=%d invalid_prices=%d", len(products), invalid)
		for _, w := range warnings {
			m.log.Warnf(ctx, "catalog: %s", w)
		}
	}
	return m.catalog.Clone(), nil
}
