package ports

import (
	"context"

	"github.com/Gunvolt24/farm_orders/internal/domain"
)

// CatalogLoader — источник каталога (xlsx, Postgres).
// Ошибки: catalog.ErrNotFound — источника нет, catalog.ErrInvalidStructure — нет листа/колонок.
type CatalogLoader interface {
	// Load — сырые строки каталога целиком (частичный каталог не допускается).
	Load(ctx context.Context) ([]domain.RawProduct, error)
	// Fingerprint — отпечаток содержимого источника; меняется при изменении данных.
	Fingerprint(ctx context.Context) (string, error)
}

// CatalogProvider — нормализованный каталог (с мемоизацией по отпечатку источника).
type CatalogProvider interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
}
