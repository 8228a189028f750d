package ports

import (
	"context"

	"github.com/Gunvolt24/farm_orders/internal/domain"
)

// DocumentGenerator — чистая функция (order, client, note) -> PDF.
// Возвращает domain.ErrEmptyOrder для заказа без строк.
type DocumentGenerator interface {
	Generate(order domain.Order, client, note string) ([]byte, error)
}

// DocumentCache — кэш сгенерированных документов по ключу содержимого.
// Требования к реализации: потокобезопасность; Get возвращает копию байтов.
type DocumentCache interface {
	// Get — (bytes, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set — сохранить/обновить документ.
	Set(ctx context.Context, key string, doc []byte) error
}
