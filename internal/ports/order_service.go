package ports

import (
	"context"

	"github.com/Gunvolt24/farm_orders/internal/domain"
)

// EmailOutcome — результат отправки заказа по почте; документ сохраняется даже при неудаче.
type EmailOutcome struct {
	Result   DeliveryResult
	Document domain.Document
}

// OrderService — сценарии заказа для внешних слоёв (HTTP, Kafka).
type OrderService interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
	Preview(ctx context.Context, req domain.OrderRequest) (domain.OrderPreview, error)
	Document(ctx context.Context, req domain.OrderRequest) (domain.Document, error)
	Email(ctx context.Context, req domain.OrderRequest) (EmailOutcome, error)
}
