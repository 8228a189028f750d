package ports

import (
	"context"

	"github.com/Gunvolt24/farm_orders/internal/domain"
)

// RequestValidator — проверка входящего запроса заказа.
// requireClient — обязательность имени клиента (документ, e-mail).
type RequestValidator interface {
	Validate(ctx context.Context, req *domain.OrderRequest, requireClient bool) error
}
