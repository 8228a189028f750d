package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/ports"
)

// RequestFromJSON — строгий разбор запроса заказа из JSON и его валидация.
// Неизвестные поля и данные после объекта — ошибка ErrInvalidRequest.
func RequestFromJSON(ctx context.Context, validator ports.RequestValidator, raw []byte, requireClient bool) (*domain.OrderRequest, error) {
	var req domain.OrderRequest
	if err := DecodeStrict(raw, &req); err != nil {
		return nil, err
	}
	if err := validator.Validate(ctx, &req, requireClient); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeStrict — строгий JSON-разбор в dst: неизвестные поля и хвост после объекта запрещены.
func DecodeStrict(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json: %v", ErrInvalidRequest, err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return fmt.Errorf("%w: invalid json: trailing data", ErrInvalidRequest)
	}
	return nil
}
