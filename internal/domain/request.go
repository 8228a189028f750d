package domain

import "errors"

// MediaTypePDF — тип содержимого бланка заказа.
const MediaTypePDF = "application/pdf"

// Selection — выбор покупателя во входящем запросе (HTTP/Kafka).
// Строка каталога ищется по Row (если задан), иначе по имени товара.
type Selection struct {
	Row      *int     `json:"row,omitempty" validate:"omitempty,min=0"`
	Name     string   `json:"name" validate:"max=200"`
	Selected bool     `json:"selected"`
	Quantity *float64 `json:"quantity"`
}

// OrderRequest — запрос покупателя: выбор товаров и данные для бланка.
// Длина примечания не проверяется: генератор обрезает его до document.MaxNoteLength.
type OrderRequest struct {
	ClientName string      `json:"client_name" validate:"max=200"`
	Note       string      `json:"note"`
	Receiver   string      `json:"receiver,omitempty" validate:"omitempty,email"`
	Selections []Selection `json:"selections" validate:"max=1000,dive"`
}

// ErrDeliveryFailed — документ сформирован, но доставка не удалась (сообщение шлюза в обёртке).
var ErrDeliveryFailed = errors.New("order delivery failed")
