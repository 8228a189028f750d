package ports

import "context"

// Mail — письмо с вложением.
type Mail struct {
	Receiver       string
	Subject        string
	Body           string
	Attachment     []byte
	AttachmentName string
}

// DeliveryResult — итог отправки. Ошибки доставки — значения, а не error:
// Message показывается пользователю как есть.
type DeliveryResult struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
}

// DeliveryGateway — отправка документа получателю.
type DeliveryGateway interface {
	Send(ctx context.Context, mail Mail) DeliveryResult
}
