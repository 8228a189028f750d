package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/farm_orders/internal/document"
	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/ports"
	"github.com/Gunvolt24/farm_orders/internal/pricing"
	"github.com/Gunvolt24/farm_orders/pkg/metrics"
	"github.com/Gunvolt24/farm_orders/pkg/telemetry"
	"github.com/Gunvolt24/farm_orders/pkg/validate"
	"golang.org/x/sync/singleflight"
)

// Проверка, что OrderService удовлетворяет интерфейсу OrderService.
var _ ports.OrderService = (*OrderService)(nil)

// Тексты письма.
const (
	mailSubjectPrefix = "Commande de la part de "
	mailBody          = "Commande générée depuis l'application."
)

// Options — необязательные параметры сервиса.
type Options struct {
	// DefaultReceiver — получатель, если в запросе он не указан.
	DefaultReceiver string
	// Now — часы (локальное время фермы); по умолчанию time.Now.
	Now func() time.Time
}

// OrderService — сценарии заказа: каталог, предпросмотр, документ, отправка.
// Состояние заказа не хранится: каждый вызов строит заказ заново из каталога и выбора.
type OrderService struct {
	catalog   ports.CatalogProvider
	generator ports.DocumentGenerator
	cache     ports.DocumentCache
	mailer    ports.DeliveryGateway
	validator ports.RequestValidator
	log       ports.Logger

	defaultReceiver string
	now             func() time.Time
	group           singleflight.Group
}

// NewOrderService — конструктор; cache и mailer могут быть nil.
func NewOrderService(
	catalog ports.CatalogProvider,
	generator ports.DocumentGenerator,
	cache ports.DocumentCache,
	mailer ports.DeliveryGateway,
	validator ports.RequestValidator,
	log ports.Logger,
	opts Options,
) *OrderService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		catalog:         catalog,
		generator:       generator,
		cache:           cache,
		mailer:          mailer,
		validator:       validator,
		log:             log,
		defaultReceiver: opts.DefaultReceiver,
		now:             now,
	}
}

// Catalog — нормализованный каталог с предупреждениями.
func (s *OrderService) Catalog(ctx context.Context) (domain.Catalog, error) {
	return s.catalog.Catalog(ctx)
}

// Preview — заказ по выбору покупателя. Пустой заказ — не ошибка.
func (s *OrderService) Preview(ctx context.Context, req domain.OrderRequest) (domain.OrderPreview, error) {
	if err := s.validator.Validate(ctx, &req, false); err != nil {
		return domain.OrderPreview{}, err
	}
	return s.preview(ctx, req)
}

func (s *OrderService) preview(ctx context.Context, req domain.OrderRequest) (domain.OrderPreview, error) {
	cat, err := s.catalog.Catalog(ctx)
	if err != nil {
		return domain.OrderPreview{}, err
	}

	rows, joinWarnings := JoinSelections(cat.Products, req.Selections)
	order := BuildOrder(rows)
	if order.IsEmpty() {
		metrics.OrdersBuilt.WithLabelValues("empty").Inc()
	} else {
		metrics.OrdersBuilt.WithLabelValues("filled").Inc()
	}

	warnings := make([]string, 0, len(cat.Warnings)+len(joinWarnings))
	warnings = append(warnings, cat.Warnings...)
	warnings = append(warnings, joinWarnings...)

	return domain.OrderPreview{
		Order:      order,
		Warnings:   warnings,
		LineCount:  len(order.Lines),
		TotalLabel: pricing.FormatEuro(order.GrandTotal),
		UpdatedAt:  s.now(),
	}, nil
}

// Document — PDF-бланк заказа. Имя клиента обязательно;
// пустой заказ — domain.ErrEmptyOrder без обращения к генератору.
func (s *OrderService) Document(ctx context.Context, req domain.OrderRequest) (doc domain.Document, err error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderService.Document")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.validator.Validate(ctx, &req, true); err != nil {
		return domain.Document{}, err
	}
	preview, err := s.preview(ctx, req)
	if err != nil {
		return domain.Document{}, err
	}
	if preview.Order.IsEmpty() {
		return domain.Document{}, domain.ErrEmptyOrder
	}

	data, err := s.render(ctx, preview.Order, req.ClientName, req.Note)
	if err != nil {
		return domain.Document{}, err
	}

	return domain.Document{
		Bytes:     data,
		FileName:  document.FileName(req.ClientName, preview.UpdatedAt),
		MediaType: domain.MediaTypePDF,
		Preview:   preview,
	}, nil
}

// render — генерация с кэшем по хэшу содержимого; одновременные одинаковые
// запросы схлопываются в одну генерацию.
func (s *OrderService) render(ctx context.Context, order domain.Order, client, note string) ([]byte, error) {
	key := document.CacheKey(order, client, note)
	if s.cache != nil && key != "" {
		if data, ok := s.cache.Get(ctx, key); ok {
			metrics.DocumentsGenerated.WithLabelValues("cache").Inc()
			return data, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		data, err := s.generator.Generate(order, client, note)
		if err != nil {
			return nil, err
		}
		metrics.DocumentsGenerated.WithLabelValues("rendered").Inc()
		if s.cache != nil && key != "" {
			if err := s.cache.Set(ctx, key, data); err != nil {
				s.log.Warnf(ctx, "document cache set failed: %v", err)
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate document: %w", err)
	}
	// копия: результат singleflight общий для всех ожидающих
	data := v.([]byte)
	return append([]byte(nil), data...), nil
}

// Email — формирует документ и отправляет его. Ошибка доставки возвращается
// значением в EmailOutcome.Result; документ остаётся в EmailOutcome.Document.
func (s *OrderService) Email(ctx context.Context, req domain.OrderRequest) (out ports.EmailOutcome, err error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderService.Email")
	defer func() { telemetry.EndSpan(span, err) }()

	doc, err := s.Document(ctx, req)
	if err != nil {
		return ports.EmailOutcome{}, err
	}

	receiver := req.Receiver
	if receiver == "" {
		receiver = s.defaultReceiver
	}

	var result ports.DeliveryResult
	if s.mailer == nil {
		result = ports.DeliveryResult{OK: false, Message: "Envoi par e-mail indisponible."}
	} else {
		result = s.mailer.Send(ctx, ports.Mail{
			Receiver:       receiver,
			Subject:        mailSubjectPrefix + req.ClientName,
			Body:           mailBody,
			Attachment:     doc.Bytes,
			AttachmentName: doc.FileName,
		})
	}

	if result.OK {
		metrics.DeliveryResults.WithLabelValues("ok").Inc()
		s.log.Infof(ctx, "order document %s sent to %s", doc.FileName, receiver)
	} else {
		metrics.DeliveryResults.WithLabelValues("failed").Inc()
		s.log.Warnf(ctx, "order document %s not delivered: %s", doc.FileName, result.Message)
	}
	return ports.EmailOutcome{Result: result, Document: doc}, nil
}

// HandleOrderMessage — обработка запроса из очереди: разбор, документ, отправка.
// Ошибки: validate.ErrInvalidRequest, domain.ErrEmptyOrder, domain.ErrDeliveryFailed
// (все три — окончательные), остальные — временные.
func (s *OrderService) HandleOrderMessage(ctx context.Context, raw []byte) error {
	req, err := validate.RequestFromJSON(ctx, s.validator, raw, true)
	if err != nil {
		return err
	}
	outcome, err := s.Email(ctx, *req)
	if err != nil {
		return err
	}
	if !outcome.Result.OK {
		return fmt.Errorf("%w: %s", domain.ErrDeliveryFailed, outcome.Result.Message)
	}
	return nil
}
