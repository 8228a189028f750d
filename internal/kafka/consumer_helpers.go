package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/pkg/ctxmeta"
	"github.com/Gunvolt24/farm_orders/pkg/metrics"
	"github.com/Gunvolt24/farm_orders/pkg/validate"
	"github.com/segmentio/kafka-go"
)

// handleMessage обрабатывает одно сообщение и определяет нужно ли коммитить оффсет.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	ctx = messageContext(ctx, topic, msg)
	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.service.HandleOrderMessage(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		// Заказ сформирован и отправлен: фиксируем метрику и коммитим оффсет
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	case errors.Is(err, validate.ErrInvalidRequest), domain.IsEmptyOrder(err):
		// Невалидный запрос или пустой заказ: логируем и коммитим, чтобы не обрабатывать повторно
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "invalid order message offset=%d: %v (skipped)", msg.Offset, err)
		return true
	case errors.Is(err, domain.ErrDeliveryFailed):
		// Бланк сформирован, почта отказала: повтор не исправит конфигурацию SMTP
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Errorf(ctx, "order delivery failed offset=%d: %v (committed)", msg.Offset, err)
		return true
	default:
		// Временная ошибка (каталог/таймаут): НЕ коммитим - будем обрабатывать повторно
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "process failed offset=%d: %v (will retry without commit)", msg.Offset, err)
		return false
	}
}

// messageContext — контекст обработки: канал kafka, request_id вида topic/partition/offset.
func messageContext(ctx context.Context, topic string, msg *kafka.Message) context.Context {
	ctx = ctxmeta.WithSource(ctx, ctxmeta.SourceKafka)
	return ctxmeta.WithRequestID(ctx, fmt.Sprintf("%s/%d/%d", topic, msg.Partition, msg.Offset))
}

// commitSafely пытается закоммитить оффсет и залогировать ошибку.
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждет backoff или останавливается по контексту.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// nextBackoff возвращает следующее время ожидания повтора с учетом retryMax.
func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > c.retryMax {
		return c.retryMax
	}
	return current
}

// withJitterEqual — умеренная случайность: половина задержки фиксирована,
// вторая половина — случайная. Баланс между стабильностью и случайностью.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(c.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}

// minDuration возвращает минимальное время из двух.
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
