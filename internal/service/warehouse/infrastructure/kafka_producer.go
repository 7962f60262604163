package infrastructure

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/pkg/mq"
	"warehouse/internal/service/warehouse/domain"
)

// OrderEventProducerAdapter 实现了 port.OrderEventProducer 接口，
// 把订单生命周期事件写入 Kafka。消息按订单 ID 分区，
// 同一订单的事件保持顺序。
type OrderEventProducerAdapter struct {
	writer *kafka.Writer
}

// NewOrderEventProducerAdapter 创建一个新的事件生产者适配器。
func NewOrderEventProducerAdapter(writer *kafka.Writer) *OrderEventProducerAdapter {
	return &OrderEventProducerAdapter{writer: writer}
}

// Publish 发布一条订单事件。
func (p *OrderEventProducerAdapter) Publish(ctx context.Context, event *domain.OrderEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to marshal order event")
		return err
	}

	if err := mq.ProduceMessage(ctx, p.writer, []byte(event.OrderID.String()), eventBytes); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("event", string(event.Event)).Msg("failed to produce order event")
		return err
	}
	return nil
}
