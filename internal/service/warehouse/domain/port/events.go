package port

import (
	"context"

	"warehouse/internal/service/warehouse/domain"
)

// OrderEventProducer 把订单生命周期事件发布到消息总线。
// 发布失败不应让主流程失败，由调用方记录错误。
type OrderEventProducer interface {
	Publish(ctx context.Context, event *domain.OrderEvent) error
}
