package infrastructure

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/pkg/mq"
	"warehouse/internal/service/warehouse/application"
	"warehouse/internal/service/warehouse/domain"
)

// WorkflowConsumerAdapter 是一个驱动适配器：监听外部确认流程的
// Kafka 回调并驱动订单应用服务。
type WorkflowConsumerAdapter struct {
	reader  *kafka.Reader
	appSvc  *application.OrderApplicationService
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewWorkflowConsumerAdapter 创建一个新的回调消费者适配器。
func NewWorkflowConsumerAdapter(reader *kafka.Reader, appSvc *application.OrderApplicationService) *WorkflowConsumerAdapter {
	return &WorkflowConsumerAdapter{
		reader: reader,
		appSvc: appSvc,
	}
}

// Start 开始监听回调主题。这是一个长期运行的方法。
func (a *WorkflowConsumerAdapter) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		logger.Logger().Info().Str("topic", a.reader.Config().Topic).Msg("workflow consumer started")
		for {
			if a.stopped.Load() {
				return
			}
			// 用 FetchMessage 而不是 ReadMessage，以便控制提交时机和退出逻辑
			msg, err := a.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Logger().Info().Msg("workflow consumer shutting down")
					return
				}
				logger.Logger().Error().Err(err).Msg("could not read message, retrying")
				time.Sleep(1 * time.Second)
				continue
			}

			a.processMessage(ctx, msg)

			if err := a.reader.CommitMessages(ctx, msg); err != nil {
				logger.Logger().Error().Err(err).Msg("failed to commit messages")
			}
		}
	}()
}

// Stop 优雅地停止消费者。Stop 在消费 goroutine 之外被调用，
// 所以停止标记必须是原子的。
func (a *WorkflowConsumerAdapter) Stop() {
	a.stopped.Store(true)
	_ = a.reader.Close()
	a.wg.Wait()
	logger.Logger().Info().Msg("workflow consumer stopped")
}

// processMessage 反序列化回调并按事件类型分发给应用服务。
func (a *WorkflowConsumerAdapter) processMessage(parentCtx context.Context, msg kafka.Message) {
	var event domain.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Logger().Error().Err(err).Msg("failed to unmarshal workflow event, message skipped")
		return
	}

	// 从消息头重建追踪上下文，让回调处理接到流程发起方的链路上
	propagator := otel.GetTextMapPropagator()
	headerCarrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := propagator.Extract(parentCtx, &headerCarrier)

	var err error
	switch event.Event {
	case domain.EventUpdateOrderStatus:
		err = a.appSvc.UpdateStatus(ctx, event.OrderID, event.Status)
	case domain.EventCheckOrderBusinessKey:
		err = a.appSvc.CheckBusinessKey(ctx, event.OrderID, event.BusinessKey)
	default:
		logger.Ctx(ctx).Warn().Str("event", string(event.Event)).Msg("unknown workflow event type, message skipped")
		return
	}
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("event", string(event.Event)).
			Str("order_id", event.OrderID.String()).
			Msg("failed to handle workflow event")
	}
}
