package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/warehouse/domain"
)

// PriceEscalator 是一次全量调价的策略接口。
// 不同策略在正确性上等价，只在数据量大时的开销上不同。
type PriceEscalator interface {
	// IncreasePrices 把所有商品价格上调 percent%，返回受影响的商品数。
	IncreasePrices(ctx context.Context, percent decimal.Decimal) (int64, error)
}

// SimplePriceEscalator 逐个加载、修改、保存。实现直白，
// 适合小目录；整个批次在一个事务里完成。
type SimplePriceEscalator struct {
	products domain.ProductRepository
	tx       domain.TxManager
}

// NewSimplePriceEscalator 创建 simple 策略。
func NewSimplePriceEscalator(products domain.ProductRepository, tx domain.TxManager) *SimplePriceEscalator {
	return &SimplePriceEscalator{products: products, tx: tx}
}

func (e *SimplePriceEscalator) IncreasePrices(ctx context.Context, percent decimal.Decimal) (int64, error) {
	factor := decimal.NewFromInt(1).Add(percent.Div(decimal.NewFromInt(100)))
	var updated int64
	err := e.tx.WithinTx(ctx, func(txCtx context.Context) error {
		products, err := e.products.FindAll(txCtx)
		if err != nil {
			return err
		}
		for _, product := range products {
			product.Price = product.Price.Mul(factor).Round(2)
			if err := e.products.Save(txCtx, product); err != nil {
				return err
			}
		}
		updated = int64(len(products))
		return nil
	})
	return updated, err
}

// BatchedPriceEscalator 用一条 UPDATE 语句在数据库内完成调价，
// 不把商品拉到应用内存。
type BatchedPriceEscalator struct {
	products domain.ProductRepository
}

// NewBatchedPriceEscalator 创建 batched 策略。
func NewBatchedPriceEscalator(products domain.ProductRepository) *BatchedPriceEscalator {
	return &BatchedPriceEscalator{products: products}
}

func (e *BatchedPriceEscalator) IncreasePrices(ctx context.Context, percent decimal.Decimal) (int64, error) {
	return e.products.IncreaseAllPrices(ctx, percent)
}

// PriceScheduler 周期性执行全量调价任务。
type PriceScheduler struct {
	escalator PriceEscalator
	percent   decimal.Decimal
	period    time.Duration
	tracer    trace.Tracer
}

// NewPriceScheduler 创建调价调度器。
func NewPriceScheduler(escalator PriceEscalator, percent decimal.Decimal, period time.Duration, tracer trace.Tracer) *PriceScheduler {
	return &PriceScheduler{escalator: escalator, percent: percent, period: period, tracer: tracer}
}

// Start 启动调度循环，直到 ctx 结束。应在独立的 goroutine 中运行。
func (s *PriceScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	logger.Ctx(ctx).Info().
		Str("percent", s.percent.String()).
		Dur("period", s.period).
		Msg("price scheduler started")

	for {
		select {
		case <-ctx.Done():
			logger.Ctx(ctx).Info().Msg("price scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *PriceScheduler) runOnce(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "scheduler.IncreasePrices")
	defer span.End()

	started := time.Now()
	updated, err := s.escalator.IncreasePrices(ctx, s.percent)
	elapsed := time.Since(started)
	span.SetAttributes(attribute.Int64("products.updated", updated))

	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Dur("elapsed", elapsed).Msg("price escalation failed")
		return
	}
	logger.Ctx(ctx).Info().
		Int64("updated", updated).
		Dur("elapsed", elapsed).
		Msg("price escalation finished")
}
