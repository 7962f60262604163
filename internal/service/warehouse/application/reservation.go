package application

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/warehouse/domain"
)

// LineRequest 是一条预占请求：给某个商品预占 quantity 件。
type LineRequest struct {
	ProductID uuid.UUID
	Quantity  int64
}

// ReservationEngine 把一组 (productId, quantity) 请求转换成已提交的订单行。
//
// 引擎自己不决定事务边界：调用方必须把 Reserve/Release 包进一个
// 原子单元（见 domain.TxManager），并在调用前按商品加锁
// （见 port.StockLocker），保证中途失败不会留下部分扣减、
// 并发预占不会超卖。
type ReservationEngine struct {
	products domain.ProductRepository
	tracer   trace.Tracer
}

// NewReservationEngine 创建预占引擎。
func NewReservationEngine(products domain.ProductRepository, tracer trace.Tracer) *ReservationEngine {
	return &ReservationEngine{products: products, tracer: tracer}
}

// groupRequests 按商品聚合请求并累加数量。
// 同一次调用里对同一商品的多条请求是累加关系，不是独立关系。
// 负数量直接拒绝；返回的 ID 列表已按字典序排序，保证每次调用
// 的处理顺序确定、可复现。
func groupRequests(requests []LineRequest) (map[uuid.UUID]int64, []uuid.UUID, error) {
	totals := make(map[uuid.UUID]int64, len(requests))
	for _, req := range requests {
		if req.Quantity < 0 {
			return nil, nil, &domain.ValidationError{Reason: "line quantity must not be negative"}
		}
		totals[req.ProductID] += req.Quantity
	}

	ids := make([]uuid.UUID, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return totals, ids, nil
}

// ProductIDs 返回一组请求涉及的去重且排序后的商品 ID。
// 调用方用它来决定加锁顺序；数量是否合法由 Reserve 负责。
func ProductIDs(requests []LineRequest) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(requests))
	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		if _, ok := seen[req.ProductID]; !ok {
			seen[req.ProductID] = struct{}{}
			ids = append(ids, req.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Reserve 校验并提交一组预占：逐个商品检查可售性与库存，
// 扣减库存并把数量并入订单行（冻结价取当前商品单价）。
// 任何一个商品失败都会让整体失败；回滚由外层事务完成。
func (e *ReservationEngine) Reserve(ctx context.Context, order *domain.Order, requests []LineRequest) error {
	ctx, span := e.tracer.Start(ctx, "reservation.Reserve")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.Int("request.lines", len(requests)),
	)

	if !order.IsMutable() {
		reservationFailuresTotal.WithLabelValues("incorrect_state").Inc()
		return &domain.IncorrectStateError{OrderID: order.ID, Status: order.Status}
	}

	totals, ids, err := groupRequests(requests)
	if err != nil {
		reservationFailuresTotal.WithLabelValues("validation").Inc()
		span.RecordError(err)
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	// 一次批量取出所有被引用的商品；任何缺失都在这里暴露
	productsByID, err := e.products.FindByIDs(ctx, ids)
	if err != nil {
		reservationFailuresTotal.WithLabelValues("product_not_found").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "bulk product fetch failed")
		return err
	}

	for _, productID := range ids {
		quantity := totals[productID]
		if quantity == 0 {
			// 数量 0 是显式的空操作：不建行、不动库存
			continue
		}
		product := productsByID[productID]

		if !product.IsAvailable {
			reservationFailuresTotal.WithLabelValues("not_available").Inc()
			return &domain.ProductNotAvailableError{ProductID: productID}
		}
		if !product.CanReserve(quantity) {
			reservationFailuresTotal.WithLabelValues("not_enough_stock").Inc()
			return &domain.NotEnoughStockError{
				ProductID: productID,
				Available: product.Quantity,
				Requested: quantity,
			}
		}

		product.Reserve(quantity)
		if err := e.products.Save(ctx, product); err != nil {
			span.RecordError(err)
			return err
		}
		order.UpsertLine(productID, quantity, product.Price)
		reservationsTotal.Inc()
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID.String()).
		Int("products", len(ids)).
		Msg("stock reserved")
	return nil
}

// Release 把订单每一行的数量归还给对应商品的库存。
// 调用方必须用状态守卫保证每个订单只会释放一次，
// 重复调用会导致库存重复入账。
func (e *ReservationEngine) Release(ctx context.Context, order *domain.Order) error {
	ctx, span := e.tracer.Start(ctx, "reservation.Release")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", order.ID.String()))

	if len(order.Lines) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(order.Lines))
	for _, line := range order.Lines {
		ids = append(ids, line.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	productsByID, err := e.products.FindByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		return err
	}

	for _, productID := range ids {
		line := order.Line(productID)
		product := productsByID[productID]
		product.Release(line.Quantity)
		if err := e.products.Save(ctx, product); err != nil {
			span.RecordError(err)
			return err
		}
		releasesTotal.Inc()
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID.String()).
		Int("lines", len(order.Lines)).
		Msg("reserved stock released")
	return nil
}
