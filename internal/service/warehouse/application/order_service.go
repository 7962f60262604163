package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/warehouse/domain"
	"warehouse/internal/service/warehouse/domain/port"
)

// OrderApplicationService 驱动订单状态机：创建、加购、确认、
// 状态覆盖、取消，以及确认流程回调的业务键校验。
// 它只做流程编排，库存语义在 ReservationEngine 里。
type OrderApplicationService struct {
	orders    domain.OrderRepository
	customers domain.CustomerRepository
	engine    *ReservationEngine
	tx        domain.TxManager
	locker    port.StockLocker

	accounts     port.AccountService
	crms         port.CrmService
	confirmation port.ConfirmationService
	events       port.OrderEventProducer

	tracer        trace.Tracer
	lookupTimeout time.Duration
}

// NewOrderApplicationService 创建订单应用服务。
func NewOrderApplicationService(
	orders domain.OrderRepository,
	customers domain.CustomerRepository,
	engine *ReservationEngine,
	tx domain.TxManager,
	locker port.StockLocker,
	accounts port.AccountService,
	crms port.CrmService,
	confirmation port.ConfirmationService,
	events port.OrderEventProducer,
	tracer trace.Tracer,
	lookupTimeout time.Duration,
) *OrderApplicationService {
	return &OrderApplicationService{
		orders: orders, customers: customers, engine: engine, tx: tx, locker: locker,
		accounts: accounts, crms: crms, confirmation: confirmation, events: events,
		tracer: tracer, lookupTimeout: lookupTimeout,
	}
}

// Create 为指定购买方创建订单并预占请求的商品。
func (s *OrderApplicationService) Create(ctx context.Context, customerID int64, deliveryAddress string, lines []LineRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.Create")
	defer span.End()
	span.SetAttributes(attribute.Int64("customer.id", customerID))

	if deliveryAddress == "" {
		return nil, &domain.ValidationError{Reason: "delivery address is required"}
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order := domain.NewOrder(customer, deliveryAddress)

	unlock, err := s.lockProducts(ctx, ProductIDs(lines))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer unlock()

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.engine.Reserve(txCtx, order, lines); err != nil {
			return err
		}
		return s.orders.Save(txCtx, order)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation failed")
		return nil, err
	}

	s.publish(ctx, &domain.OrderEvent{
		Event:   domain.EventOrderCreated,
		OrderID: order.ID,
		Status:  order.Status,
		Login:   customer.Login,
	})

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID.String()).
		Int64("customer_id", customerID).
		Msg("order created")
	return order, nil
}

// Update 往已有订单追加预占。数量与已有行是累加关系。
func (s *OrderApplicationService) Update(ctx context.Context, orderID uuid.UUID, lines []LineRequest, requestingCustomerID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.Update")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	order, err := s.getOwnedOrder(ctx, orderID, requestingCustomerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !order.IsMutable() {
		return nil, &domain.IncorrectStateError{OrderID: order.ID, Status: order.Status}
	}

	unlock, err := s.lockProducts(ctx, ProductIDs(lines))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer unlock()

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.engine.Reserve(txCtx, order, lines); err != nil {
			return err
		}
		return s.orders.Save(txCtx, order)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order update failed")
		return nil, err
	}

	s.publish(ctx, &domain.OrderEvent{
		Event:   domain.EventOrderUpdated,
		OrderID: order.ID,
		Status:  order.Status,
	})
	return order, nil
}

// GetView 返回带冻结价明细和总价的订单视图。
func (s *OrderApplicationService) GetView(ctx context.Context, orderID uuid.UUID, requestingCustomerID int64) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "order.GetView")
	defer span.End()

	order, err := s.getOwnedOrder(ctx, orderID, requestingCustomerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return NewOrderView(order), nil
}

// Confirm 把订单提交给外部确认流程：
// CREATED → PROCESSING，并发获取账号与 CRM 标识（二者都必须成功），
// 按冻结价计算总额，同步调用确认服务并记录返回的业务键。
// 订单停留在 PROCESSING，等待外部回调推进到 CONFIRMED 或 REJECTED。
func (s *OrderApplicationService) Confirm(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.Confirm")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := order.MarkProcessing(); err != nil {
		return nil, err
	}

	login := order.Customer.Login
	accountNumber, crmID, err := s.lookupIdentity(ctx, login)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "identity lookup failed")
		return nil, err
	}

	businessKey, err := s.confirmation.ConfirmOrder(ctx, port.ConfirmOrderRequest{
		OrderID:               order.ID,
		OrderDeliveryAddress:  order.DeliveryAddress,
		CustomerCRM:           crmID,
		CustomerAccountNumber: accountNumber,
		OrderPrice:            order.TotalPrice(),
		CustomerLogin:         login,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "confirmation service failed")
		return nil, fmt.Errorf("%w: confirm order: %v", domain.ErrExternalService, err)
	}

	order.BusinessKey = businessKey
	if err := s.orders.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.publish(ctx, &domain.OrderEvent{
		Event:       domain.EventOrderStatusUpdated,
		OrderID:     order.ID,
		Status:      order.Status,
		BusinessKey: businessKey,
		Login:       login,
		CRM:         crmID,
	})

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID.String()).
		Str("business_key", businessKey).
		Msg("order submitted to confirmation workflow")
	return order, nil
}

// UpdateStatus 无条件覆盖订单状态（不做迁移表校验，与其他路径的
// CREATED 守卫不对称——这是确认流程回调依赖的既有行为）。
// 切到 CONFIRMED 时写入 now+7d 的交付日期。
func (s *OrderApplicationService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.Status) error {
	ctx, span := s.tracer.Start(ctx, "order.UpdateStatus")
	defer span.End()

	if !status.Valid() {
		return &domain.ValidationError{Reason: "unknown order status: " + string(status)}
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	order.OverrideStatus(status)
	if err := s.orders.Save(ctx, order); err != nil {
		span.RecordError(err)
		return err
	}

	s.publish(ctx, &domain.OrderEvent{
		Event:   domain.EventOrderStatusUpdated,
		OrderID: order.ID,
		Status:  order.Status,
	})
	return nil
}

// Cancel 取消一个 CREATED 状态的订单并把全部预占归还库存。
// 状态守卫保证释放只会发生一次。
func (s *OrderApplicationService) Cancel(ctx context.Context, orderID uuid.UUID, requestingCustomerID int64) error {
	ctx, span := s.tracer.Start(ctx, "order.Cancel")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID.String()))

	order, err := s.getOwnedOrder(ctx, orderID, requestingCustomerID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !order.IsMutable() {
		return &domain.IncorrectStateError{OrderID: order.ID, Status: order.Status}
	}

	ids := make([]uuid.UUID, 0, len(order.Lines))
	for _, line := range order.Lines {
		ids = append(ids, line.ProductID)
	}
	unlock, err := s.lockProducts(ctx, ids)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer unlock()

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.engine.Release(txCtx, order); err != nil {
			return err
		}
		if err := order.MarkCancelled(); err != nil {
			return err
		}
		return s.orders.Save(txCtx, order)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order cancellation failed")
		return err
	}

	s.publish(ctx, &domain.OrderEvent{
		Event:   domain.EventOrderCancelled,
		OrderID: order.ID,
		Status:  order.Status,
	})

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID.String()).
		Msg("order cancelled, stock released")
	return nil
}

// CheckBusinessKey 校验确认流程回调里携带的业务键与订单记录一致。
func (s *OrderApplicationService) CheckBusinessKey(ctx context.Context, orderID uuid.UUID, businessKey string) error {
	ctx, span := s.tracer.Start(ctx, "order.CheckBusinessKey")
	defer span.End()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if order.BusinessKey == "" || order.BusinessKey != businessKey {
		return &domain.BusinessKeyMismatchError{BusinessKey: businessKey}
	}
	return nil
}

// lookupIdentity 并发请求账户服务和 CRM 服务，两个结果都拿到才算成功。
// 查找有统一的超时，重试在适配器内部完成。
func (s *OrderApplicationService) lookupIdentity(ctx context.Context, login string) (accountNumber, crmID string, err error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(lookupCtx)
	var accounts, crms map[string]string

	g.Go(func() error {
		var err error
		accounts, err = s.accounts.GetAccounts(gCtx, []string{login})
		return err
	})
	g.Go(func() error {
		var err error
		crms, err = s.crms.GetCrms(gCtx, []string{login})
		return err
	})

	if err := g.Wait(); err != nil {
		return "", "", fmt.Errorf("%w: identity lookup: %v", domain.ErrExternalService, err)
	}

	accountNumber, okAccount := accounts[login]
	crmID, okCrm := crms[login]
	if !okAccount || !okCrm {
		return "", "", fmt.Errorf("%w: identity lookup returned no entry for login %q", domain.ErrExternalService, login)
	}
	return accountNumber, crmID, nil
}

// lockProducts 按排序后的顺序逐个获取商品锁，返回一次性的整体解锁函数。
// 固定的加锁顺序避免两个并发请求互相死锁。
func (s *OrderApplicationService) lockProducts(ctx context.Context, ids []uuid.UUID) (func(), error) {
	unlocks := make([]func() error, 0, len(ids))
	release := func() {
		// 与加锁相反的顺序释放
		for i := len(unlocks) - 1; i >= 0; i-- {
			if err := unlocks[i](); err != nil {
				logger.Ctx(ctx).Error().Err(err).Msg("failed to release stock lock")
			}
		}
	}

	for _, id := range ids {
		unlock, err := s.locker.Lock(ctx, id.String())
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

func (s *OrderApplicationService) getOwnedOrder(ctx context.Context, orderID uuid.UUID, requestingCustomerID int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != requestingCustomerID {
		return nil, &domain.ForbiddenError{}
	}
	return order, nil
}

// publish 发布生命周期事件；失败只记日志，不影响主流程。
func (s *OrderApplicationService) publish(ctx context.Context, event *domain.OrderEvent) {
	if s.events == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("event", string(event.Event)).
			Str("order_id", event.OrderID.String()).
			Msg("failed to publish order event")
	}
}
