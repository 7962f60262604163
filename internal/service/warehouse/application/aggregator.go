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

// EnrichedCustomerView 是补全了外部标识的购买方视图。
type EnrichedCustomerView struct {
	ID            int64  `json:"id"`
	AccountNumber string `json:"accountNumber"`
	Email         string `json:"email"`
	CRM           string `json:"crm"`
}

// ProductOrderView 是 groupByProduct 结果里的一条记录：
// 某个商品出现在某个订单里的一行。
type ProductOrderView struct {
	OrderID         uuid.UUID            `json:"orderId"`
	Customer        EnrichedCustomerView `json:"customer"`
	Status          domain.Status        `json:"status"`
	DeliveryAddress string               `json:"deliveryAddress"`
	Quantity        int64                `json:"quantity"`
}

// OrderEnrichmentAggregator 构建按商品分组的跨订单视图，
// 购买方信息用账户/CRM 两个外部服务并发补全。
type OrderEnrichmentAggregator struct {
	orders   domain.OrderRepository
	accounts port.AccountService
	crms     port.CrmService

	tracer        trace.Tracer
	lookupTimeout time.Duration
}

// NewOrderEnrichmentAggregator 创建聚合器。
func NewOrderEnrichmentAggregator(
	orders domain.OrderRepository,
	accounts port.AccountService,
	crms port.CrmService,
	tracer trace.Tracer,
	lookupTimeout time.Duration,
) *OrderEnrichmentAggregator {
	return &OrderEnrichmentAggregator{
		orders: orders, accounts: accounts, crms: crms,
		tracer: tracer, lookupTimeout: lookupTimeout,
	}
}

// GroupByProduct 加载 CREATED/CONFIRMED 状态的全部订单，收集去重后的
// 购买方登录名，并发请求两个外部服务，然后为每个 (订单, 行) 发出一条
// 以商品为键的视图记录。任何一个外部查找失败都让整个聚合失败，
// 不返回部分结果。
func (a *OrderEnrichmentAggregator) GroupByProduct(ctx context.Context) (map[uuid.UUID][]ProductOrderView, error) {
	ctx, span := a.tracer.Start(ctx, "order.GroupByProduct")
	defer span.End()

	orders, err := a.orders.FindByStatusIn(ctx, []domain.Status{domain.StatusCreated, domain.StatusConfirmed})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))

	logins := distinctLogins(orders)

	lookupCtx, cancel := context.WithTimeout(ctx, a.lookupTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(lookupCtx)
	var accounts, crms map[string]string
	g.Go(func() error {
		var err error
		accounts, err = a.accounts.GetAccounts(gCtx, logins)
		return err
	})
	g.Go(func() error {
		var err error
		crms, err = a.crms.GetCrms(gCtx, logins)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "external enrichment lookup failed")
		return nil, fmt.Errorf("%w: enrichment lookup: %v", domain.ErrExternalService, err)
	}

	result := make(map[uuid.UUID][]ProductOrderView)
	for _, order := range orders {
		customerView := EnrichedCustomerView{
			ID:            order.Customer.ID,
			AccountNumber: accounts[order.Customer.Login],
			Email:         order.Customer.Email,
			CRM:           crms[order.Customer.Login],
		}
		for _, line := range order.Lines {
			result[line.ProductID] = append(result[line.ProductID], ProductOrderView{
				OrderID:         order.ID,
				Customer:        customerView,
				Status:          order.Status,
				DeliveryAddress: order.DeliveryAddress,
				Quantity:        line.Quantity,
			})
		}
	}

	logger.Ctx(ctx).Info().
		Int("orders", len(orders)).
		Int("products", len(result)).
		Msg("orders grouped by product")
	return result, nil
}

func distinctLogins(orders []*domain.Order) []string {
	seen := make(map[string]struct{}, len(orders))
	logins := make([]string, 0, len(orders))
	for _, order := range orders {
		if order.Customer == nil {
			continue
		}
		if _, ok := seen[order.Customer.Login]; !ok {
			seen[order.Customer.Login] = struct{}{}
			logins = append(logins, order.Customer.Login)
		}
	}
	return logins
}
