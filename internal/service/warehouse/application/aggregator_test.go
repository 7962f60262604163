package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"warehouse/internal/service/warehouse/domain"
)

func TestGroupByProductEnrichesCustomers(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 100)
	alice := &domain.Customer{ID: 1, Login: "alice", Email: "alice@example.com", IsActive: true}
	bob := &domain.Customer{ID: 2, Login: "bob", Email: "bob@example.com", IsActive: true}

	aliceOrder := domain.NewOrder(alice, "alice street")
	aliceOrder.UpsertLine(product.ID, 3, decimal.RequireFromString("100.00"))
	bobOrder := domain.NewOrder(bob, "bob street")
	bobOrder.UpsertLine(product.ID, 5, decimal.RequireFromString("100.00"))
	bobOrder.OverrideStatus(domain.StatusConfirmed)

	// 取消的订单不出现在分组结果里
	cancelled := domain.NewOrder(alice, "nowhere")
	cancelled.UpsertLine(product.ID, 9, decimal.RequireFromString("100.00"))
	cancelled.OverrideStatus(domain.StatusCancelled)

	orders := newFakeOrderRepo(aliceOrder, bobOrder, cancelled)
	accounts := &fakeAccountService{accounts: map[string]string{"alice": "ACC-1", "bob": "ACC-2"}}
	crms := &fakeCrmService{crms: map[string]string{"alice": "CRM-1", "bob": "CRM-2"}}

	aggregator := NewOrderEnrichmentAggregator(orders, accounts, crms, testTracer, time.Second)
	grouped, err := aggregator.GroupByProduct(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	views := grouped[product.ID]
	if len(views) != 2 {
		t.Fatalf("expected 2 views for the product, got %d", len(views))
	}

	byOrder := make(map[string]ProductOrderView)
	for _, v := range views {
		byOrder[v.OrderID.String()] = v
	}
	aliceView := byOrder[aliceOrder.ID.String()]
	if aliceView.Customer.AccountNumber != "ACC-1" || aliceView.Customer.CRM != "CRM-1" {
		t.Errorf("expected alice enriched with ACC-1/CRM-1, got %+v", aliceView.Customer)
	}
	if aliceView.Quantity != 3 {
		t.Errorf("expected quantity 3 for alice, got %d", aliceView.Quantity)
	}
	bobView := byOrder[bobOrder.ID.String()]
	if bobView.Status != domain.StatusConfirmed {
		t.Errorf("expected bob order status CONFIRMED, got %s", bobView.Status)
	}
}

func TestGroupByProductFailsWhenAnyLookupFails(t *testing.T) {
	alice := &domain.Customer{ID: 1, Login: "alice", Email: "alice@example.com", IsActive: true}
	order := domain.NewOrder(alice, "addr")
	order.UpsertLine(newStockedProduct("A-1", "1", 1).ID, 1, decimal.RequireFromString("1"))

	orders := newFakeOrderRepo(order)
	accounts := &fakeAccountService{accounts: map[string]string{"alice": "ACC-1"}}
	crms := &fakeCrmService{err: errors.New("crm down")}

	aggregator := NewOrderEnrichmentAggregator(orders, accounts, crms, testTracer, time.Second)
	_, err := aggregator.GroupByProduct(context.Background())
	if !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestGroupByProductEmptyWhenNoActiveOrders(t *testing.T) {
	aggregator := NewOrderEnrichmentAggregator(newFakeOrderRepo(), &fakeAccountService{}, &fakeCrmService{}, testTracer, time.Second)
	grouped, err := aggregator.GroupByProduct(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grouped) != 0 {
		t.Errorf("expected empty result, got %d entries", len(grouped))
	}
}
