package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"warehouse/internal/service/warehouse/domain"
)

var testTracer = otel.Tracer("test")

func newStockedProduct(article string, price string, quantity int64) *domain.Product {
	return domain.NewProduct("product "+article, article, "", domain.CategoryOther, decimal.RequireFromString(price), quantity)
}

func newCreatedOrder() *domain.Order {
	customer := &domain.Customer{ID: 7, Login: "bob", Email: "bob@example.com", IsActive: true}
	return domain.NewOrder(customer, "Main street 1")
}

func TestReserveDecrementsStockAndCreatesLine(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	repo := newFakeProductRepo(product)
	engine := NewReservationEngine(repo, testTracer)
	order := newCreatedOrder()

	err := engine.Reserve(context.Background(), order, []LineRequest{{ProductID: product.ID, Quantity: 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := repo.quantityOf(product.ID); got != 6 {
		t.Errorf("expected remaining stock 6, got %d", got)
	}
	line := order.Line(product.ID)
	if line == nil || line.Quantity != 4 {
		t.Fatalf("expected order line with quantity 4, got %+v", line)
	}
	if !line.FrozenPrice.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected frozen price 100.00, got %s", line.FrozenPrice)
	}
}

func TestReserveMergesRepeatedRequestsForSameProduct(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	repo := newFakeProductRepo(product)
	engine := NewReservationEngine(repo, testTracer)
	order := newCreatedOrder()

	// 同一次调用内的重复请求按商品累加
	err := engine.Reserve(context.Background(), order, []LineRequest{
		{ProductID: product.ID, Quantity: 3},
		{ProductID: product.ID, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line := order.Line(product.ID); line.Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", line.Quantity)
	}
	if got := repo.quantityOf(product.ID); got != 5 {
		t.Errorf("expected remaining stock 5, got %d", got)
	}
}

func TestReserveAcrossCallsRefreshesFrozenPrice(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	repo := newFakeProductRepo(product)
	engine := NewReservationEngine(repo, testTracer)
	order := newCreatedOrder()

	if err := engine.Reserve(context.Background(), order, []LineRequest{{ProductID: product.ID, Quantity: 3}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 目录调价后再次加购：行数量累加，冻结价整体刷新为当前价
	repo.products[product.ID].Price = decimal.RequireFromString("120.00")
	if err := engine.Reserve(context.Background(), order, []LineRequest{{ProductID: product.ID, Quantity: 2}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := order.Line(product.ID)
	if line.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", line.Quantity)
	}
	if !line.FrozenPrice.Equal(decimal.RequireFromString("120.00")) {
		t.Errorf("expected refreshed frozen price 120.00, got %s", line.FrozenPrice)
	}
}

func TestReserveZeroQuantityIsNoOp(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	repo := newFakeProductRepo(product)
	engine := NewReservationEngine(repo, testTracer)
	order := newCreatedOrder()

	err := engine.Reserve(context.Background(), order, []LineRequest{{ProductID: product.ID, Quantity: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order.Lines) != 0 {
		t.Errorf("expected no lines for zero quantity, got %d", len(order.Lines))
	}
	if got := repo.quantityOf(product.ID); got != 10 {
		t.Errorf("expected untouched stock 10, got %d", got)
	}
}

func TestReserveRejectsNegativeQuantity(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	engine := NewReservationEngine(newFakeProductRepo(product), testTracer)

	err := engine.Reserve(context.Background(), newCreatedOrder(), []LineRequest{{ProductID: product.ID, Quantity: -1}})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestReserveFailsOnInsufficientStock(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 3)
	repo := newFakeProductRepo(product)
	engine := NewReservationEngine(repo, testTracer)
	order := newCreatedOrder()

	err := engine.Reserve(context.Background(), order, []LineRequest{{ProductID: product.ID, Quantity: 5}})
	var notEnough *domain.NotEnoughStockError
	if !errors.As(err, &notEnough) {
		t.Fatalf("expected NotEnoughStockError, got %v", err)
	}
	if notEnough.Available != 3 || notEnough.Requested != 5 {
		t.Errorf("expected available=3 requested=5, got %+v", notEnough)
	}
	if got := repo.quantityOf(product.ID); got != 3 {
		t.Errorf("failed reservation must not change stock, got %d", got)
	}
	if len(order.Lines) != 0 {
		t.Errorf("failed reservation must not create lines, got %d", len(order.Lines))
	}
}

func TestReserveMidBatchFailureRollsBackEarlierDecrements(t *testing.T) {
	// ID 钉死字典序，保证库存充足的商品先被处理、
	// 库存不足的商品在第二步才让整批失败
	first := newStockedProduct("A-1", "100.00", 100)
	first.ID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	second := newStockedProduct("B-2", "50.00", 2)
	second.ID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	repo := newFakeProductRepo(first, second)
	engine := NewReservationEngine(repo, testTracer)
	tx := snapshotTx{products: repo}
	order := newCreatedOrder()

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return engine.Reserve(ctx, order, []LineRequest{
			{ProductID: first.ID, Quantity: 5},
			{ProductID: second.ID, Quantity: 5},
		})
	})
	var notEnough *domain.NotEnoughStockError
	if !errors.As(err, &notEnough) {
		t.Fatalf("expected NotEnoughStockError, got %v", err)
	}
	if notEnough.ProductID != second.ID {
		t.Errorf("expected failure on the under-stocked product, got %s", notEnough.ProductID)
	}

	// 第一件商品在失败前已被扣减，事务回滚后必须完全恢复
	if got := repo.quantityOf(first.ID); got != 100 {
		t.Errorf("expected first product stock rolled back to 100, got %d", got)
	}
	if got := repo.quantityOf(second.ID); got != 2 {
		t.Errorf("expected second product stock untouched at 2, got %d", got)
	}
}

func TestReserveFailsOnUnavailableProduct(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	product.IsAvailable = false
	engine := NewReservationEngine(newFakeProductRepo(product), testTracer)

	err := engine.Reserve(context.Background(), newCreatedOrder(), []LineRequest{{ProductID: product.ID, Quantity: 1}})
	var notAvailable *domain.ProductNotAvailableError
	if !errors.As(err, &notAvailable) {
		t.Fatalf("expected ProductNotAvailableError, got %v", err)
	}
}

func TestReserveFailsOnUnknownProduct(t *testing.T) {
	engine := NewReservationEngine(newFakeProductRepo(), testTracer)

	err := engine.Reserve(context.Background(), newCreatedOrder(), []LineRequest{{ProductID: uuid.New(), Quantity: 1}})
	var notFound *domain.ProductNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ProductNotFoundError, got %v", err)
	}
}

func TestReserveRejectsImmutableOrder(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	engine := NewReservationEngine(newFakeProductRepo(product), testTracer)
	order := newCreatedOrder()
	order.OverrideStatus(domain.StatusConfirmed)

	err := engine.Reserve(context.Background(), order, []LineRequest{{ProductID: product.ID, Quantity: 1}})
	var incorrect *domain.IncorrectStateError
	if !errors.As(err, &incorrect) {
		t.Fatalf("expected IncorrectStateError, got %v", err)
	}
}

func TestReleaseRestoresStockForAllLines(t *testing.T) {
	first := newStockedProduct("A-1", "100.00", 10)
	second := newStockedProduct("B-2", "50.00", 20)
	repo := newFakeProductRepo(first, second)
	engine := NewReservationEngine(repo, testTracer)
	order := newCreatedOrder()

	err := engine.Reserve(context.Background(), order, []LineRequest{
		{ProductID: first.ID, Quantity: 4},
		{ProductID: second.ID, Quantity: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := engine.Release(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.quantityOf(first.ID); got != 10 {
		t.Errorf("expected stock of first product restored to 10, got %d", got)
	}
	if got := repo.quantityOf(second.ID); got != 20 {
		t.Errorf("expected stock of second product restored to 20, got %d", got)
	}
}
