package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"warehouse/internal/service/warehouse/domain"
)

func newProductServiceFixture(products ...*domain.Product) (*ProductService, *fakeProductRepo) {
	repo := newFakeProductRepo(products...)
	currency := &fakeCurrencyService{rates: domain.ExchangeRates{
		USD: decimal.RequireFromString("0.01"),
		EUR: decimal.RequireFromString("0.009"),
		CNY: decimal.RequireFromString("0.07"),
	}}
	return NewProductService(repo, currency, testTracer), repo
}

func TestCreateProductRejectsDuplicateArticle(t *testing.T) {
	existing := newStockedProduct("A-1", "100.00", 10)
	service, _ := newProductServiceFixture(existing)

	_, err := service.Create(context.Background(), SaveProductRequest{
		Name:     "another",
		Article:  "A-1",
		Category: domain.CategoryOther,
		Price:    decimal.RequireFromString("50"),
		Quantity: 1,
	})
	var dup *domain.DuplicateArticleError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateArticleError, got %v", err)
	}
}

func TestCreateProductValidatesInput(t *testing.T) {
	service, _ := newProductServiceFixture()
	_, err := service.Create(context.Background(), SaveProductRequest{
		Article:  "A-1",
		Price:    decimal.RequireFromString("1"),
		Quantity: 1,
	})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for missing name, got %v", err)
	}
}

func TestUpdateProductBumpsQuantityChangeDateOnlyOnQuantityChange(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	service, repo := newProductServiceFixture(product)
	before := product.LastQuantityChangeDate

	// 只改价格：数量变更时间不动
	_, err := service.Update(context.Background(), product.ID, SaveProductRequest{
		Name:     product.Name,
		Article:  product.Article,
		Category: product.Category,
		Price:    decimal.RequireFromString("150.00"),
		Quantity: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.products[product.ID].LastQuantityChangeDate.Equal(before) {
		t.Error("price-only update must not bump lastQuantityChangeDate")
	}

	// 改数量：时间必须刷新
	_, err = service.Update(context.Background(), product.ID, SaveProductRequest{
		Name:     product.Name,
		Article:  product.Article,
		Category: product.Category,
		Price:    decimal.RequireFromString("150.00"),
		Quantity: 25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated := repo.products[product.ID]
	if updated.Quantity != 25 {
		t.Errorf("expected quantity 25, got %d", updated.Quantity)
	}
	if !updated.LastQuantityChangeDate.After(before) {
		t.Error("quantity update must bump lastQuantityChangeDate")
	}
}

func TestUpdateProductRejectsTakenArticle(t *testing.T) {
	first := newStockedProduct("A-1", "100.00", 10)
	second := newStockedProduct("B-2", "50.00", 5)
	service, _ := newProductServiceFixture(first, second)

	_, err := service.Update(context.Background(), second.ID, SaveProductRequest{
		Name:     second.Name,
		Article:  "A-1",
		Category: second.Category,
		Price:    second.Price,
		Quantity: second.Quantity,
	})
	var dup *domain.DuplicateArticleError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateArticleError, got %v", err)
	}
}

func TestGetProductConvertsPriceToRequestedCurrency(t *testing.T) {
	product := newStockedProduct("A-1", "1000.00", 10)
	service, _ := newProductServiceFixture(product)

	view, err := service.Get(context.Background(), product.ID, domain.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected price 10.00 USD, got %s", view.Price)
	}
	if view.Currency != domain.CurrencyUSD {
		t.Errorf("expected currency USD, got %s", view.Currency)
	}

	// 基准货币不换算
	base, err := service.Get(context.Background(), product.ID, domain.CurrencyRUB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !base.Price.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("expected price 1000.00 RUB, got %s", base.Price)
	}
}

func TestListProductsRejectsInvalidFilter(t *testing.T) {
	service, _ := newProductServiceFixture()
	_, err := service.List(context.Background(), 1, 10, "", []domain.ProductFilter{
		{Field: "WEIGHT", Op: domain.OpEqual, Value: "1"},
	}, domain.CurrencyRUB)
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDeleteProductReportsWhetherDeleted(t *testing.T) {
	product := newStockedProduct("A-1", "100.00", 10)
	service, _ := newProductServiceFixture(product)

	deleted, err := service.Delete(context.Background(), product.ID)
	if err != nil || !deleted {
		t.Fatalf("expected first delete to succeed, got deleted=%v err=%v", deleted, err)
	}
	deleted, err = service.Delete(context.Background(), product.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to be a no-op, got deleted=%v err=%v", deleted, err)
	}
}
