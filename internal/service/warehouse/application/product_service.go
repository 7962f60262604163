package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/warehouse/domain"
	"warehouse/internal/service/warehouse/domain/port"
)

// ProductService 管理商品目录。读操作接受显式的展示货币，
// 价格按汇率换算后返回；货币不是任何隐式会话状态。
type ProductService struct {
	products domain.ProductRepository
	currency port.CurrencyService
	tracer   trace.Tracer
}

// NewProductService 创建商品目录服务。
func NewProductService(products domain.ProductRepository, currency port.CurrencyService, tracer trace.Tracer) *ProductService {
	return &ProductService{products: products, currency: currency, tracer: tracer}
}

// Create 创建商品，货号必须全局唯一。
func (s *ProductService) Create(ctx context.Context, req SaveProductRequest) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "product.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	exists, err := s.products.ExistsByArticle(ctx, req.Article)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateArticleError{Article: req.Article}
	}

	product := domain.NewProduct(req.Name, req.Article, req.Description, req.Category, req.Price, req.Quantity)
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if err := s.products.Save(ctx, product); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("product_id", product.ID.String()).Str("article", product.Article).Msg("product created")
	return product, nil
}

// Update 修改商品信息。数量变化时刷新 lastQuantityChangeDate。
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req SaveProductRequest) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "product.Update")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID.String()))

	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if product.Article != req.Article {
		exists, err := s.products.ExistsByArticle(ctx, req.Article)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if exists {
			return nil, &domain.DuplicateArticleError{Article: req.Article}
		}
	}

	product.Name = req.Name
	product.Article = req.Article
	product.Description = req.Description
	product.Category = req.Category
	product.Price = req.Price
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if product.Quantity != req.Quantity {
		product.Quantity = req.Quantity
		product.LastQuantityChangeDate = time.Now().UTC()
	}

	if err := s.products.Save(ctx, product); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return product, nil
}

// Get 返回一个商品视图，价格按请求货币换算。
func (s *ProductService) Get(ctx context.Context, productID uuid.UUID, currency domain.Currency) (*ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "product.Get")
	defer span.End()

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rates, err := s.currency.GetRates(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	view := s.toView(product, currency, rates)
	return &view, nil
}

// List 分页返回商品，支持子串搜索和动态字段过滤。
func (s *ProductService) List(ctx context.Context, page, size int, search string, filters []domain.ProductFilter, currency domain.Currency) (*ProductPage, error) {
	ctx, span := s.tracer.Start(ctx, "product.List")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page), attribute.Int("size", size))

	if page < 1 {
		page = 1
	}
	if size < 1 || size > 1000 {
		size = 50
	}
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	products, total, err := s.products.FindPage(ctx, page, size, search, filters)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rates, err := s.currency.GetRates(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	items := make([]ProductView, 0, len(products))
	for _, product := range products {
		items = append(items, s.toView(product, currency, rates))
	}
	return &ProductPage{Items: items, Total: total, Page: page, Size: size}, nil
}

// Delete 删除商品，返回是否确实删除了。
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "product.Delete")
	defer span.End()

	deleted, err := s.products.Delete(ctx, productID)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if deleted {
		logger.Ctx(ctx).Info().Str("product_id", productID.String()).Msg("product deleted")
	}
	return deleted, nil
}

func (s *ProductService) toView(product *domain.Product, currency domain.Currency, rates domain.ExchangeRates) ProductView {
	price := product.Price.Mul(rates.RateFor(currency)).Round(2)
	return ProductView{
		ID:                     product.ID,
		Name:                   product.Name,
		Article:                product.Article,
		Description:            product.Description,
		Category:               product.Category,
		Price:                  price,
		Currency:               currency,
		Quantity:               product.Quantity,
		IsAvailable:            product.IsAvailable,
		LastQuantityChangeDate: product.LastQuantityChangeDate,
		CreatedDate:            product.CreatedDate,
	}
}
