package infrastructure

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warehouse/internal/service/warehouse/domain"
)

// txKey 用于在 context 中传递事务句柄。
type txKey struct{}

// GormTxManager 是 domain.TxManager 的 GORM 实现：
// fn 内通过 context 拿到的仓储操作都跑在同一个事务里。
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager 创建事务管理器。
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom 优先返回 context 中的事务句柄，没有事务时退回普通连接。
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}

// GormProductRepository 是 ProductRepository 的 GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository 创建一个新的 GORM 仓储实例
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var model ProductModel
	err := dbFrom(ctx, r.db).Where("id = ?", id.String()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.ProductNotFoundError{ProductID: id}
		}
		return nil, err
	}
	return ToDomainProduct(&model), nil
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*domain.Product{}, nil
	}
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	var models []ProductModel
	if err := dbFrom(ctx, r.db).Where("id IN ?", strIDs).Find(&models).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]*domain.Product, len(models))
	for i := range models {
		product := ToDomainProduct(&models[i])
		result[product.ID] = product
	}
	// 每个请求的 ID 都必须有对应商品，缺一个就整体失败
	for _, id := range ids {
		if _, ok := result[id]; !ok {
			return nil, &domain.ProductNotFoundError{ProductID: id}
		}
	}
	return result, nil
}

func (r *GormProductRepository) FindPage(ctx context.Context, page, size int, search string, filters []domain.ProductFilter) ([]*domain.Product, int64, error) {
	query := dbFrom(ctx, r.db).Model(&ProductModel{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR article LIKE ? OR description LIKE ?", pattern, pattern, pattern)
	}
	query, err := applyFilters(query, filters)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []ProductModel
	err = query.
		Order("created_date DESC, id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	products := make([]*domain.Product, 0, len(models))
	for i := range models {
		products = append(products, ToDomainProduct(&models[i]))
	}
	return products, total, nil
}

func (r *GormProductRepository) Save(ctx context.Context, product *domain.Product) error {
	model := FromDomainProduct(product)
	return dbFrom(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := dbFrom(ctx, r.db).Where("id = ?", id.String()).Delete(&ProductModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormProductRepository) ExistsByArticle(ctx context.Context, article string) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&ProductModel{}).Where("article = ?", article).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProductRepository) IncreaseAllPrices(ctx context.Context, percent decimal.Decimal) (int64, error) {
	// 整个调价在数据库内完成，商品不经过应用内存
	res := dbFrom(ctx, r.db).Exec(
		"UPDATE products SET price = ROUND(price * (1 + ? / 100), 2)",
		percent,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	var models []ProductModel
	if err := dbFrom(ctx, r.db).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(models))
	for i := range models {
		products = append(products, ToDomainProduct(&models[i]))
	}
	return products, nil
}

// GormCustomerRepository 是 CustomerRepository 的 GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository 创建一个新的 GORM 仓储实例
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var model CustomerModel
	err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.CustomerNotFoundError{CustomerID: id}
		}
		return nil, err
	}
	return ToDomainCustomer(&model), nil
}

func (r *GormCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	model := FromDomainCustomer(customer)
	if err := dbFrom(ctx, r.db).Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error; err != nil {
		return err
	}
	// 回写数据库生成的自增 ID
	customer.ID = model.ID
	return nil
}

func (r *GormCustomerRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&CustomerModel{}).Where("login = ?", login).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormOrderRepository 是 OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 仓储实例
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save 保存订单头和全部订单行。行按主键 upsert：
// 订单行只会新增或累加数量，不会在更新中消失。
func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	db := dbFrom(ctx, r.db)

	model := FromDomainOrder(order)
	if err := db.Omit("Customer", "Lines").Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error; err != nil {
		return err
	}

	lines := FromDomainOrderLines(order)
	if len(lines) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&lines).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var model OrderModel
	// 使用 Preload 来预加载订单行和购买方信息
	err := dbFrom(ctx, r.db).
		Preload("Lines").
		Preload("Customer").
		Where("id = ?", id.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.OrderNotFoundError{OrderID: id}
		}
		return nil, err
	}
	return ToDomainOrder(&model), nil
}

func (r *GormOrderRepository) FindByStatusIn(ctx context.Context, statuses []domain.Status) ([]*domain.Order, error) {
	var models []OrderModel
	err := dbFrom(ctx, r.db).
		Preload("Lines").
		Preload("Customer").
		Where("status IN ?", statuses).
		Order("created_at").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, ToDomainOrder(&models[i]))
	}
	return orders, nil
}
