package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository 定义了商品聚合的持久化接口。
// 它位于领域层，但由基础设施层实现。
type ProductRepository interface {
	// FindByID 根据 ID 查找商品。
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs 批量查找商品；必须为每个请求的 ID 返回恰好一个条目，
	// 任何一个缺失都返回 *ProductNotFoundError。
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Product, error)

	// FindPage 分页查找商品；search 对名称/货号/描述做子串匹配，
	// filters 按字段过滤（见 ProductFilter）。
	FindPage(ctx context.Context, page, size int, search string, filters []ProductFilter) ([]*Product, int64, error)

	// Save 保存一个商品（用于创建或更新）。
	Save(ctx context.Context, product *Product) error

	// Delete 删除商品，返回是否确实删除了。
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsByArticle 检查货号是否已被占用。
	ExistsByArticle(ctx context.Context, article string) (bool, error)

	// IncreaseAllPrices 用一条语句按百分比上调所有商品价格，
	// 返回受影响的行数。供批量调价任务使用。
	IncreaseAllPrices(ctx context.Context, percent decimal.Decimal) (int64, error)

	// FindAll 返回全部商品，供 simple 调价策略使用。
	FindAll(ctx context.Context) ([]*Product, error)
}

// CustomerRepository 定义了购买方的持久化接口。
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	ExistsByLogin(ctx context.Context, login string) (bool, error)
}

// OrderRepository 定义了订单聚合的持久化接口。
type OrderRepository interface {
	// Save 保存订单头和全部订单行（用于创建或更新）。
	Save(ctx context.Context, order *Order) error

	// FindByID 加载订单及其行和购买方引用。
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByStatusIn 返回状态在给定集合内的所有订单。
	FindByStatusIn(ctx context.Context, statuses []Status) ([]*Order, error)
}

// TxManager 把一段操作包进一个原子单元：fn 返回错误时整体回滚，
// 预占中途失败不会留下部分扣减。
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
