package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCategory 商品分类。
type ProductCategory string

const (
	CategoryFood        ProductCategory = "FOOD"
	CategoryElectronics ProductCategory = "ELECTRONICS"
	CategoryChemicals   ProductCategory = "CHEMICALS"
	CategoryOther       ProductCategory = "OTHER"
)

// Product 是库存中的商品。
// Quantity 是唯一会被多个逻辑操作并发修改的共享状态：
// 对它的 读-减-写 序列必须在商品锁内完成（见 port.StockLocker）。
type Product struct {
	ID          uuid.UUID
	Name        string
	Article     string
	Description string
	Category    ProductCategory
	Price       decimal.Decimal
	Quantity    int64
	IsAvailable bool

	LastQuantityChangeDate time.Time
	CreatedDate            time.Time
}

// NewProduct 创建一个新商品实体。
func NewProduct(name, article, description string, category ProductCategory, price decimal.Decimal, quantity int64) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:                     uuid.New(),
		Name:                   name,
		Article:                article,
		Description:            description,
		Category:               category,
		Price:                  price,
		Quantity:               quantity,
		IsAvailable:            true,
		LastQuantityChangeDate: now,
		CreatedDate:            now,
	}
}

// CanReserve 判断能否从当前库存中预占 qty 件。
func (p *Product) CanReserve(qty int64) bool {
	return qty >= 0 && p.Quantity >= qty
}

// Reserve 扣减库存。调用方必须先用 CanReserve 校验，
// 库存数量不允许变为负数。
func (p *Product) Reserve(qty int64) {
	p.Quantity -= qty
	p.LastQuantityChangeDate = time.Now().UTC()
}

// Release 归还库存，是 Reserve 的逆操作。
func (p *Product) Release(qty int64) {
	p.Quantity += qty
	p.LastQuantityChangeDate = time.Now().UTC()
}
