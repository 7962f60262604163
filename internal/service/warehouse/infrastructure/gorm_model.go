package infrastructure

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"warehouse/internal/service/warehouse/domain"
)

// ProductModel 对应数据库中的 products 表
type ProductModel struct {
	ID                     string                 `gorm:"type:char(36);primaryKey"`
	Name                   string                 `gorm:"size:255;not null"`
	Article                string                 `gorm:"size:64;uniqueIndex;not null"`
	Description            string                 `gorm:"type:text"`
	Category               domain.ProductCategory `gorm:"size:32"`
	Price                  decimal.Decimal        `gorm:"type:decimal(19,2);not null"`
	Quantity               int64                  `gorm:"not null"`
	IsAvailable            bool                   `gorm:"not null;default:true"`
	LastQuantityChangeDate time.Time
	CreatedDate            time.Time
}

// TableName 指定 GORM 应该使用的表名
func (ProductModel) TableName() string {
	return "products"
}

// CustomerModel 对应数据库中的 customers 表
type CustomerModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"size:64;uniqueIndex;not null"`
	Email    string `gorm:"size:255;not null"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName 指定 GORM 应该使用的表名
func (CustomerModel) TableName() string {
	return "customers"
}

// OrderModel 对应数据库中的 orders 表
type OrderModel struct {
	ID                    string         `gorm:"type:char(36);primaryKey"`
	CustomerID            int64          `gorm:"index;not null"`
	DeliveryAddress       string         `gorm:"size:512"`
	Status                domain.Status  `gorm:"size:16;index;not null"`
	BusinessKey           sql.NullString `gorm:"size:64"`
	ConfirmedDeliveryDate sql.NullTime
	CreatedAt             time.Time
	UpdatedAt             time.Time
	// 关联关系
	Customer CustomerModel    `gorm:"foreignKey:CustomerID"`
	Lines    []OrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel 对应数据库中的 order_lines 表。
// (order_id, product_id) 联合主键保证同一订单内每个商品至多一行。
type OrderLineModel struct {
	OrderID     string          `gorm:"type:char(36);primaryKey"`
	ProductID   string          `gorm:"type:char(36);primaryKey"`
	Quantity    int64           `gorm:"not null"`
	FrozenPrice decimal.Decimal `gorm:"type:decimal(19,2);not null"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderLineModel) TableName() string {
	return "order_lines"
}
