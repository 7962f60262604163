package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse/internal/service/warehouse/domain"
)

// OrderLineView 订单行视图。
type OrderLineView struct {
	ProductID   uuid.UUID       `json:"productId"`
	Quantity    int64           `json:"quantity"`
	FrozenPrice decimal.Decimal `json:"frozenPrice"`
}

// OrderView 订单视图：明细 + 按冻结价计算的总价。
type OrderView struct {
	OrderID    uuid.UUID       `json:"orderId"`
	Status     domain.Status   `json:"status"`
	Lines      []OrderLineView `json:"products"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// NewOrderView 从订单聚合构建视图。
func NewOrderView(order *domain.Order) *OrderView {
	lines := make([]OrderLineView, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineView{
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			FrozenPrice: line.FrozenPrice,
		})
	}
	return &OrderView{
		OrderID:    order.ID,
		Status:     order.Status,
		Lines:      lines,
		TotalPrice: order.TotalPrice(),
	}
}

// SaveProductRequest 创建/更新商品的输入数据。
type SaveProductRequest struct {
	Name        string                 `json:"name"`
	Article     string                 `json:"article"`
	Description string                 `json:"description"`
	Category    domain.ProductCategory `json:"category"`
	Price       decimal.Decimal        `json:"price"`
	Quantity    int64                  `json:"quantity"`
	IsAvailable *bool                  `json:"isAvailable,omitempty"`
}

// Validate 校验输入。
func (r SaveProductRequest) Validate() error {
	if r.Name == "" {
		return &domain.ValidationError{Reason: "product name is required"}
	}
	if r.Article == "" {
		return &domain.ValidationError{Reason: "product article is required"}
	}
	if r.Price.IsNegative() {
		return &domain.ValidationError{Reason: "product price must not be negative"}
	}
	if r.Quantity < 0 {
		return &domain.ValidationError{Reason: "product quantity must not be negative"}
	}
	return nil
}

// ProductView 面向调用方的商品视图，价格已按请求货币换算。
type ProductView struct {
	ID                     uuid.UUID              `json:"id"`
	Name                   string                 `json:"name"`
	Article                string                 `json:"article"`
	Description            string                 `json:"description"`
	Category               domain.ProductCategory `json:"category"`
	Price                  decimal.Decimal        `json:"price"`
	Currency               domain.Currency        `json:"currency"`
	Quantity               int64                  `json:"quantity"`
	IsAvailable            bool                   `json:"isAvailable"`
	LastQuantityChangeDate time.Time              `json:"lastQuantityChangeDate"`
	CreatedDate            time.Time              `json:"createdDate"`
}

// ProductPage 分页结果。
type ProductPage struct {
	Items []ProductView `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

// SaveCustomerRequest 创建购买方的输入数据。
type SaveCustomerRequest struct {
	Login string `json:"login"`
	Email string `json:"email"`
}
