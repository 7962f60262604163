package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine 是订单中的一行商品。
// 不变量：同一个订单内每个商品至多一行，重复的预占请求会被合并到已有行上。
type OrderLine struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int64
	// FrozenPrice 是预占（或最近一次加购）时刻的商品单价快照，
	// 后续的目录调价不影响已经预占的行。
	FrozenPrice decimal.Decimal
}

// Order 是订单聚合的根实体。
type Order struct {
	ID              uuid.UUID
	CustomerID      int64
	Customer        *Customer // 只读引用，创建后不再变化
	DeliveryAddress string
	Status          Status
	Lines           []OrderLine

	// BusinessKey 是外部确认流程返回的关联标识。
	BusinessKey string
	// ConfirmedDeliveryDate 在状态切到 CONFIRMED 时写入。
	ConfirmedDeliveryDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder 创建一个处于 CREATED 状态的空订单。
func NewOrder(customer *Customer, deliveryAddress string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:              uuid.New(),
		CustomerID:      customer.ID,
		Customer:        customer,
		DeliveryAddress: deliveryAddress,
		Status:          StatusCreated,
		Lines:           nil,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Line 返回指定商品的行，不存在时返回 nil。
func (o *Order) Line(productID uuid.UUID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}

// UpsertLine 把一次成功的预占并入订单：已有行累加数量并把冻结价刷新为
// 当前商品单价（早先预占的数量不回溯调价），否则新建一行。
func (o *Order) UpsertLine(productID uuid.UUID, quantity int64, currentPrice decimal.Decimal) {
	if line := o.Line(productID); line != nil {
		line.Quantity += quantity
		line.FrozenPrice = currentPrice
	} else {
		o.Lines = append(o.Lines, OrderLine{
			OrderID:     o.ID,
			ProductID:   productID,
			Quantity:    quantity,
			FrozenPrice: currentPrice,
		})
	}
	o.UpdatedAt = time.Now().UTC()
}

// TotalPrice 计算订单总价 Σ(frozenPrice × quantity)。
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.FrozenPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}
	return total
}

// IsMutable 报告订单行当前是否允许变更：仅 CREATED 状态允许。
func (o *Order) IsMutable() bool {
	return o.Status == StatusCreated
}

// MarkProcessing 把订单提交给外部确认流程。
func (o *Order) MarkProcessing() error {
	if o.Status != StatusCreated {
		return &IncorrectStateError{OrderID: o.ID, Status: o.Status}
	}
	o.Status = StatusProcessing
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkCancelled 取消订单。只有 CREATED 状态的订单可以取消，
// 这个守卫同时保证库存归还只会发生一次。
func (o *Order) MarkCancelled() error {
	if o.Status != StatusCreated {
		return &IncorrectStateError{OrderID: o.ID, Status: o.Status}
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// OverrideStatus 无条件覆盖状态，不做迁移表校验。
// 切到 CONFIRMED 时写入 now+7d 的交付日期。
func (o *Order) OverrideStatus(status Status) {
	o.Status = status
	if status == StatusConfirmed {
		d := time.Now().UTC().AddDate(0, 0, 7)
		o.ConfirmedDeliveryDate = &d
	}
	o.UpdatedAt = time.Now().UTC()
}
