package infrastructure

import (
	"database/sql"

	"github.com/google/uuid"

	"warehouse/internal/service/warehouse/domain"
)

// ToDomainProduct 将数据库模型转换为领域模型
func ToDomainProduct(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:                     uuid.MustParse(model.ID),
		Name:                   model.Name,
		Article:                model.Article,
		Description:            model.Description,
		Category:               model.Category,
		Price:                  model.Price,
		Quantity:               model.Quantity,
		IsAvailable:            model.IsAvailable,
		LastQuantityChangeDate: model.LastQuantityChangeDate,
		CreatedDate:            model.CreatedDate,
	}
}

// FromDomainProduct 将领域模型转换为数据库模型
func FromDomainProduct(dmn *domain.Product) *ProductModel {
	if dmn == nil {
		return nil
	}
	return &ProductModel{
		ID:                     dmn.ID.String(),
		Name:                   dmn.Name,
		Article:                dmn.Article,
		Description:            dmn.Description,
		Category:               dmn.Category,
		Price:                  dmn.Price,
		Quantity:               dmn.Quantity,
		IsAvailable:            dmn.IsAvailable,
		LastQuantityChangeDate: dmn.LastQuantityChangeDate,
		CreatedDate:            dmn.CreatedDate,
	}
}

// ToDomainCustomer 将数据库模型转换为领域模型
func ToDomainCustomer(model *CustomerModel) *domain.Customer {
	if model == nil {
		return nil
	}
	return &domain.Customer{
		ID:       model.ID,
		Login:    model.Login,
		Email:    model.Email,
		IsActive: model.IsActive,
	}
}

// FromDomainCustomer 将领域模型转换为数据库模型
func FromDomainCustomer(dmn *domain.Customer) *CustomerModel {
	if dmn == nil {
		return nil
	}
	return &CustomerModel{
		ID:       dmn.ID,
		Login:    dmn.Login,
		Email:    dmn.Email,
		IsActive: dmn.IsActive,
	}
}

// ToDomainOrder 将数据库模型转换为领域模型
func ToDomainOrder(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	order := &domain.Order{
		ID:              uuid.MustParse(model.ID),
		CustomerID:      model.CustomerID,
		DeliveryAddress: model.DeliveryAddress,
		Status:          model.Status,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.BusinessKey.Valid {
		order.BusinessKey = model.BusinessKey.String
	}
	if model.ConfirmedDeliveryDate.Valid {
		d := model.ConfirmedDeliveryDate.Time
		order.ConfirmedDeliveryDate = &d
	}
	if model.Customer.ID != 0 {
		order.Customer = ToDomainCustomer(&model.Customer)
	}
	for i := range model.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			OrderID:     order.ID,
			ProductID:   uuid.MustParse(model.Lines[i].ProductID),
			Quantity:    model.Lines[i].Quantity,
			FrozenPrice: model.Lines[i].FrozenPrice,
		})
	}
	return order
}

// FromDomainOrder 将领域模型转换为数据库模型（不含订单行，行单独保存）
func FromDomainOrder(dmn *domain.Order) *OrderModel {
	if dmn == nil {
		return nil
	}
	model := &OrderModel{
		ID:              dmn.ID.String(),
		CustomerID:      dmn.CustomerID,
		DeliveryAddress: dmn.DeliveryAddress,
		Status:          dmn.Status,
		CreatedAt:       dmn.CreatedAt,
		UpdatedAt:       dmn.UpdatedAt,
	}
	if dmn.BusinessKey != "" {
		model.BusinessKey = sql.NullString{String: dmn.BusinessKey, Valid: true}
	}
	if dmn.ConfirmedDeliveryDate != nil {
		model.ConfirmedDeliveryDate = sql.NullTime{Time: *dmn.ConfirmedDeliveryDate, Valid: true}
	}
	return model
}

// FromDomainOrderLines 将订单行转换为数据库模型
func FromDomainOrderLines(dmn *domain.Order) []OrderLineModel {
	lines := make([]OrderLineModel, 0, len(dmn.Lines))
	for _, line := range dmn.Lines {
		lines = append(lines, OrderLineModel{
			OrderID:     dmn.ID.String(),
			ProductID:   line.ProductID.String(),
			Quantity:    line.Quantity,
			FrozenPrice: line.FrozenPrice,
		})
	}
	return lines
}
