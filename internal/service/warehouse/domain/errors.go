package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrExternalService 表示外部服务（账户/CRM/确认流程）在用尽重试后仍然失败。
// 具体原因通过 %w 包装在外层错误中。
var ErrExternalService = errors.New("external service failure")

// OrderNotFoundError 订单不存在。
type OrderNotFoundError struct {
	OrderID uuid.UUID
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderID)
}

// ProductNotFoundError 商品不存在。
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// CustomerNotFoundError 购买方不存在。
type CustomerNotFoundError struct {
	CustomerID int64
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %d not found", e.CustomerID)
}

// ForbiddenError 请求方不是订单的所有者。
type ForbiddenError struct{}

func (e *ForbiddenError) Error() string {
	return "you don't have access to other users' orders"
}

// IncorrectStateError 在当前状态下不允许该操作。
type IncorrectStateError struct {
	OrderID uuid.UUID
	Status  Status
}

func (e *IncorrectStateError) Error() string {
	return fmt.Sprintf("order %s has incorrect status %s for this operation", e.OrderID, e.Status)
}

// ProductNotAvailableError 商品当前不可售。
type ProductNotAvailableError struct {
	ProductID uuid.UUID
}

func (e *ProductNotAvailableError) Error() string {
	return fmt.Sprintf("product %s is not available", e.ProductID)
}

// NotEnoughStockError 库存不足，带上可用与请求数量方便排查。
type NotEnoughStockError struct {
	ProductID uuid.UUID
	Available int64
	Requested int64
}

func (e *NotEnoughStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// DuplicateArticleError 商品货号冲突。
type DuplicateArticleError struct {
	Article string
}

func (e *DuplicateArticleError) Error() string {
	return fmt.Sprintf("product with article %q already exists", e.Article)
}

// DuplicateLoginError 购买方登录名冲突。
type DuplicateLoginError struct {
	Login string
}

func (e *DuplicateLoginError) Error() string {
	return fmt.Sprintf("customer with login %q already exists", e.Login)
}

// BusinessKeyMismatchError 回调携带的业务键与订单记录不一致。
type BusinessKeyMismatchError struct {
	BusinessKey string
}

func (e *BusinessKeyMismatchError) Error() string {
	return fmt.Sprintf("incorrect order business key %q", e.BusinessKey)
}

// ValidationError 输入数据非法（负数量、未知状态、坏的过滤参数等）。
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
