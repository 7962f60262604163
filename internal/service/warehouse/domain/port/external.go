package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse/internal/service/warehouse/domain"
)

// AccountService 是账户服务的出站端口。
type AccountService interface {
	// GetAccounts 按登录名批量获取账号，返回 login → accountNumber。
	GetAccounts(ctx context.Context, logins []string) (map[string]string, error)
}

// CrmService 是 CRM 服务的出站端口。
type CrmService interface {
	// GetCrms 按登录名批量获取 CRM 标识，返回 login → crmID。
	GetCrms(ctx context.Context, logins []string) (map[string]string, error)
}

// ConfirmOrderRequest 提交给外部确认流程的数据。
type ConfirmOrderRequest struct {
	OrderID               uuid.UUID       `json:"orderId"`
	OrderDeliveryAddress  string          `json:"orderDeliveryAddress"`
	CustomerCRM           string          `json:"customerCRM"`
	CustomerAccountNumber string          `json:"customerAccountNumber"`
	OrderPrice            decimal.Decimal `json:"orderPrice"`
	CustomerLogin         string          `json:"customerLogin"`
}

// ConfirmationService 是外部确认流程（BPMN 引擎）的出站端口。
// 同步调用，不做重试。
type ConfirmationService interface {
	// ConfirmOrder 发起确认流程，返回流程的业务键。
	ConfirmOrder(ctx context.Context, req ConfirmOrderRequest) (string, error)
}

// CurrencyService 是汇率服务的出站端口。
type CurrencyService interface {
	GetRates(ctx context.Context) (domain.ExchangeRates, error)
}
