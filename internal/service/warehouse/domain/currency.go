package domain

import "github.com/shopspring/decimal"

// Currency 展示货币。RUB 是基准货币，汇率恒为 1。
// 货币是调用方显式传入的请求参数，核心逻辑不依赖任何
// 会话级的隐式状态。
type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyCNY Currency = "CNY"
)

// ParseCurrency 解析货币代码，空串与未知代码回落到 RUB。
func ParseCurrency(s string) Currency {
	switch Currency(s) {
	case CurrencyUSD, CurrencyEUR, CurrencyCNY:
		return Currency(s)
	}
	return CurrencyRUB
}

// ExchangeRates 各货币相对基准货币的汇率。
type ExchangeRates struct {
	USD decimal.Decimal `json:"USD"`
	EUR decimal.Decimal `json:"EUR"`
	CNY decimal.Decimal `json:"CNY"`
}

// RateFor 返回指定货币的汇率，基准货币返回 1。
func (r ExchangeRates) RateFor(c Currency) decimal.Decimal {
	switch c {
	case CurrencyUSD:
		return r.USD
	case CurrencyEUR:
		return r.EUR
	case CurrencyCNY:
		return r.CNY
	default:
		return decimal.NewFromInt(1)
	}
}
