package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"warehouse/internal/pkg/httpclient"
	"warehouse/internal/pkg/logger"
	"warehouse/internal/pkg/redis"
	"warehouse/internal/service/warehouse/domain"
)

const ratesCacheKey = "warehouse:exchange_rates"

// fallbackRates 汇率服务不可用且缓存为空时使用的静态汇率。
var fallbackRates = domain.ExchangeRates{
	USD: decimal.RequireFromString("0.013"),
	EUR: decimal.RequireFromString("0.012"),
	CNY: decimal.RequireFromString("0.09"),
}

// CurrencyRedisAdapter 实现了 port.CurrencyService 接口。
// 取汇率的顺序：Redis 缓存 → 远端汇率服务（写回缓存）→ 静态兜底。
// 兜底保证价格换算永远可用，代价是汇率可能过期。
type CurrencyRedisAdapter struct {
	client      *httpclient.Client
	redisClient *redis.Client
	url         string
	cacheTTL    time.Duration
}

// NewCurrencyRedisAdapter 创建一个新的汇率服务适配器。
// redisClient 可以为 nil，此时跳过缓存层。
func NewCurrencyRedisAdapter(client *httpclient.Client, redisClient *redis.Client, url string, cacheTTL time.Duration) *CurrencyRedisAdapter {
	return &CurrencyRedisAdapter{
		client:      client,
		redisClient: redisClient,
		url:         url,
		cacheTTL:    cacheTTL,
	}
}

// GetRates 返回当前汇率。
func (a *CurrencyRedisAdapter) GetRates(ctx context.Context) (domain.ExchangeRates, error) {
	if rates, ok := a.fromCache(ctx); ok {
		return rates, nil
	}

	var rates domain.ExchangeRates
	if err := a.client.GetJSON(ctx, a.url, &rates); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("currency service unavailable, using fallback rates")
		return fallbackRates, nil
	}

	a.toCache(ctx, rates)
	return rates, nil
}

func (a *CurrencyRedisAdapter) fromCache(ctx context.Context) (domain.ExchangeRates, bool) {
	if a.redisClient == nil {
		return domain.ExchangeRates{}, false
	}
	raw, found, err := a.redisClient.Get(ctx, ratesCacheKey)
	if err != nil || !found {
		return domain.ExchangeRates{}, false
	}
	var rates domain.ExchangeRates
	if err := json.Unmarshal([]byte(raw), &rates); err != nil {
		return domain.ExchangeRates{}, false
	}
	return rates, true
}

func (a *CurrencyRedisAdapter) toCache(ctx context.Context, rates domain.ExchangeRates) {
	if a.redisClient == nil {
		return
	}
	raw, err := json.Marshal(rates)
	if err != nil {
		return
	}
	if err := a.redisClient.Set(ctx, ratesCacheKey, string(raw), a.cacheTTL); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to cache exchange rates")
	}
}
