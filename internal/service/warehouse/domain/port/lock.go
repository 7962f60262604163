package port

import "context"

// StockLocker 对单个商品的库存修改做串行化。
// Lock 阻塞到拿到锁或 ctx 结束，成功时返回解锁函数。
// 预占/释放的 读-减-写 序列必须全程持锁，否则并发预占会超卖。
type StockLocker interface {
	Lock(ctx context.Context, productID string) (unlock func() error, err error)
}
