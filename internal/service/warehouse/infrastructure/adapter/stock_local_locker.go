package adapter

import (
	"context"
	"sync"
)

// LocalStockLocker 是 port.StockLocker 的进程内实现，
// 供单实例部署和测试使用。每个商品一个容量为 1 的信号量。
type LocalStockLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalStockLocker 创建一个新的进程内库存锁。
func NewLocalStockLocker() *LocalStockLocker {
	return &LocalStockLocker{slots: make(map[string]chan struct{})}
}

// Lock 获取指定商品的锁，阻塞到拿到锁或 ctx 结束。
func (l *LocalStockLocker) Lock(ctx context.Context, productID string) (func() error, error) {
	slot := l.slot(productID)
	select {
	case slot <- struct{}{}:
		return func() error {
			<-slot
			return nil
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *LocalStockLocker) slot(productID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[productID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[productID] = slot
	}
	return slot
}
