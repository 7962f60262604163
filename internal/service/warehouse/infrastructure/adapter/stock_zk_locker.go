package adapter

import (
	"context"

	"warehouse/internal/zookeeper"
)

// ZkStockLocker 是 port.StockLocker 的 ZooKeeper 实现，
// 用临时顺序节点对单个商品的库存修改做跨实例的串行化。
type ZkStockLocker struct {
	conn *zookeeper.Conn
}

// NewZkStockLocker 创建一个新的分布式库存锁适配器。
func NewZkStockLocker(conn *zookeeper.Conn) *ZkStockLocker {
	return &ZkStockLocker{conn: conn}
}

// Lock 获取指定商品的锁，阻塞到拿到锁或 ctx 结束。
func (l *ZkStockLocker) Lock(ctx context.Context, productID string) (func() error, error) {
	lock, err := zookeeper.NewDistributedLock(l.conn, productID)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(ctx); err != nil {
		return nil, err
	}
	return lock.Unlock, nil
}
