package adapter

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLocalStockLockerSerializesSameProduct(t *testing.T) {
	locker := NewLocalStockLocker()
	var counter, max int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "product-1")
			if err != nil {
				t.Errorf("unexpected lock error: %v", err)
				return
			}
			defer unlock()

			mu.Lock()
			counter++
			if counter > max {
				max = counter
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if max != 1 {
		t.Errorf("expected at most one holder of the same product lock, saw %d", max)
	}
}

func TestLocalStockLockerIndependentProducts(t *testing.T) {
	locker := NewLocalStockLocker()

	unlockA, err := locker.Lock(context.Background(), "product-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer unlockA()

	// 不同商品的锁互不阻塞
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, "product-b")
	if err != nil {
		t.Fatalf("expected independent product lock to succeed: %v", err)
	}
	_ = unlockB()
}

func TestLocalStockLockerRespectsContext(t *testing.T) {
	locker := NewLocalStockLocker()

	unlock, err := locker.Lock(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, "product-1"); err == nil {
		t.Fatal("expected context deadline error while lock is held")
	}

	_ = unlock()
	if _, err := locker.Lock(context.Background(), "product-1"); err != nil {
		t.Fatalf("expected lock to be acquirable after unlock: %v", err)
	}
}
