package application

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse/internal/service/warehouse/domain"
	"warehouse/internal/service/warehouse/domain/port"
)

// fakeProductRepo 基于内存 map 的商品仓储。
type fakeProductRepo struct {
	products map[uuid.UUID]*domain.Product
	saveErr  error
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uuid.UUID]*domain.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	result := make(map[uuid.UUID]*domain.Product, len(ids))
	for _, id := range ids {
		p, ok := r.products[id]
		if !ok {
			return nil, &domain.ProductNotFoundError{ProductID: id}
		}
		copied := *p
		result[id] = &copied
	}
	return result, nil
}

func (r *fakeProductRepo) FindPage(ctx context.Context, page, size int, search string, filters []domain.ProductFilter) ([]*domain.Product, int64, error) {
	all, _ := r.FindAll(ctx)
	return all, int64(len(all)), nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *domain.Product) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

func (r *fakeProductRepo) ExistsByArticle(ctx context.Context, article string) (bool, error) {
	for _, p := range r.products {
		if p.Article == article {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) IncreaseAllPrices(ctx context.Context, percent decimal.Decimal) (int64, error) {
	factor := decimal.NewFromInt(1).Add(percent.Div(decimal.NewFromInt(100)))
	for _, p := range r.products {
		p.Price = p.Price.Mul(factor).Round(2)
	}
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context) ([]*domain.Product, error) {
	all := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		copied := *p
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })
	return all, nil
}

func (r *fakeProductRepo) quantityOf(id uuid.UUID) int64 {
	return r.products[id].Quantity
}

// fakeCustomerRepo 基于内存 map 的购买方仓储。
type fakeCustomerRepo struct {
	customers map[int64]*domain.Customer
	nextID    int64
}

func newFakeCustomerRepo(customers ...*domain.Customer) *fakeCustomerRepo {
	repo := &fakeCustomerRepo{customers: make(map[int64]*domain.Customer), nextID: 1}
	for _, c := range customers {
		repo.customers[c.ID] = c
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
	}
	return repo
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, &domain.CustomerNotFoundError{CustomerID: id}
	}
	return c, nil
}

func (r *fakeCustomerRepo) Save(ctx context.Context, customer *domain.Customer) error {
	if customer.ID == 0 {
		customer.ID = r.nextID
		r.nextID++
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	for _, c := range r.customers {
		if c.Login == login {
			return true, nil
		}
	}
	return false, nil
}

// fakeOrderRepo 基于内存 map 的订单仓储。
type fakeOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, &domain.OrderNotFoundError{OrderID: id}
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByStatusIn(ctx context.Context, statuses []domain.Status) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, o := range r.orders {
		for _, s := range statuses {
			if o.Status == s {
				result = append(result, o)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return result, nil
}

// passthroughTx 直接执行 fn，不提供回滚。用于只验证成功路径、
// 或失败发生在第一次扣减之前的用例；需要回滚语义时用 snapshotTx。
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// snapshotTx 模拟数据库事务的回滚语义：进入事务前给商品仓储拍快照，
// fn 返回错误时整体恢复，中途的部分扣减对外不可见。
type snapshotTx struct {
	products *fakeProductRepo
}

func (tx snapshotTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[uuid.UUID]*domain.Product, len(tx.products.products))
	for id, p := range tx.products.products {
		copied := *p
		snapshot[id] = &copied
	}
	if err := fn(ctx); err != nil {
		tx.products.products = snapshot
		return err
	}
	return nil
}

// noopLocker 不做任何互斥，串行测试里锁语义无关紧要。
type noopLocker struct{}

func (noopLocker) Lock(ctx context.Context, productID string) (func() error, error) {
	return func() error { return nil }, nil
}

// fakeAccountService 返回预置的 login → account 映射。
type fakeAccountService struct {
	accounts map[string]string
	err      error
}

func (f *fakeAccountService) GetAccounts(ctx context.Context, logins []string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]string)
	for _, login := range logins {
		if acc, ok := f.accounts[login]; ok {
			result[login] = acc
		}
	}
	return result, nil
}

// fakeCrmService 返回预置的 login → crm 映射。
type fakeCrmService struct {
	crms map[string]string
	err  error
}

func (f *fakeCrmService) GetCrms(ctx context.Context, logins []string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]string)
	for _, login := range logins {
		if crm, ok := f.crms[login]; ok {
			result[login] = crm
		}
	}
	return result, nil
}

// fakeConfirmationService 记录请求并返回固定的业务键。
type fakeConfirmationService struct {
	businessKey string
	err         error
	lastRequest *port.ConfirmOrderRequest
}

func (f *fakeConfirmationService) ConfirmOrder(ctx context.Context, req port.ConfirmOrderRequest) (string, error) {
	f.lastRequest = &req
	if f.err != nil {
		return "", f.err
	}
	return f.businessKey, nil
}

// fakeEventProducer 记录发布的全部事件。
type fakeEventProducer struct {
	events []domain.OrderEvent
}

func (f *fakeEventProducer) Publish(ctx context.Context, event *domain.OrderEvent) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventProducer) lastEvent() *domain.OrderEvent {
	if len(f.events) == 0 {
		return nil
	}
	return &f.events[len(f.events)-1]
}

// fakeCurrencyService 返回固定汇率。
type fakeCurrencyService struct {
	rates domain.ExchangeRates
}

func (f *fakeCurrencyService) GetRates(ctx context.Context) (domain.ExchangeRates, error) {
	return f.rates, nil
}
