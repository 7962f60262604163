package domain

// Customer 是购买方。订单创建时解析一次，之后对引擎只读。
type Customer struct {
	ID       int64
	Login    string
	Email    string
	IsActive bool
}

// NewCustomer 创建一个新的购买方，初始为活跃状态。
func NewCustomer(login, email string) *Customer {
	return &Customer{
		Login:    login,
		Email:    email,
		IsActive: true,
	}
}
