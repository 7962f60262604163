package application

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/warehouse/domain"
)

// CustomerService 管理购买方目录。
type CustomerService struct {
	customers domain.CustomerRepository
	tracer    trace.Tracer
}

// NewCustomerService 创建购买方服务。
func NewCustomerService(customers domain.CustomerRepository, tracer trace.Tracer) *CustomerService {
	return &CustomerService{customers: customers, tracer: tracer}
}

// Create 创建购买方，登录名必须唯一。
func (s *CustomerService) Create(ctx context.Context, req SaveCustomerRequest) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "customer.Create")
	defer span.End()

	if req.Login == "" {
		return nil, &domain.ValidationError{Reason: "customer login is required"}
	}
	if req.Email == "" {
		return nil, &domain.ValidationError{Reason: "customer email is required"}
	}

	exists, err := s.customers.ExistsByLogin(ctx, req.Login)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateLoginError{Login: req.Login}
	}

	customer := domain.NewCustomer(req.Login, req.Email)
	if err := s.customers.Save(ctx, customer); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("login", customer.Login).Msg("customer created")
	return customer, nil
}

// Get 按 ID 返回购买方。
func (s *CustomerService) Get(ctx context.Context, customerID int64) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "customer.Get")
	defer span.End()

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return customer, nil
}
