package application

import (
	"context"
	"errors"
	"testing"

	"warehouse/internal/service/warehouse/domain"
)

func TestCreateCustomerAssignsIDAndDefaults(t *testing.T) {
	service := NewCustomerService(newFakeCustomerRepo(), testTracer)

	customer, err := service.Create(context.Background(), SaveCustomerRequest{Login: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.ID == 0 {
		t.Error("expected customer to get an ID")
	}
	if !customer.IsActive {
		t.Error("expected new customer to be active")
	}
}

func TestCreateCustomerRejectsDuplicateLogin(t *testing.T) {
	existing := &domain.Customer{ID: 1, Login: "alice", Email: "alice@example.com", IsActive: true}
	service := NewCustomerService(newFakeCustomerRepo(existing), testTracer)

	_, err := service.Create(context.Background(), SaveCustomerRequest{Login: "alice", Email: "other@example.com"})
	var dup *domain.DuplicateLoginError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateLoginError, got %v", err)
	}
}

func TestCreateCustomerValidatesInput(t *testing.T) {
	service := NewCustomerService(newFakeCustomerRepo(), testTracer)
	if _, err := service.Create(context.Background(), SaveCustomerRequest{Email: "x@example.com"}); err == nil {
		t.Error("expected error for missing login")
	}
	if _, err := service.Create(context.Background(), SaveCustomerRequest{Login: "x"}); err == nil {
		t.Error("expected error for missing email")
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	service := NewCustomerService(newFakeCustomerRepo(), testTracer)
	_, err := service.Get(context.Background(), 42)
	var notFound *domain.CustomerNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected CustomerNotFoundError, got %v", err)
	}
}
