package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"warehouse/internal/service/warehouse/application"
	"warehouse/internal/service/warehouse/domain"
)

type customerView struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

func toCustomerView(c *domain.Customer) customerView {
	return customerView{ID: c.ID, Login: c.Login, Email: c.Email, IsActive: c.IsActive}
}

func (h *WarehouseHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.CreateCustomer")
	defer span.End()

	var req application.SaveCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, &domain.ValidationError{Reason: "invalid request body"})
		return
	}

	customer, err := h.customers.Create(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerView(customer))
}

func (h *WarehouseHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.GetCustomer")
	defer span.End()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(ctx, w, &domain.ValidationError{Reason: "customer id must be an integer"})
		return
	}

	customer, err := h.customers.Get(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerView(customer))
}
