package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"warehouse/internal/service/warehouse/application"
	"warehouse/internal/service/warehouse/domain"
)

// createOrderRequest 创建/更新订单的请求体。
type createOrderRequest struct {
	DeliveryAddress string                    `json:"deliveryAddress"`
	Products        []application.LineRequest `json:"products"`
}

type orderIDResponse struct {
	OrderID uuid.UUID `json:"orderId"`
}

type updateStatusRequest struct {
	Status domain.Status `json:"status"`
}

func (h *WarehouseHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.CreateOrder")
	defer span.End()

	requester, err := customerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, &domain.ValidationError{Reason: "invalid request body"})
		return
	}

	order, err := h.orders.Create(ctx, requester, req.DeliveryAddress, req.Products)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderIDResponse{OrderID: order.ID})
}

func (h *WarehouseHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.GetOrder")
	defer span.End()

	requester, err := customerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.orders.GetView(ctx, orderID, requester)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *WarehouseHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.UpdateOrder")
	defer span.End()

	requester, err := customerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, &domain.ValidationError{Reason: "invalid request body"})
		return
	}

	order, err := h.orders.Update(ctx, orderID, req.Products, requester)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderIDResponse{OrderID: order.ID})
}

func (h *WarehouseHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.CancelOrder")
	defer span.End()

	requester, err := customerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.orders.Cancel(ctx, orderID, requester); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WarehouseHandler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.ConfirmOrder")
	defer span.End()

	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	order, err := h.orders.Confirm(ctx, orderID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"businessKey": order.BusinessKey})
}

// updateOrderStatus 是确认流程回调的 HTTP 形态，与 Kafka 回调等价。
func (h *WarehouseHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.UpdateOrderStatus")
	defer span.End()

	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, &domain.ValidationError{Reason: "invalid request body"})
		return
	}

	if err := h.orders.UpdateStatus(ctx, orderID, req.Status); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WarehouseHandler) ordersByProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.OrdersByProduct")
	defer span.End()

	grouped, err := h.aggregator.GroupByProduct(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Reason: name + " must be a valid UUID"}
	}
	return id, nil
}
