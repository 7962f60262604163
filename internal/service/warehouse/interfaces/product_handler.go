package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"warehouse/internal/service/warehouse/application"
	"warehouse/internal/service/warehouse/domain"
)

// currencyHeader 展示货币请求头，缺省回落到基准货币。
const currencyHeader = "currency"

// searchProductsRequest 带动态过滤条件的商品搜索请求体。
type searchProductsRequest struct {
	Page    int                    `json:"page"`
	Size    int                    `json:"size"`
	Search  string                 `json:"search"`
	Filters []domain.ProductFilter `json:"filters"`
}

// requestCurrency 从查询参数或请求头解析展示货币。
func requestCurrency(r *http.Request) domain.Currency {
	if raw := r.URL.Query().Get("currency"); raw != "" {
		return domain.ParseCurrency(raw)
	}
	return domain.ParseCurrency(r.Header.Get(currencyHeader))
}

func (h *WarehouseHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.CreateProduct")
	defer span.End()

	var req application.SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, &domain.ValidationError{Reason: "invalid request body"})
		return
	}

	product, err := h.products.Create(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": product.ID.String()})
}

func (h *WarehouseHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.GetProduct")
	defer span.End()

	productID, err := pathUUID(r, "id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.products.Get(ctx, productID, requestCurrency(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *WarehouseHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.ListProducts")
	defer span.End()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	search := r.URL.Query().Get("search")

	result, err := h.products.List(ctx, page, size, search, nil, requestCurrency(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *WarehouseHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.SearchProducts")
	defer span.End()

	var req searchProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, &domain.ValidationError{Reason: "invalid request body"})
		return
	}

	result, err := h.products.List(ctx, req.Page, req.Size, req.Search, req.Filters, requestCurrency(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *WarehouseHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.UpdateProduct")
	defer span.End()

	productID, err := pathUUID(r, "id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req application.SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, &domain.ValidationError{Reason: "invalid request body"})
		return
	}

	product, err := h.products.Update(ctx, productID, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": product.ID.String()})
}

func (h *WarehouseHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "http.DeleteProduct")
	defer span.End()

	productID, err := pathUUID(r, "id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	deleted, err := h.products.Delete(ctx, productID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !deleted {
		writeError(ctx, w, &domain.ProductNotFoundError{ProductID: productID})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
