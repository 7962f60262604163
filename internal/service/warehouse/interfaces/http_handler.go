package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/warehouse/application"
	"warehouse/internal/service/warehouse/domain"
)

const serviceName = "warehouse-service"

// customerIDHeader 调用方身份由网关置入的请求头传递。
const customerIDHeader = "customerId"

// WarehouseHandler 封装了仓库服务的全部 HTTP 处理器。
type WarehouseHandler struct {
	orders     *application.OrderApplicationService
	aggregator *application.OrderEnrichmentAggregator
	products   *application.ProductService
	customers  *application.CustomerService
}

// NewWarehouseHandler 创建一个新的 HTTP 处理器实例。
func NewWarehouseHandler(
	orders *application.OrderApplicationService,
	aggregator *application.OrderEnrichmentAggregator,
	products *application.ProductService,
	customers *application.CustomerService,
) *WarehouseHandler {
	return &WarehouseHandler{
		orders:     orders,
		aggregator: aggregator,
		products:   products,
		customers:  customers,
	}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *WarehouseHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/orders", h.createOrder)
	mux.HandleFunc("GET /api/v1/orders/by-product", h.ordersByProduct)
	mux.HandleFunc("GET /api/v1/orders/{id}", h.getOrder)
	mux.HandleFunc("PATCH /api/v1/orders/{id}", h.updateOrder)
	mux.HandleFunc("DELETE /api/v1/orders/{id}", h.cancelOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/confirm", h.confirmOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/status", h.updateOrderStatus)

	mux.HandleFunc("POST /api/v1/products", h.createProduct)
	mux.HandleFunc("GET /api/v1/products", h.listProducts)
	mux.HandleFunc("POST /api/v1/products/search", h.searchProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.getProduct)
	mux.HandleFunc("PUT /api/v1/products/{id}", h.updateProduct)
	mux.HandleFunc("DELETE /api/v1/products/{id}", h.deleteProduct)

	mux.HandleFunc("POST /api/v1/customers", h.createCustomer)
	mux.HandleFunc("GET /api/v1/customers/{id}", h.getCustomer)
}

// startSpan 从请求头恢复追踪上下文并开启服务端 Span。
func startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	tracer := otel.Tracer(serviceName)
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
}

// customerID 从请求头解析调用方身份。
func customerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(customerIDHeader)
	if raw == "" {
		return 0, &domain.ValidationError{Reason: "customerId header is required"}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Reason: "customerId header must be an integer"}
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeError 把领域错误映射到 HTTP 状态码。
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Msg("request failed")
	} else {
		logger.Ctx(ctx).Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, status, errorResponse{Message: err.Error()})
}

func statusOf(err error) int {
	var (
		orderNotFound    *domain.OrderNotFoundError
		productNotFound  *domain.ProductNotFoundError
		customerNotFound *domain.CustomerNotFoundError
		forbidden        *domain.ForbiddenError
		incorrectState   *domain.IncorrectStateError
		notAvailable     *domain.ProductNotAvailableError
		notEnoughStock   *domain.NotEnoughStockError
		dupArticle       *domain.DuplicateArticleError
		dupLogin         *domain.DuplicateLoginError
		keyMismatch      *domain.BusinessKeyMismatchError
		validation       *domain.ValidationError
	)
	switch {
	case errors.As(err, &orderNotFound),
		errors.As(err, &productNotFound),
		errors.As(err, &customerNotFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &incorrectState),
		errors.As(err, &notAvailable),
		errors.As(err, &notEnoughStock),
		errors.As(err, &dupArticle),
		errors.As(err, &dupLogin),
		errors.As(err, &keyMismatch):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
