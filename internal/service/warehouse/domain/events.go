package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType Kafka 事件类型。
type EventType string

const (
	// 出站事件：订单生命周期变更。
	EventOrderCreated       EventType = "ORDER_CREATED"
	EventOrderUpdated       EventType = "ORDER_UPDATED"
	EventOrderStatusUpdated EventType = "ORDER_STATUS_UPDATED"
	EventOrderCancelled     EventType = "ORDER_CANCELLED"

	// 入站事件：外部确认流程的回调。
	EventUpdateOrderStatus     EventType = "UPDATE_ORDER_STATUS"
	EventCheckOrderBusinessKey EventType = "CHECK_ORDER_BUSINESS_KEY"
)

// OrderEvent 是订单相关 Kafka 消息的统一载体，
// Event 字段决定哪些负载字段有意义。
type OrderEvent struct {
	Event       EventType `json:"event"`
	OrderID     uuid.UUID `json:"orderId"`
	Status      Status    `json:"status,omitempty"`
	BusinessKey string    `json:"businessKey,omitempty"`
	Login       string    `json:"login,omitempty"`
	CRM         string    `json:"crm,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
