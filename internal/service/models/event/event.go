package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/customer"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// Type names an order lifecycle event. It doubles as the broker routing key.
type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
)

// OrderEvent is published whenever an order is created or changes status.
type OrderEvent struct {
	EventID        string          `json:"eventId"`
	Type           Type            `json:"type"`
	OrderID        string          `json:"orderId"`
	CustomerID     string          `json:"customerId"`
	Status         order.Status    `json:"status"`
	PreviousStatus order.Status    `json:"previousStatus,omitempty"`
	Total          decimal.Decimal `json:"total"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// NewOrderCreated builds the event for a freshly persisted order.
func NewOrderCreated(o order.Order, at time.Time) OrderEvent {
	return OrderEvent{
		EventID:    uuid.NewString(),
		Type:       TypeOrderCreated,
		OrderID:    o.OrderID,
		CustomerID: customer.NormalizePhone(o.Customer.Phone),
		Status:     o.Status,
		Total:      o.Total,
		OccurredAt: at,
	}
}

// NewStatusChanged builds the event for a status transition.
func NewStatusChanged(o order.Order, previous order.Status, at time.Time) OrderEvent {
	return OrderEvent{
		EventID:        uuid.NewString(),
		Type:           TypeOrderStatusChanged,
		OrderID:        o.OrderID,
		CustomerID:     customer.NormalizePhone(o.Customer.Phone),
		Status:         o.Status,
		PreviousStatus: previous,
		Total:          o.Total,
		OccurredAt:     at,
	}
}

// Message is an encoded event addressed to a broker.
type Message struct {
	ID          string
	Key         string
	RoutingKey  string
	ContentType string
	Payload     []byte
}
