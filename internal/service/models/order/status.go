package order

import (
	"errors"
	"strings"
)

// Status is the fulfillment stage of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// progression lists the forward path an order walks through.
var progression = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
}

func (s Status) String() string {
	return string(s)
}

// IsKnown reports whether s is one of the six lifecycle statuses.
func (s Status) IsKnown() bool {
	if s == StatusCancelled {
		return true
	}

	return s.rank() >= 0
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) rank() int {
	for i, st := range progression {
		if st == s {
			return i
		}
	}

	return -1
}

// CanTransition reports whether an order may move from one status to another
// under the strict lifecycle: forward along the progression (skips allowed),
// to cancelled from any non-terminal status, or a re-apply of the same status.
func CanTransition(from, to Status) bool {
	if !from.IsKnown() || !to.IsKnown() {
		return false
	}
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}

	return to.rank() > from.rank()
}

// DeliveryMethod is how the order reaches the customer.
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

// PaymentMethod is how the customer pays on pickup or delivery.
type PaymentMethod string

const (
	PaymentCash            PaymentMethod = "cash"
	PaymentInstantTransfer PaymentMethod = "instant-transfer"
	PaymentCardOnDelivery  PaymentMethod = "card-on-delivery"
)

var (
	ErrUnknownDeliveryMethod = errors.New("unknown delivery method")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
)

// ParseDeliveryMethod accepts the canonical values and the storefront's
// Portuguese labels. An empty value is kept empty.
func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(DeliveryPickup), "retirada":
		return DeliveryPickup, nil
	case string(DeliveryDelivery), "entrega":
		return DeliveryDelivery, nil
	default:
		return "", ErrUnknownDeliveryMethod
	}
}

// ParsePaymentMethod accepts the canonical values and the storefront's
// Portuguese labels. An empty value is kept empty.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(PaymentCash), "dinheiro":
		return PaymentCash, nil
	case string(PaymentInstantTransfer), "pix":
		return PaymentInstantTransfer, nil
	case string(PaymentCardOnDelivery), "cartao", "cartão":
		return PaymentCardOnDelivery, nil
	default:
		return "", ErrUnknownPaymentMethod
	}
}
