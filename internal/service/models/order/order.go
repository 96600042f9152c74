package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// The storefront sends and reads totals as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// CustomerSnapshot is the contact data captured when the order was placed.
type CustomerSnapshot struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Complement string `json:"complement"`
}

// Item represents a cart line within an order.
type Item struct {
	ProductID  int64  `json:"id"`
	Name       string `json:"name"`
	Weight     string `json:"weight"`
	PriceLabel string `json:"price"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
}

// LineTotal returns the unit price parsed from the label times the quantity.
func (i Item) LineTotal() (decimal.Decimal, error) {
	unit, err := ParsePriceLabel(i.PriceLabel)
	if err != nil {
		return decimal.Zero, err
	}

	return unit.Mul(decimal.NewFromInt(int64(i.Quantity))), nil
}

// Order represents a customer purchase request.
type Order struct {
	OrderID        string           `json:"orderId"`
	Customer       CustomerSnapshot `json:"customer"`
	DeliveryMethod DeliveryMethod   `json:"deliveryMethod"`
	PaymentMethod  PaymentMethod    `json:"paymentMethod"`
	Items          []Item           `json:"items"`
	Total          decimal.Decimal  `json:"total"`
	Status         Status           `json:"status"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      *time.Time       `json:"updatedAt,omitempty"`
}

// Draft is a validated order that has not been persisted yet.
type Draft struct {
	Customer       CustomerSnapshot
	DeliveryMethod DeliveryMethod
	PaymentMethod  PaymentMethod
	Items          []Item
	Total          decimal.Decimal
}

// ItemsTotal sums the line totals of every item.
func (d Draft) ItemsTotal() (decimal.Decimal, error) {
	sum := decimal.Zero
	for i, item := range d.Items {
		line, err := item.LineTotal()
		if err != nil {
			return decimal.Zero, fmt.Errorf("item %d: %w", i, err)
		}
		sum = sum.Add(line)
	}

	return sum, nil
}

// NewID generates an order identifier: a millisecond timestamp followed by a
// random suffix of seven lowercase alphanumerics.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:7]

	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

// ParsePriceLabel extracts the numeric amount from a label such as
// "R$ 42,90" or "R$ 52,90/kg".
func ParsePriceLabel(label string) (decimal.Decimal, error) {
	s := strings.TrimSpace(label)
	s = strings.TrimPrefix(s, "R$")
	if idx := strings.Index(s, "/"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price label %q: %w", label, err)
	}

	return amount, nil
}
