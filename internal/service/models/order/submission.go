package order

import "github.com/shopspring/decimal"

// Submission is the checkout payload as sent by the storefront.
type Submission struct {
	Name           string           `json:"name"           validate:"required"`
	Phone          string           `json:"phone"          validate:"required"`
	Email          string           `json:"email"`
	Address        string           `json:"address"`
	Complement     string           `json:"complement"`
	DeliveryMethod string           `json:"deliveryMethod"`
	PaymentMethod  string           `json:"paymentMethod"`
	Items          []Item           `json:"items"          validate:"required,min=1,dive"`
	Total          *decimal.Decimal `json:"total"          validate:"required"`
}
