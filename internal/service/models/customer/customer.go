package customer

import (
	"strings"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
)

// Customer is the profile aggregated across every order placed from the
// same phone number.
type Customer struct {
	CustomerID     string     `json:"customerId"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Address        string     `json:"address"`
	Complement     string     `json:"complement"`
	FirstOrderDate time.Time  `json:"firstOrderDate"`
	LastOrderDate  *time.Time `json:"lastOrderDate,omitempty"`
	TotalOrders    int        `json:"totalOrders"`
}

// NormalizePhone keeps only the ASCII digits of phone. The result is the
// customer identifier.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, phone)
}

// New creates the profile for a phone number's first order.
func New(snapshot order.CustomerSnapshot, at time.Time) Customer {
	return Customer{
		CustomerID:     NormalizePhone(snapshot.Phone),
		Name:           snapshot.Name,
		Phone:          snapshot.Phone,
		Email:          snapshot.Email,
		Address:        snapshot.Address,
		Complement:     snapshot.Complement,
		FirstOrderDate: at,
		TotalOrders:    1,
	}
}

// RecordOrder merges a later order into the profile. Name and phone always
// take the new values; email, address and complement keep the previous value
// when the new order leaves them empty.
func (c *Customer) RecordOrder(snapshot order.CustomerSnapshot, at time.Time) {
	c.Name = snapshot.Name
	c.Phone = snapshot.Phone
	c.Email = fallback(snapshot.Email, c.Email)
	c.Address = fallback(snapshot.Address, c.Address)
	c.Complement = fallback(snapshot.Complement, c.Complement)
	c.TotalOrders++
	c.LastOrderDate = &at
}

func fallback(value, previous string) string {
	if value != "" {
		return value
	}

	return previous
}
