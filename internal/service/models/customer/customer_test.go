package customer

import (
	"testing"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"81999990000", "81999990000"},
		{"(81) 99999-0000", "81999990000"},
		{"+55 81 9 9999 0000", "5581999990000"},
		{"sem telefone", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), tt.in)
	}
}

func TestNew(t *testing.T) {
	at := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	c := New(order.CustomerSnapshot{Name: "Ana", Phone: "(81) 99999-0000", Email: "ana@example.com"}, at)

	assert.Equal(t, "81999990000", c.CustomerID)
	assert.Equal(t, "(81) 99999-0000", c.Phone)
	assert.Equal(t, 1, c.TotalOrders)
	assert.Equal(t, at, c.FirstOrderDate)
	assert.Nil(t, c.LastOrderDate)
}

func TestCustomer_RecordOrder(t *testing.T) {
	first := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	c := New(order.CustomerSnapshot{
		Name:       "Ana",
		Phone:      "81999990000",
		Email:      "ana@example.com",
		Address:    "Rua A, 1",
		Complement: "apto 2",
	}, first)

	c.RecordOrder(order.CustomerSnapshot{
		Name:    "Ana Maria",
		Phone:   "81 99999-0000",
		Address: "Rua B, 2",
	}, second)

	assert.Equal(t, "Ana Maria", c.Name)
	assert.Equal(t, "81 99999-0000", c.Phone)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "Rua B, 2", c.Address)
	assert.Equal(t, "apto 2", c.Complement)
	assert.Equal(t, 2, c.TotalOrders)
	assert.Equal(t, first, c.FirstOrderDate)
	require.NotNil(t, c.LastOrderDate)
	assert.Equal(t, second, *c.LastOrderDate)
}
