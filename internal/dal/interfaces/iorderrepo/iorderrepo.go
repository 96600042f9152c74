package iorderrepo

import (
	"context"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/customer"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
)

// IOrderRepository is an interface for the order repository.
type IOrderRepository interface {
	CreateOrder(ctx context.Context, draft order.Draft) (order.Order, error)
	GetOrder(ctx context.Context, orderID string) (order.Order, error)
	ListOrders(ctx context.Context, limit int) ([]order.Order, error)
	GetCustomer(ctx context.Context, phone string) (customer.Customer, error)
	GetCustomerOrders(ctx context.Context, customerID string) ([]order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
}
