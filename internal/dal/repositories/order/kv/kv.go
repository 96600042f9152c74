package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/ikvstore"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/errs"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/customer"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

const (
	orderKeyPrefix          = "order:"
	customerKeyPrefix       = "customer:"
	customerOrdersKeyPrefix = "customer_orders:"

	// DefaultListLimit is used when ListOrders gets a non-positive limit.
	DefaultListLimit = 50

	historyFetchConcurrency = 8
)

func orderKey(orderID string) string       { return orderKeyPrefix + orderID }
func customerKey(customerID string) string { return customerKeyPrefix + customerID }
func customerOrdersKey(customerID string) string {
	return customerOrdersKeyPrefix + customerID
}

// OrderRepository maintains the order, customer and customer_orders key
// families. It is the only writer of those keys.
//
// The customer upsert and the index append are read-then-write sequences
// without a version check: two concurrent orders from the same phone can
// lose one update.
type OrderRepository struct {
	store ikvstore.IKVStore
	now   func() time.Time
}

// option is a function that configures the OrderRepository.
type option func(*OrderRepository)

// NewOrderRepository creates a repository over store.
func NewOrderRepository(store ikvstore.IKVStore, opts ...option) *OrderRepository {
	r := &OrderRepository{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithClock overrides the time source used for timestamps.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(r *OrderRepository) {
		r.now = now
	}
}

// CreateOrder persists a new pending order, then aggregates it into the
// customer profile and the customer's order index. A failure after the order
// write is returned together with the persisted order; nothing is rolled back.
func (r *OrderRepository) CreateOrder(ctx context.Context, draft order.Draft) (order.Order, error) {
	ctx, span := otel.Tracer("repository").Start(ctx, "OrderRepository.CreateOrder")
	defer span.End()

	now := r.now().UTC()
	o := order.Order{
		OrderID:        order.NewID(now),
		Customer:       draft.Customer,
		DeliveryMethod: draft.DeliveryMethod,
		PaymentMethod:  draft.PaymentMethod,
		Items:          draft.Items,
		Total:          draft.Total,
		Status:         order.StatusPending,
		CreatedAt:      now,
	}

	if err := r.put(ctx, orderKey(o.OrderID), o); err != nil {
		return order.Order{}, &errs.StorageError{Op: "save order", Err: err}
	}

	customerID := customer.NormalizePhone(o.Customer.Phone)
	if err := r.upsertCustomer(ctx, customerID, o.Customer, now); err != nil {
		return o, &errs.StorageError{Op: "upsert customer", Err: err}
	}

	if err := r.appendCustomerOrder(ctx, customerID, o.OrderID); err != nil {
		return o, &errs.StorageError{Op: "append customer order", Err: err}
	}

	return o, nil
}

func (r *OrderRepository) upsertCustomer(
	ctx context.Context,
	customerID string,
	snapshot order.CustomerSnapshot,
	at time.Time,
) error {
	var c customer.Customer
	found, err := r.get(ctx, customerKey(customerID), &c)
	if err != nil {
		return err
	}

	if !found {
		c = customer.New(snapshot, at)
	} else {
		c.RecordOrder(snapshot, at)
	}
	c.CustomerID = customerID

	return r.put(ctx, customerKey(customerID), c)
}

func (r *OrderRepository) appendCustomerOrder(ctx context.Context, customerID, orderID string) error {
	ids := make([]string, 0, 1)
	if _, err := r.get(ctx, customerOrdersKey(customerID), &ids); err != nil {
		return err
	}
	ids = append(ids, orderID)

	return r.put(ctx, customerOrdersKey(customerID), ids)
}

// GetOrder returns the order with the given id.
func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (order.Order, error) {
	ctx, span := otel.Tracer("repository").Start(ctx, "OrderRepository.GetOrder")
	defer span.End()

	var o order.Order
	found, err := r.get(ctx, orderKey(orderID), &o)
	if err != nil {
		return order.Order{}, &errs.StorageError{Op: "get order", Err: err}
	}
	if !found {
		return order.Order{}, &errs.NotFoundError{Resource: "Order", ID: orderID}
	}

	return o, nil
}

// ListOrders returns up to limit orders, newest first. Orders sharing a
// creation time keep their scan order.
func (r *OrderRepository) ListOrders(ctx context.Context, limit int) ([]order.Order, error) {
	ctx, span := otel.Tracer("repository").Start(ctx, "OrderRepository.ListOrders")
	defer span.End()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	entries, err := r.store.ScanPrefix(ctx, orderKeyPrefix)
	if err != nil {
		return nil, &errs.StorageError{Op: "list orders", Err: err}
	}

	orders := make([]order.Order, 0, len(entries))
	for _, e := range entries {
		var o order.Order
		if err := json.Unmarshal(e.Value, &o); err != nil {
			slog.WarnContext(ctx, "Skipping undecodable order record", "key", e.Key, "error", err)

			continue
		}
		orders = append(orders, o)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	if len(orders) > limit {
		orders = orders[:limit]
	}

	return orders, nil
}

// GetCustomer returns the profile for phone, normalized to digits.
func (r *OrderRepository) GetCustomer(ctx context.Context, phone string) (customer.Customer, error) {
	ctx, span := otel.Tracer("repository").Start(ctx, "OrderRepository.GetCustomer")
	defer span.End()

	customerID := customer.NormalizePhone(phone)
	if customerID == "" {
		return customer.Customer{}, &errs.NotFoundError{Resource: "Customer", ID: phone}
	}

	var c customer.Customer
	found, err := r.get(ctx, customerKey(customerID), &c)
	if err != nil {
		return customer.Customer{}, &errs.StorageError{Op: "get customer", Err: err}
	}
	if !found {
		return customer.Customer{}, &errs.NotFoundError{Resource: "Customer", ID: customerID}
	}

	return c, nil
}

// GetCustomerOrders resolves the customer's order index in index order.
// Orders the index references but the store no longer holds are skipped.
func (r *OrderRepository) GetCustomerOrders(ctx context.Context, customerID string) ([]order.Order, error) {
	ctx, span := otel.Tracer("repository").Start(ctx, "OrderRepository.GetCustomerOrders")
	defer span.End()

	var ids []string
	if _, err := r.get(ctx, customerOrdersKey(customerID), &ids); err != nil {
		return nil, &errs.StorageError{Op: "get customer orders", Err: err}
	}

	fetched := make([]*order.Order, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyFetchConcurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			var o order.Order
			found, err := r.get(gctx, orderKey(id), &o)
			if err != nil {
				return err
			}
			if found {
				fetched[i] = &o
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &errs.StorageError{Op: "get customer orders", Err: err}
	}

	orders := make([]order.Order, 0, len(ids))
	for _, o := range fetched {
		if o != nil {
			orders = append(orders, *o)
		}
	}

	return orders, nil
}

// UpdateStatus sets the order status and stamps updatedAt. Any status value
// is written; policy belongs to the caller.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	orderID string,
	status order.Status,
) (order.Order, error) {
	ctx, span := otel.Tracer("repository").Start(ctx, "OrderRepository.UpdateStatus")
	defer span.End()

	o, err := r.GetOrder(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}

	now := r.now().UTC()
	o.Status = status
	o.UpdatedAt = &now

	if err := r.put(ctx, orderKey(orderID), o); err != nil {
		return order.Order{}, &errs.StorageError{Op: "update order status", Err: err}
	}

	return o, nil
}

// get decodes the value under key into dst. It reports false when the key
// does not exist.
func (r *OrderRepository) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, ikvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}

	return true, nil
}

func (r *OrderRepository) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	return r.store.Set(ctx, key, raw)
}
