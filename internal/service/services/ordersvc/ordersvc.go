package ordersvc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/dal/interfaces/iorderrepo"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/errs"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/customer"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/event"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/metrics"
	"go.opentelemetry.io/otel"
)

const missingFieldsMessage = "Missing required fields: name, phone, items, total"

// eventPublisher delivers order lifecycle events.
type eventPublisher interface {
	Publish(ctx context.Context, evt event.OrderEvent) error
}

// OrderService validates order submissions and drives the order lifecycle.
type OrderService struct {
	orderRepo         iorderrepo.IOrderRepository
	publisher         eventPublisher
	metrics           *metrics.Registry
	validate          *validator.Validate
	strictTransitions bool
	defaultLimit      int
	now               func() time.Time
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService. It panics when no order
// repository is configured.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil {
		panic("ordersvc: order repository is required")
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

// WithEventPublisher sets the lifecycle event publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventPublisher(p eventPublisher) option {
	return func(s *OrderService) {
		s.publisher = p
	}
}

// WithMetrics sets the metrics registry.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMetrics(m *metrics.Registry) option {
	return func(s *OrderService) {
		s.metrics = m
	}
}

// WithStrictStatusTransitions makes ChangeStatus enforce the lifecycle.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStrictStatusTransitions(strict bool) option {
	return func(s *OrderService) {
		s.strictTransitions = strict
	}
}

// WithDefaultListLimit sets the limit used when a listing asks for none.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDefaultListLimit(limit int) option {
	return func(s *OrderService) {
		s.defaultLimit = limit
	}
}

// WithClock overrides the time source used for event timestamps.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// SubmitOrder validates a checkout submission and persists it as a pending
// order. The submitted total is trusted as given.
func (s *OrderService) SubmitOrder(ctx context.Context, sub order.Submission) (string, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.SubmitOrder")
	defer span.End()

	draft, err := s.buildDraft(sub)
	if err != nil {
		slog.InfoContext(ctx, "Rejected order submission", "reason", err)

		return "", err
	}

	s.checkTotal(ctx, draft)

	created, err := s.orderRepo.CreateOrder(ctx, draft)
	if err != nil {
		if created.OrderID != "" {
			slog.ErrorContext(ctx, "Order saved but customer aggregation failed",
				"order_id", created.OrderID,
				"error", err,
			)
		} else {
			slog.ErrorContext(ctx, "Failed to create order", "error", err)
		}

		return "", err
	}

	s.metrics.IncOrdersCreated()
	slog.InfoContext(ctx, "Order created successfully", "order_id", created.OrderID)

	s.publish(ctx, event.NewOrderCreated(created, s.now().UTC()))

	return created.OrderID, nil
}

// GetOrderStatus returns the order with the given id.
func (s *OrderService) GetOrderStatus(ctx context.Context, orderID string) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.GetOrderStatus")
	defer span.End()

	return s.orderRepo.GetOrder(ctx, orderID)
}

// ListRecentOrders returns up to limit orders, newest first.
func (s *OrderService) ListRecentOrders(ctx context.Context, limit int) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ListRecentOrders")
	defer span.End()

	if limit <= 0 {
		limit = s.defaultLimit
	}

	return s.orderRepo.ListOrders(ctx, limit)
}

// ChangeStatus moves an order to status. Without strict transitions any
// non-empty status is written.
func (s *OrderService) ChangeStatus(
	ctx context.Context,
	orderID string,
	status order.Status,
) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ChangeStatus")
	defer span.End()

	if status == "" {
		return order.Order{}, errs.NewValidationError("Status is required")
	}

	current, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}

	if s.strictTransitions {
		if !status.IsKnown() {
			return order.Order{}, errs.NewValidationError("Unknown status: %s", status)
		}
		if !order.CanTransition(current.Status, status) {
			return order.Order{}, errs.NewValidationError(
				"Cannot change status from %s to %s", current.Status, status)
		}
	} else if !status.IsKnown() {
		slog.WarnContext(ctx, "Accepting unknown order status", "order_id", orderID, "status", status)
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return order.Order{}, err
	}

	label := status.String()
	if !status.IsKnown() {
		label = "unknown"
	}
	s.metrics.IncStatusChange(label)
	slog.InfoContext(ctx, "Order status updated",
		"order_id", orderID,
		"from", current.Status,
		"to", status,
	)

	s.publish(ctx, event.NewStatusChanged(updated, current.Status, s.now().UTC()))

	return updated, nil
}

// LookupCustomer returns the customer profile for phone with its order
// history in placement order.
func (s *OrderService) LookupCustomer(
	ctx context.Context,
	phone string,
) (customer.Customer, []order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.LookupCustomer")
	defer span.End()

	c, err := s.orderRepo.GetCustomer(ctx, phone)
	if err != nil {
		return customer.Customer{}, nil, err
	}

	orders, err := s.orderRepo.GetCustomerOrders(ctx, c.CustomerID)
	if err != nil {
		return customer.Customer{}, nil, err
	}

	return c, orders, nil
}

func (s *OrderService) buildDraft(sub order.Submission) (order.Draft, error) {
	if err := s.validate.Struct(sub); err != nil {
		return order.Draft{}, s.translateValidation(err)
	}
	if !sub.Total.IsPositive() {
		return order.Draft{}, errs.NewValidationError(missingFieldsMessage)
	}
	if customer.NormalizePhone(sub.Phone) == "" {
		return order.Draft{}, errs.NewValidationError("Phone must contain digits")
	}

	delivery, err := order.ParseDeliveryMethod(sub.DeliveryMethod)
	if err != nil {
		return order.Draft{}, errs.NewValidationError("Invalid deliveryMethod: %s", sub.DeliveryMethod)
	}
	payment, err := order.ParsePaymentMethod(sub.PaymentMethod)
	if err != nil {
		return order.Draft{}, errs.NewValidationError("Invalid paymentMethod: %s", sub.PaymentMethod)
	}

	return order.Draft{
		Customer: order.CustomerSnapshot{
			Name:       sub.Name,
			Phone:      sub.Phone,
			Email:      sub.Email,
			Address:    sub.Address,
			Complement: sub.Complement,
		},
		DeliveryMethod: delivery,
		PaymentMethod:  payment,
		Items:          sub.Items,
		Total:          *sub.Total,
	}, nil
}

// translateValidation maps validator failures onto the messages the
// storefront displays.
func (s *OrderService) translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.NewValidationError("Invalid order: %v", err)
	}

	for _, fe := range verrs {
		switch fe.StructField() {
		case "Name", "Phone", "Items", "Total":
			return errs.NewValidationError(missingFieldsMessage)
		}
	}

	fe := verrs[0]
	if fe.StructField() == "Quantity" {
		return errs.NewValidationError("Invalid item %s: quantity must be at least 1",
			strings.TrimPrefix(fe.Namespace(), "Submission."))
	}

	return errs.NewValidationError("Invalid field %s", fe.Namespace())
}

// checkTotal compares the trusted total with the item prices. A difference is
// only reported.
func (s *OrderService) checkTotal(ctx context.Context, draft order.Draft) {
	computed, err := draft.ItemsTotal()
	if err != nil {
		slog.DebugContext(ctx, "Cannot price order items", "error", err)

		return
	}
	if !computed.Equal(draft.Total) {
		s.metrics.IncTotalMismatch()
		slog.WarnContext(ctx, "Submitted total differs from item prices",
			"submitted", draft.Total.String(),
			"computed", computed.String(),
		)
	}
}

func (s *OrderService) publish(ctx context.Context, evt event.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "Failed to publish order event",
			"event_type", evt.Type,
			"order_id", evt.OrderID,
			"error", err,
		)
	}
}
