package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
)

// maxUpdateAttempts bounds compare-and-swap retries for unversioned updates.
const maxUpdateAttempts = 3

// OrderService runs the order lifecycle.
type OrderService struct {
	store  OrderStore
	policy TransitionPolicy
	clock  func() time.Time
	// sessionIDs issues checkout session ids for pix and card orders.
	sessionIDs func() (string, error)
}

// NewOrderService constructs order use-cases. A nil policy means permissive.
func NewOrderService(store OrderStore, policy TransitionPolicy, clock func() time.Time) *OrderService {
	if policy == nil {
		policy = PermissiveTransitions{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &OrderService{
		store:  store,
		policy: policy,
		clock:  clock,
	}
}

// UseSessionIDs makes Create assign a checkout session id from next to pix
// and card orders that arrive without one.
func (s *OrderService) UseSessionIDs(next func() (string, error)) {
	if s != nil {
		s.sessionIDs = next
	}
}

// Create validates and persists a new order.
func (s *OrderService) Create(ctx context.Context, draft OrderDraft) (Order, error) {
	if s == nil || s.store == nil {
		return Order{}, ErrStoreNotConfigured
	}
	order, err := BuildOrder(draft)
	if err != nil {
		return Order{}, err
	}
	if order.PaymentSessionID == "" && order.PaymentMethod.UsesCheckoutSession() && s.sessionIDs != nil {
		sessionID, err := s.sessionIDs()
		if err != nil {
			return Order{}, fmt.Errorf("issue payment session: %w", err)
		}
		order.PaymentSessionID = sessionID
	}
	now := s.nowUTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Version = 1

	created, err := s.store.CreateOrder(ctx, order)
	if err != nil {
		return Order{}, storeError("create order", err)
	}
	log.Printf("order created id=%d total_cents=%d items=%d payment_method=%s", created.ID, created.TotalCents, len(created.Items), created.PaymentMethod)
	return created, nil
}

// GetOrder loads one order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (Order, error) {
	if s == nil || s.store == nil {
		return Order{}, ErrStoreNotConfigured
	}
	if id <= 0 {
		return Order{}, invalidOrderID()
	}
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return Order{}, orderStoreError("get order", err)
	}
	return order, nil
}

// ListOrdersInput configures an order listing.
type ListOrdersInput struct {
	Status string
	Filter string
}

// ListOrders returns orders newest first, optionally narrowed by status and filter.
func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) ([]Order, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	query := OrderQuery{Filter: strings.TrimSpace(input.Filter)}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := ParseOrderStatus(raw)
		if err != nil {
			return nil, err
		}
		query.Status = status
	}
	orders, err := s.store.ListOrders(ctx, query)
	if err != nil {
		if errors.Is(err, ErrInvalidFilter) {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeOrderInvalidFilter, err.Error(), map[string]string{apperrors.MetadataField: "filter"}, err)
		}
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

// ListOrdersByPhone returns one customer's orders newest first.
func (s *OrderService) ListOrdersByPhone(ctx context.Context, phone string) ([]Order, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperrors.Validation(apperrors.CodeOrderCustomerPhoneQueryNeeded, "phone", "phone is required")
	}
	orders, err := s.store.ListOrders(ctx, OrderQuery{Phone: phone})
	if err != nil {
		return nil, storeError("list orders by phone", err)
	}
	return orders, nil
}

// UpdateOrderInput changes the status and/or payment status of one order.
// ExpectedVersion zero means last writer wins.
type UpdateOrderInput struct {
	ID              int64
	Status          string
	PaymentStatus   string
	ExpectedVersion int64
}

// UpdateOrder applies status changes. Re-applying the current values is a
// successful no-op that leaves the order untouched.
func (s *OrderService) UpdateOrder(ctx context.Context, input UpdateOrderInput) (Order, error) {
	if s == nil || s.store == nil {
		return Order{}, ErrStoreNotConfigured
	}
	if input.ID <= 0 {
		return Order{}, invalidOrderID()
	}
	var (
		status        OrderStatus
		paymentStatus PaymentStatus
		err           error
	)
	if strings.TrimSpace(input.Status) != "" {
		if status, err = ParseOrderStatus(input.Status); err != nil {
			return Order{}, err
		}
	}
	if strings.TrimSpace(input.PaymentStatus) != "" {
		if paymentStatus, err = ParsePaymentStatus(input.PaymentStatus); err != nil {
			return Order{}, err
		}
	}
	if status == "" && paymentStatus == "" {
		return Order{}, apperrors.New(apperrors.CodeOrderNoChanges, "status or paymentStatus is required")
	}

	for attempt := 1; ; attempt++ {
		current, err := s.store.GetOrder(ctx, input.ID)
		if err != nil {
			return Order{}, orderStoreError("get order", err)
		}
		if input.ExpectedVersion > 0 && current.Version != input.ExpectedVersion {
			return Order{}, versionConflict(input.ID, input.ExpectedVersion, current.Version)
		}

		update := OrderUpdate{ID: current.ID, ExpectedVersion: current.Version}
		if status != "" && status != current.Status {
			if !s.policy.Allows(current.Status, status) {
				return Order{}, apperrors.WithMetadata(
					apperrors.CodeOrderInvalidStatusTransition,
					fmt.Sprintf("cannot move order from %s to %s", current.Status, status),
					map[string]string{apperrors.MetadataField: "status", "policy": s.policy.Name()},
				)
			}
			update.Status = status
		}
		if paymentStatus != "" && paymentStatus != current.PaymentStatus {
			update.PaymentStatus = paymentStatus
		}
		if update.Status == "" && update.PaymentStatus == "" {
			return current, nil
		}
		update.UpdatedAt = s.nowUTC()

		updated, err := s.store.UpdateOrder(ctx, update)
		if err == nil {
			log.Printf("order updated id=%d status=%s payment_status=%s version=%d", updated.ID, updated.Status, updated.PaymentStatus, updated.Version)
			return updated, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return Order{}, orderStoreError("update order", err)
		}
		if input.ExpectedVersion > 0 || attempt >= maxUpdateAttempts {
			return Order{}, versionConflict(input.ID, input.ExpectedVersion, current.Version)
		}
	}
}

// UpdateStatus moves an order to status.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string, expectedVersion int64) (Order, error) {
	return s.UpdateOrder(ctx, UpdateOrderInput{ID: id, Status: status, ExpectedVersion: expectedVersion})
}

// UpdatePaymentStatus records a payment status change.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id int64, paymentStatus string) (Order, error) {
	return s.UpdateOrder(ctx, UpdateOrderInput{ID: id, PaymentStatus: paymentStatus})
}

// ConfirmPayment marks the order opened with sessionID as paid.
func (s *OrderService) ConfirmPayment(ctx context.Context, sessionID string) (Order, error) {
	if s == nil || s.store == nil {
		return Order{}, ErrStoreNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Order{}, apperrors.Validation(apperrors.CodePaymentPayloadInvalid, "sessionId", "payment session id is required")
	}
	order, err := s.store.GetOrderByPaymentSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, apperrors.NotFound(apperrors.CodeOrderPaymentSessionNotFound, "no order for payment session")
		}
		return Order{}, storeError("get order by payment session", err)
	}
	return s.UpdatePaymentStatus(ctx, order.ID, string(PaymentStatusPaid))
}

// DeleteOrder removes an order and its items.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	if id <= 0 {
		return invalidOrderID()
	}
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return orderStoreError("delete order", err)
	}
	log.Printf("order deleted id=%d", id)
	return nil
}

func (s *OrderService) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func invalidOrderID() error {
	return apperrors.Validation(apperrors.CodeOrderInvalidID, "id", "order id must be a positive integer")
}

func versionConflict(id, expected, current int64) error {
	return apperrors.WithMetadata(
		apperrors.CodeOrderVersionConflict,
		"order was modified by another request",
		map[string]string{
			"order_id":         fmt.Sprint(id),
			"expected_version": fmt.Sprint(expected),
			"current_version":  fmt.Sprint(current),
		},
	)
}

func orderStoreError(operation string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound(apperrors.CodeOrderNotFound, "order not found")
	}
	return storeError(operation, err)
}

// storeError passes through structured errors and context cancellation and
// wraps everything else as a persistence failure.
func storeError(operation string, err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Printf("persistence failure op=%q err=%v", operation, err)
	return apperrors.Persistence(operation, err)
}
