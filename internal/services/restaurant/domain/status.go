package domain

import (
	"strings"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
)

// OrderStatus is the kitchen-facing lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// OrderStatusDelivered only appears in legacy rows. It is read as
	// completed and never accepted as a write target.
	OrderStatusDelivered OrderStatus = "delivered"
)

var writableOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// OrderStatuses returns the statuses an order may be moved to, in lifecycle order.
func OrderStatuses() []OrderStatus {
	return append([]OrderStatus(nil), writableOrderStatuses...)
}

// ParseOrderStatus validates a caller-supplied order status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range writableOrderStatuses {
		if status == candidate {
			return status, nil
		}
	}
	return "", apperrors.Validation(apperrors.CodeOrderInvalidStatus, "status", "invalid order status: "+strings.TrimSpace(raw))
}

// IsCompleted reports whether the status counts as a finished sale.
func (s OrderStatus) IsCompleted() bool {
	return s == OrderStatusCompleted || s == OrderStatusDelivered
}

// Normalized folds the legacy delivered status into completed.
func (s OrderStatus) Normalized() OrderStatus {
	if s == OrderStatusDelivered {
		return OrderStatusCompleted
	}
	return s
}

// ReservationStatus is the approval state of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ParseReservationStatus validates a caller-supplied reservation status.
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	switch status := ReservationStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return status, nil
	default:
		return "", apperrors.Validation(apperrors.CodeReservationInvalidStatus, "status", "invalid reservation status: "+strings.TrimSpace(raw))
	}
}

// HoldsCapacity reports whether a reservation in this status occupies its slot.
func (s ReservationStatus) HoldsCapacity() bool {
	return s != ReservationStatusCancelled
}

// PaymentStatus tracks whether an order has been paid.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// ParsePaymentStatus validates a caller-supplied payment status.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch status := PaymentStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case PaymentStatusPending, PaymentStatusPaid:
		return status, nil
	default:
		return "", apperrors.Validation(apperrors.CodeOrderInvalidPaymentStatus, "paymentStatus", "invalid payment status: "+strings.TrimSpace(raw))
	}
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentMethodPix  PaymentMethod = "pix"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

// ParsePaymentMethod validates a caller-supplied payment method.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch method := PaymentMethod(strings.ToLower(strings.TrimSpace(raw))); method {
	case PaymentMethodPix, PaymentMethodCard, PaymentMethodCash:
		return method, nil
	default:
		return "", apperrors.Validation(apperrors.CodeOrderInvalidPaymentMethod, "paymentMethod", "invalid payment method: "+strings.TrimSpace(raw))
	}
}

// UsesCheckoutSession reports whether the method is settled through a
// provider checkout session.
func (m PaymentMethod) UsesCheckoutSession() bool {
	return m == PaymentMethodPix || m == PaymentMethodCard
}

// InitialPaymentStatus is the payment status a new order starts with.
// Card payments are captured before the order is placed.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentMethodCard {
		return PaymentStatusPaid
	}
	return PaymentStatusPending
}

// DeliveryType selects how an order reaches the customer.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

// ParseDeliveryType validates a delivery type; empty means delivery.
func ParseDeliveryType(raw string) (DeliveryType, error) {
	switch deliveryType := DeliveryType(strings.ToLower(strings.TrimSpace(raw))); deliveryType {
	case "":
		return DeliveryTypeDelivery, nil
	case DeliveryTypeDelivery, DeliveryTypePickup:
		return deliveryType, nil
	default:
		return "", apperrors.Validation(apperrors.CodeOrderInvalidDeliveryType, "deliveryType", "invalid delivery type: "+strings.TrimSpace(raw))
	}
}
