package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
)

// PickupAddress is stored as the address of every pickup order.
const PickupAddress = "Retirar no restaurante"

// Fulfillment is how an order reaches the customer: Delivery or Pickup.
type Fulfillment interface {
	Type() DeliveryType
	Address() string
	fulfillment()
}

// Delivery sends the order to a customer address.
type Delivery struct {
	Street string
}

// Type implements Fulfillment.
func (Delivery) Type() DeliveryType { return DeliveryTypeDelivery }

// Address implements Fulfillment.
func (d Delivery) Address() string { return d.Street }

func (Delivery) fulfillment() {}

// Pickup means the customer collects the order at the restaurant.
type Pickup struct{}

// Type implements Fulfillment.
func (Pickup) Type() DeliveryType { return DeliveryTypePickup }

// Address implements Fulfillment.
func (Pickup) Address() string { return PickupAddress }

func (Pickup) fulfillment() {}

// FulfillmentFromStorage rebuilds a fulfillment from persisted columns.
func FulfillmentFromStorage(deliveryType DeliveryType, address string) Fulfillment {
	if deliveryType == DeliveryTypePickup {
		return Pickup{}
	}
	return Delivery{Street: address}
}

// LineItem is one product line of an order. Name and unit price are
// snapshots taken at order time.
type LineItem struct {
	ID             int64
	OrderID        int64
	ProductID      int64
	ProductName    string
	UnitPriceCents int64
	Quantity       int
}

// SubtotalCents is unit price times quantity.
func (l LineItem) SubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Order is a customer purchase and its lifecycle state.
type Order struct {
	ID               int64
	CustomerName     string
	CustomerPhone    string
	Fulfillment      Fulfillment
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	Status           OrderStatus
	TotalCents       int64
	Notes            string
	PaymentSessionID string
	Items            []LineItem
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DeliveryType returns the fulfillment kind, defaulting to delivery.
func (o Order) DeliveryType() DeliveryType {
	if o.Fulfillment == nil {
		return DeliveryTypeDelivery
	}
	return o.Fulfillment.Type()
}

// Address returns the stored customer address.
func (o Order) Address() string {
	if o.Fulfillment == nil {
		return ""
	}
	return o.Fulfillment.Address()
}

// ItemsTotalCents sums the line item subtotals.
func (o Order) ItemsTotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.SubtotalCents()
	}
	return total
}

// OrderDraft is the unvalidated input for a new order.
type OrderDraft struct {
	CustomerName     string
	CustomerPhone    string
	DeliveryType     string
	Address          string
	PaymentMethod    string
	Notes            string
	PaymentSessionID string
	// TotalCents is optional; zero means compute from items.
	TotalCents int64
	Items      []LineItemDraft
}

// LineItemDraft is one requested order line.
type LineItemDraft struct {
	ProductID      int64
	ProductName    string
	UnitPriceCents int64
	Quantity       int
}

// BuildOrder validates a draft and returns the order to persist.
// The returned order has no ID, timestamps, or version yet.
func BuildOrder(draft OrderDraft) (Order, error) {
	customerName := strings.TrimSpace(draft.CustomerName)
	if customerName == "" {
		return Order{}, apperrors.Validation(apperrors.CodeOrderCustomerNameRequired, "customerName", "customer name is required")
	}
	customerPhone := strings.TrimSpace(draft.CustomerPhone)
	if customerPhone == "" {
		return Order{}, apperrors.Validation(apperrors.CodeOrderCustomerPhoneRequired, "customerPhone", "customer phone is required")
	}

	deliveryType, err := ParseDeliveryType(draft.DeliveryType)
	if err != nil {
		return Order{}, err
	}
	var fulfillment Fulfillment = Pickup{}
	if deliveryType == DeliveryTypeDelivery {
		address := strings.TrimSpace(draft.Address)
		if address == "" {
			return Order{}, apperrors.Validation(apperrors.CodeOrderAddressRequired, "customerAddress", "address is required for delivery")
		}
		fulfillment = Delivery{Street: address}
	}

	paymentMethod, err := ParsePaymentMethod(draft.PaymentMethod)
	if err != nil {
		return Order{}, err
	}

	if len(draft.Items) == 0 {
		return Order{}, apperrors.Validation(apperrors.CodeOrderItemsRequired, "items", "order must contain at least one item")
	}
	items := make([]LineItem, 0, len(draft.Items))
	var total int64
	for idx, itemDraft := range draft.Items {
		item, err := buildLineItem(idx, itemDraft)
		if err != nil {
			return Order{}, err
		}
		subtotal := item.SubtotalCents()
		if total > math.MaxInt64-subtotal {
			return Order{}, apperrors.Validation(apperrors.CodeOrderInvalidItem, "items", "order total is too large")
		}
		total += subtotal
		items = append(items, item)
	}

	if draft.TotalCents != 0 && draft.TotalCents != total {
		return Order{}, apperrors.Validation(
			apperrors.CodeOrderTotalMismatch,
			"totalCents",
			fmt.Sprintf("total %d does not match item subtotals %d", draft.TotalCents, total),
		)
	}

	return Order{
		CustomerName:     customerName,
		CustomerPhone:    customerPhone,
		Fulfillment:      fulfillment,
		PaymentMethod:    paymentMethod,
		PaymentStatus:    paymentMethod.InitialPaymentStatus(),
		Status:           OrderStatusPending,
		TotalCents:       total,
		Notes:            strings.TrimSpace(draft.Notes),
		PaymentSessionID: strings.TrimSpace(draft.PaymentSessionID),
		Items:            items,
	}, nil
}

func buildLineItem(idx int, draft LineItemDraft) (LineItem, error) {
	field := fmt.Sprintf("items[%d]", idx)
	switch {
	case draft.ProductID <= 0:
		return LineItem{}, apperrors.Validation(apperrors.CodeOrderInvalidItem, field+".productId", "product id must be positive")
	case strings.TrimSpace(draft.ProductName) == "":
		return LineItem{}, apperrors.Validation(apperrors.CodeOrderInvalidItem, field+".productName", "product name is required")
	case draft.UnitPriceCents < 0:
		return LineItem{}, apperrors.Validation(apperrors.CodeOrderInvalidItem, field+".unitPriceCents", "unit price must not be negative")
	case draft.Quantity <= 0:
		return LineItem{}, apperrors.Validation(apperrors.CodeOrderInvalidItem, field+".quantity", "quantity must be positive")
	case draft.UnitPriceCents > math.MaxInt64/int64(draft.Quantity):
		return LineItem{}, apperrors.Validation(apperrors.CodeOrderInvalidItem, field+".quantity", "item subtotal is too large")
	}
	return LineItem{
		ProductID:      draft.ProductID,
		ProductName:    strings.TrimSpace(draft.ProductName),
		UnitPriceCents: draft.UnitPriceCents,
		Quantity:       draft.Quantity,
	}, nil
}
