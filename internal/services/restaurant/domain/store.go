package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict indicates a write raced with another update.
	ErrVersionConflict = errors.New("record version conflict")
	// ErrSlotFull indicates a reservation slot has no remaining capacity.
	ErrSlotFull = errors.New("reservation slot is full")
	// ErrConflict indicates a write conflicted with a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
	// ErrInvalidFilter indicates a list filter expression could not be applied.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrStoreNotConfigured indicates the service is missing persistence wiring.
	ErrStoreNotConfigured = errors.New("restaurant store is not configured")
)

// OrderQuery narrows an order listing. Zero values mean no restriction.
type OrderQuery struct {
	Status OrderStatus
	Phone  string
	// Filter is an AIP-160 expression over order fields.
	Filter string
}

// OrderUpdate is a compare-and-swap write against one order.
// Empty Status or PaymentStatus leaves that column unchanged.
type OrderUpdate struct {
	ID              int64
	ExpectedVersion int64
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	UpdatedAt       time.Time
}

// OrderStore persists orders with their line items.
type OrderStore interface {
	// CreateOrder writes the header and items atomically and returns the
	// order with store-assigned ids.
	CreateOrder(ctx context.Context, order Order) (Order, error)
	GetOrder(ctx context.Context, id int64) (Order, error)
	GetOrderByPaymentSession(ctx context.Context, sessionID string) (Order, error)
	// ListOrders returns matches newest first with items loaded.
	ListOrders(ctx context.Context, query OrderQuery) ([]Order, error)
	// UpdateOrder applies update only while the row still has
	// ExpectedVersion, returning ErrVersionConflict otherwise.
	UpdateOrder(ctx context.Context, update OrderUpdate) (Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// ReservationQuery narrows a reservation listing.
type ReservationQuery struct {
	Status ReservationStatus
	Date   string
}

// ReservationStore persists reservations.
type ReservationStore interface {
	// CreateReservation inserts the reservation. When it has a time slot the
	// insert only happens while fewer than maxPerSlot non-cancelled
	// reservations hold that slot; otherwise ErrSlotFull is returned.
	CreateReservation(ctx context.Context, reservation Reservation, maxPerSlot int) (Reservation, error)
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	ListReservations(ctx context.Context, query ReservationQuery) ([]Reservation, error)
	// CountActiveBySlot counts non-cancelled reservations per time for date.
	CountActiveBySlot(ctx context.Context, date string) (map[string]int, error)
	// UpdateReservationStatus sets status. Moving a cancelled reservation
	// back to a status that holds capacity is subject to the same maxPerSlot
	// check as an insert.
	UpdateReservationStatus(ctx context.Context, id int64, status ReservationStatus, updatedAt time.Time, maxPerSlot int) (Reservation, error)
}

// MenuStore persists categories and products.
type MenuStore interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	PutCategory(ctx context.Context, category Category) (Category, error)
	ListProducts(ctx context.Context, query ProductQuery) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, product Product) (Product, error)
	UpdateProduct(ctx context.Context, product Product) (Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
