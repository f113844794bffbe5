package domain

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

type fakeStore struct {
	mu           sync.Mutex
	nextID       int64
	orders       map[int64]Order
	reservations map[int64]Reservation
	categories   map[int64]Category
	products     map[int64]Product
	listErr      error
	updateCalls  int
	conflictOnce bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:       map[int64]Order{},
		reservations: map[int64]Reservation{},
		categories:   map[int64]Category{},
		products:     map[int64]Product{},
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) CreateOrder(_ context.Context, order Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = s.id()
	items := make([]LineItem, len(order.Items))
	for idx, item := range order.Items {
		item.ID = s.id()
		item.OrderID = order.ID
		items[idx] = item
	}
	order.Items = items
	s.orders[order.ID] = order
	return order, nil
}

func (s *fakeStore) GetOrder(_ context.Context, id int64) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return order, nil
}

func (s *fakeStore) GetOrderByPaymentSession(_ context.Context, sessionID string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.PaymentSessionID == sessionID {
			return order, nil
		}
	}
	return Order{}, ErrNotFound
}

func (s *fakeStore) ListOrders(_ context.Context, query OrderQuery) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	if query.Filter != "" {
		return nil, ErrInvalidFilter
	}
	var out []Order
	for _, order := range s.orders {
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		if query.Phone != "" && order.CustomerPhone != query.Phone {
			continue
		}
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *fakeStore) UpdateOrder(_ context.Context, update OrderUpdate) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	order, ok := s.orders[update.ID]
	if !ok {
		return Order{}, ErrNotFound
	}
	if s.conflictOnce {
		s.conflictOnce = false
		order.Version++
		s.orders[order.ID] = order
		return Order{}, ErrVersionConflict
	}
	if order.Version != update.ExpectedVersion {
		return Order{}, ErrVersionConflict
	}
	if update.Status != "" {
		order.Status = update.Status
	}
	if update.PaymentStatus != "" {
		order.PaymentStatus = update.PaymentStatus
	}
	order.Version++
	order.UpdatedAt = update.UpdatedAt
	s.orders[order.ID] = order
	return order, nil
}

func (s *fakeStore) DeleteOrder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *fakeStore) activeInSlot(date, slot string, exclude int64) int {
	count := 0
	for _, reservation := range s.reservations {
		if reservation.ID == exclude {
			continue
		}
		if reservation.Date == date && reservation.Time == slot && reservation.Status.HoldsCapacity() {
			count++
		}
	}
	return count
}

func (s *fakeStore) CreateReservation(_ context.Context, reservation Reservation, maxPerSlot int) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reservation.HasSlot() && s.activeInSlot(reservation.Date, reservation.Time, 0) >= maxPerSlot {
		return Reservation{}, ErrSlotFull
	}
	reservation.ID = s.id()
	s.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (s *fakeStore) GetReservation(_ context.Context, id int64) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reservation, ok := s.reservations[id]
	if !ok {
		return Reservation{}, ErrNotFound
	}
	return reservation, nil
}

func (s *fakeStore) ListReservations(_ context.Context, query ReservationQuery) ([]Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Reservation
	for _, reservation := range s.reservations {
		if query.Status != "" && reservation.Status != query.Status {
			continue
		}
		if query.Date != "" && reservation.Date != query.Date {
			continue
		}
		out = append(out, reservation)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeStore) CountActiveBySlot(_ context.Context, date string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, reservation := range s.reservations {
		if reservation.Date == date && reservation.HasSlot() && reservation.Status.HoldsCapacity() {
			counts[reservation.Time]++
		}
	}
	return counts, nil
}

func (s *fakeStore) UpdateReservationStatus(_ context.Context, id int64, status ReservationStatus, updatedAt time.Time, maxPerSlot int) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reservation, ok := s.reservations[id]
	if !ok {
		return Reservation{}, ErrNotFound
	}
	if !reservation.Status.HoldsCapacity() && status.HoldsCapacity() && reservation.HasSlot() &&
		s.activeInSlot(reservation.Date, reservation.Time, id) >= maxPerSlot {
		return Reservation{}, ErrSlotFull
	}
	reservation.Status = status
	reservation.UpdatedAt = updatedAt
	s.reservations[id] = reservation
	return reservation, nil
}

func (s *fakeStore) ListCategories(context.Context) ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Category
	for _, category := range s.categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *fakeStore) GetCategory(_ context.Context, id int64) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return category, nil
}

func (s *fakeStore) PutCategory(_ context.Context, category Category) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.categories {
		if existing.Slug == category.Slug {
			category.ID = id
			s.categories[id] = category
			return category, nil
		}
	}
	category.ID = s.id()
	s.categories[category.ID] = category
	return category, nil
}

func (s *fakeStore) ListProducts(_ context.Context, query ProductQuery) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Product
	for _, product := range s.products {
		if query.AvailableOnly && !product.Available {
			continue
		}
		if query.CategoryID > 0 && product.CategoryID != query.CategoryID {
			continue
		}
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeStore) GetProduct(_ context.Context, id int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return product, nil
}

func (s *fakeStore) CreateProduct(_ context.Context, product Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.Name == product.Name {
			return Product{}, ErrConflict
		}
	}
	product.ID = s.id()
	s.products[product.ID] = product
	return product, nil
}

func (s *fakeStore) UpdateProduct(_ context.Context, product Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return Product{}, ErrNotFound
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *fakeStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

var errStoreDown = errors.New("database is locked")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
