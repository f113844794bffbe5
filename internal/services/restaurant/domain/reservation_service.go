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

// ReservationService allocates reservation slots.
type ReservationService struct {
	store      ReservationStore
	clock      func() time.Time
	maxPerSlot int
}

// NewReservationService constructs reservation use-cases.
func NewReservationService(store ReservationStore, clock func() time.Time) *ReservationService {
	if clock == nil {
		clock = time.Now
	}
	return &ReservationService{
		store:      store,
		clock:      clock,
		maxPerSlot: MaxReservationsPerTime,
	}
}

// GetAvailableSlots lists the schedule times on date that still have room,
// in schedule order, along with date in YYYY-MM-DD form. Counts are read
// fresh on every call.
func (s *ReservationService) GetAvailableSlots(ctx context.Context, date string) (string, []TimeSlot, error) {
	if s == nil || s.store == nil {
		return "", nil, ErrStoreNotConfigured
	}
	day, err := ParseReservationDate(date)
	if err != nil {
		return "", nil, err
	}
	counts, err := s.store.CountActiveBySlot(ctx, day)
	if err != nil {
		return "", nil, storeError("count reservations", err)
	}
	slots := make([]TimeSlot, 0, len(dailySchedule))
	for _, slot := range dailySchedule {
		booked := counts[slot]
		if booked >= s.maxPerSlot {
			continue
		}
		slots = append(slots, TimeSlot{Time: slot, Booked: booked, Remaining: s.maxPerSlot - booked})
	}
	return day, slots, nil
}

// CreateReservation validates and stores a pending reservation. The slot
// capacity check and the insert happen atomically in the store.
func (s *ReservationService) CreateReservation(ctx context.Context, draft ReservationDraft) (Reservation, error) {
	if s == nil || s.store == nil {
		return Reservation{}, ErrStoreNotConfigured
	}
	reservation, err := BuildReservation(draft)
	if err != nil {
		return Reservation{}, err
	}
	now := s.nowUTC()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	created, err := s.store.CreateReservation(ctx, reservation, s.maxPerSlot)
	if err != nil {
		if errors.Is(err, ErrSlotFull) {
			return Reservation{}, slotFull(reservation)
		}
		return Reservation{}, storeError("create reservation", err)
	}
	log.Printf("reservation created id=%d date=%s time=%q people=%d", created.ID, created.Date, created.Time, created.People)
	return created, nil
}

// GetReservation loads one reservation.
func (s *ReservationService) GetReservation(ctx context.Context, id int64) (Reservation, error) {
	if s == nil || s.store == nil {
		return Reservation{}, ErrStoreNotConfigured
	}
	if id <= 0 {
		return Reservation{}, invalidReservationID()
	}
	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, reservationStoreError("get reservation", err)
	}
	return reservation, nil
}

// ListReservationsInput configures a reservation listing.
type ListReservationsInput struct {
	Status string
	Date   string
}

// ListReservations returns reservations newest first.
func (s *ReservationService) ListReservations(ctx context.Context, input ListReservationsInput) ([]Reservation, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	var query ReservationQuery
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := ParseReservationStatus(raw)
		if err != nil {
			return nil, err
		}
		query.Status = status
	}
	if raw := strings.TrimSpace(input.Date); raw != "" {
		day, err := ParseReservationDate(raw)
		if err != nil {
			return nil, err
		}
		query.Date = day
	}
	reservations, err := s.store.ListReservations(ctx, query)
	if err != nil {
		return nil, storeError("list reservations", err)
	}
	return reservations, nil
}

// UpdateReservationStatus confirms or cancels a reservation. Cancelling
// releases the slot because cancelled reservations are never counted.
func (s *ReservationService) UpdateReservationStatus(ctx context.Context, id int64, rawStatus string) (Reservation, error) {
	if s == nil || s.store == nil {
		return Reservation{}, ErrStoreNotConfigured
	}
	if id <= 0 {
		return Reservation{}, invalidReservationID()
	}
	status, err := ParseReservationStatus(rawStatus)
	if err != nil {
		return Reservation{}, err
	}
	current, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, reservationStoreError("get reservation", err)
	}
	if current.Status == status {
		return current, nil
	}
	if !reservationTransitionAllowed(current.Status, status) {
		return Reservation{}, apperrors.Validation(
			apperrors.CodeReservationInvalidStatus,
			"status",
			fmt.Sprintf("cannot move reservation from %s to %s", current.Status, status),
		)
	}
	updated, err := s.store.UpdateReservationStatus(ctx, id, status, s.nowUTC(), s.maxPerSlot)
	if err != nil {
		if errors.Is(err, ErrSlotFull) {
			return Reservation{}, slotFull(current)
		}
		return Reservation{}, reservationStoreError("update reservation", err)
	}
	log.Printf("reservation updated id=%d status=%s", updated.ID, updated.Status)
	return updated, nil
}

func (s *ReservationService) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func slotFull(reservation Reservation) error {
	return apperrors.WithMetadata(
		apperrors.CodeReservationSlotFull,
		fmt.Sprintf("no tables left on %s at %s", reservation.Date, reservation.Time),
		map[string]string{apperrors.MetadataField: "time", "date": reservation.Date, "time": reservation.Time},
	)
}

func invalidReservationID() error {
	return apperrors.Validation(apperrors.CodeReservationInvalidID, "id", "reservation id must be a positive integer")
}

func reservationStoreError(operation string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound(apperrors.CodeReservationNotFound, "reservation not found")
	}
	return storeError(operation, err)
}
