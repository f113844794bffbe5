package domain

import (
	"strings"
	"time"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
)

const (
	// MaxPartySize is the largest party accepted for one reservation.
	MaxPartySize = 8
	// MaxReservationsPerTime caps non-cancelled reservations per date and time.
	MaxReservationsPerTime = 5
	// DateLayout is the calendar-day format of reservation dates.
	DateLayout = "2006-01-02"
)

var dailySchedule = []string{
	"11:30", "12:00", "12:30", "13:00", "13:30",
	"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00",
}

// Schedule returns the bookable times of every day, in order.
func Schedule() []string {
	return append([]string(nil), dailySchedule...)
}

// IsScheduledTime reports whether value is one of the daily slots.
func IsScheduledTime(value string) bool {
	for _, slot := range dailySchedule {
		if slot == value {
			return true
		}
	}
	return false
}

// Reservation is a table booking request.
type Reservation struct {
	ID     int64
	Name   string
	Phone  string
	Date   string
	Time   string
	People int
	Note   string
	Status ReservationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSlot reports whether the reservation is tied to a time slot.
func (r Reservation) HasSlot() bool {
	return r.Time != ""
}

// TimeSlot is the availability of one schedule time on a date.
type TimeSlot struct {
	Time      string
	Booked    int
	Remaining int
}

// ReservationDraft is the unvalidated input for a new reservation.
type ReservationDraft struct {
	Name   string
	Phone  string
	Date   string
	Time   string
	People int
	Note   string
}

// ParseReservationDate validates a YYYY-MM-DD calendar day.
func ParseReservationDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.Validation(apperrors.CodeReservationInvalidDate, "date", "date is required")
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", apperrors.Validation(apperrors.CodeReservationInvalidDate, "date", "date must use YYYY-MM-DD")
	}
	return parsed.Format(DateLayout), nil
}

// BuildReservation validates a draft and returns a pending reservation.
func BuildReservation(draft ReservationDraft) (Reservation, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return Reservation{}, apperrors.Validation(apperrors.CodeReservationNameRequired, "name", "name is required")
	}
	phone := strings.TrimSpace(draft.Phone)
	if phone == "" {
		return Reservation{}, apperrors.Validation(apperrors.CodeReservationPhoneRequired, "phone", "phone is required")
	}
	date, err := ParseReservationDate(draft.Date)
	if err != nil {
		return Reservation{}, err
	}
	slot := strings.TrimSpace(draft.Time)
	if slot != "" && !IsScheduledTime(slot) {
		return Reservation{}, apperrors.Validation(apperrors.CodeReservationInvalidTimeSlot, "time", "time is not a bookable slot: "+slot)
	}
	if draft.People < 1 || draft.People > MaxPartySize {
		return Reservation{}, apperrors.Validation(apperrors.CodeReservationInvalidParty, "people", "party size must be between 1 and 8")
	}
	return Reservation{
		Name:   name,
		Phone:  phone,
		Date:   date,
		Time:   slot,
		People: draft.People,
		Note:   strings.TrimSpace(draft.Note),
		Status: ReservationStatusPending,
	}, nil
}
