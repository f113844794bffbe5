package httpapi

import (
	"net/http"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

type createReservationRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	People int    `json:"people"`
	Note   string `json:"note"`
}

func (h *Handler) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reservation, err := h.deps.Reservations.CreateReservation(r.Context(), domain.ReservationDraft{
		Name:   req.Name,
		Phone:  req.Phone,
		Date:   req.Date,
		Time:   req.Time,
		People: req.People,
		Note:   req.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":       true,
		"reservationId": reservation.ID,
		"reservation":   presentReservation(reservation),
	})
}

func (h *Handler) handleListReservations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	reservations, err := h.deps.Reservations.ListReservations(r.Context(), domain.ListReservationsInput{
		Status: query.Get("status"),
		Date:   query.Get("date"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]reservationJSON, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, presentReservation(reservation))
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": out})
}

func (h *Handler) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	date, slots, err := h.deps.Reservations.GetAvailableSlots(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]slotJSON, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotJSON{Time: slot.Time, Booked: slot.Booked, Remaining: slot.Remaining})
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "slots": out})
}

func (h *Handler) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.CodeReservationInvalidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	reservation, err := h.deps.Reservations.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservation": presentReservation(reservation)})
}

type updateReservationRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.CodeReservationInvalidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateReservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reservation, err := h.deps.Reservations.UpdateReservationStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "reservation": presentReservation(reservation)})
}
