package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

const reservationColumns = `id, name, phone, reservation_date, reservation_time, people, note, status, created_at, updated_at`

// CreateReservation inserts reservation. A timed reservation is only written
// while its slot holds fewer than maxPerSlot non-cancelled reservations; the
// count and the insert share one immediate transaction.
func (s *Store) CreateReservation(ctx context.Context, reservation domain.Reservation, maxPerSlot int) (domain.Reservation, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Reservation{}, err
	}

	err := s.inTx(ctx, "create reservation", func(tx *sql.Tx) error {
		if reservation.HasSlot() && reservation.Status.HoldsCapacity() {
			booked, err := countSlot(ctx, tx, reservation.Date, reservation.Time, 0)
			if err != nil {
				return err
			}
			if booked >= maxPerSlot {
				return domain.ErrSlotFull
			}
		}
		result, err := tx.ExecContext(ctx, `
INSERT INTO reservations (
    name, phone, reservation_date, reservation_time, people, note, status, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
			reservation.Name,
			reservation.Phone,
			reservation.Date,
			reservation.Time,
			reservation.People,
			reservation.Note,
			string(reservation.Status),
			toMillis(reservation.CreatedAt),
			toMillis(reservation.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("read reservation id: %w", err)
		}
		reservation.ID = id
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return reservation, nil
}

// GetReservation loads one reservation.
func (s *Store) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Reservation{}, err
	}
	return getReservation(ctx, s.sqlDB, id)
}

func getReservation(ctx context.Context, q queryer, id int64) (domain.Reservation, error) {
	row := q.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id)
	reservation, err := scanReservation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return reservation, nil
}

// ListReservations returns matching reservations newest first.
func (s *Store) ListReservations(ctx context.Context, query domain.ReservationQuery) ([]domain.Reservation, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var (
		clauses []string
		params  []any
	)
	if query.Status != "" {
		clauses = append(clauses, "status = ?")
		params = append(params, string(query.Status))
	}
	if date := strings.TrimSpace(query.Date); date != "" {
		clauses = append(clauses, "reservation_date = ?")
		params = append(params, date)
	}
	statement := "SELECT " + reservationColumns + " FROM reservations"
	if len(clauses) > 0 {
		statement += " WHERE " + strings.Join(clauses, " AND ")
	}
	statement += " ORDER BY created_at DESC, id DESC"

	rows, err := s.sqlDB.QueryContext(ctx, statement, params...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		reservation, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return reservations, nil
}

// CountActiveBySlot counts non-cancelled timed reservations per time on date.
func (s *Store) CountActiveBySlot(ctx context.Context, date string) (map[string]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT reservation_time, COUNT(*)
FROM reservations
WHERE reservation_date = ? AND reservation_time <> '' AND status <> ?
GROUP BY reservation_time
`, date, string(domain.ReservationStatusCancelled))
	if err != nil {
		return nil, fmt.Errorf("count reservations by slot: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			slot  string
			count int
		)
		if err := rows.Scan(&slot, &count); err != nil {
			return nil, fmt.Errorf("scan slot count: %w", err)
		}
		counts[slot] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot counts: %w", err)
	}
	return counts, nil
}

// UpdateReservationStatus sets the status of one reservation. Reinstating a
// cancelled timed reservation rechecks the slot capacity.
func (s *Store) UpdateReservationStatus(ctx context.Context, id int64, status domain.ReservationStatus, updatedAt time.Time, maxPerSlot int) (domain.Reservation, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Reservation{}, err
	}

	var updated domain.Reservation
	err := s.inTx(ctx, "update reservation status", func(tx *sql.Tx) error {
		current, err := getReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.HasSlot() && !current.Status.HoldsCapacity() && status.HoldsCapacity() {
			booked, err := countSlot(ctx, tx, current.Date, current.Time, current.ID)
			if err != nil {
				return err
			}
			if booked >= maxPerSlot {
				return domain.ErrSlotFull
			}
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?",
			string(status), toMillis(updatedAt), id,
		); err != nil {
			return fmt.Errorf("update reservation status: %w", err)
		}
		current.Status = status
		current.UpdatedAt = updatedAt.UTC()
		updated = current
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return updated, nil
}

// countSlot counts non-cancelled reservations on date and time, ignoring excludeID.
func countSlot(ctx context.Context, tx *sql.Tx, date, slot string, excludeID int64) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM reservations
WHERE reservation_date = ? AND reservation_time = ? AND status <> ? AND id <> ?
`, date, slot, string(domain.ReservationStatusCancelled), excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count slot reservations: %w", err)
	}
	return count, nil
}

func scanReservation(scan func(dest ...any) error) (domain.Reservation, error) {
	var (
		reservation domain.Reservation
		status      string
		createdAt   int64
		updatedAt   int64
	)
	if err := scan(
		&reservation.ID,
		&reservation.Name,
		&reservation.Phone,
		&reservation.Date,
		&reservation.Time,
		&reservation.People,
		&reservation.Note,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Reservation{}, err
	}
	reservation.Status = domain.ReservationStatus(status)
	reservation.CreatedAt = fromMillis(createdAt)
	reservation.UpdatedAt = fromMillis(updatedAt)
	return reservation, nil
}
