package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

const orderColumns = `o.id, o.customer_name, o.customer_phone, o.customer_address, o.delivery_type,
o.payment_method, o.payment_status, o.status, o.total_cents, o.notes, o.payment_session_id,
o.version, o.created_at, o.updated_at`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateOrder inserts the order header and its items in one transaction.
func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Order{}, err
	}
	if len(order.Items) == 0 {
		return domain.Order{}, fmt.Errorf("order items are required")
	}
	if order.Version <= 0 {
		order.Version = 1
	}

	err := s.inTx(ctx, "create order", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
INSERT INTO orders (
    customer_name, customer_phone, customer_address, delivery_type,
    payment_method, payment_status, status, total_cents, notes,
    payment_session_id, version, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
			order.CustomerName,
			order.CustomerPhone,
			order.Address(),
			string(order.DeliveryType()),
			string(order.PaymentMethod),
			string(order.PaymentStatus),
			string(order.Status),
			order.TotalCents,
			order.Notes,
			nullableString(order.PaymentSessionID),
			order.Version,
			toMillis(order.CreatedAt),
			toMillis(order.UpdatedAt),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("insert order: %w", domain.ErrConflict)
			}
			return fmt.Errorf("insert order: %w", err)
		}
		orderID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("read order id: %w", err)
		}
		order.ID = orderID

		for idx := range order.Items {
			item := &order.Items[idx]
			itemResult, err := tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, unit_price_cents, quantity)
VALUES (?, ?, ?, ?, ?)
`, orderID, item.ProductID, item.ProductName, item.UnitPriceCents, item.Quantity)
			if err != nil {
				return fmt.Errorf("insert order item %d: %w", idx, err)
			}
			itemID, err := itemResult.LastInsertId()
			if err != nil {
				return fmt.Errorf("read order item id: %w", err)
			}
			item.ID = itemID
			item.OrderID = orderID
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// GetOrder loads one order with its items.
func (s *Store) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Order{}, err
	}
	return getOrderWhere(ctx, s.sqlDB, "o.id = ?", id)
}

// GetOrderByPaymentSession loads the order opened with a payment session id.
func (s *Store) GetOrderByPaymentSession(ctx context.Context, sessionID string) (domain.Order, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Order{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.Order{}, domain.ErrNotFound
	}
	return getOrderWhere(ctx, s.sqlDB, "o.payment_session_id = ?", sessionID)
}

func getOrderWhere(ctx context.Context, q queryer, where string, arg any) (domain.Order, error) {
	row := q.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders o WHERE "+where, arg)
	order, err := scanOrder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	items, err := listItems(ctx, q, []int64{order.ID})
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items[order.ID]
	return order, nil
}

// ListOrders returns matching orders newest first with their items.
func (s *Store) ListOrders(ctx context.Context, query domain.OrderQuery) ([]domain.Order, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var (
		clauses []string
		params  []any
	)
	switch {
	case query.Status.Normalized() == domain.OrderStatusCompleted:
		condition := completedStatusCondition("o.status", false)
		clauses = append(clauses, condition.Clause)
		params = append(params, condition.Params...)
	case query.Status != "":
		clauses = append(clauses, "o.status = ?")
		params = append(params, string(query.Status))
	}
	if phone := strings.TrimSpace(query.Phone); phone != "" {
		clauses = append(clauses, "o.customer_phone = ?")
		params = append(params, phone)
	}
	condition, err := parseOrderFilter(query.Filter)
	if err != nil {
		return nil, err
	}
	if condition.Clause != "" {
		clauses = append(clauses, condition.Clause)
		params = append(params, condition.Params...)
	}

	statement := "SELECT " + orderColumns + " FROM orders o"
	if len(clauses) > 0 {
		statement += " WHERE " + strings.Join(clauses, " AND ")
	}
	statement += " ORDER BY o.created_at DESC, o.id DESC"

	rows, err := s.sqlDB.QueryContext(ctx, statement, params...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var (
		orders []domain.Order
		ids    []int64
	)
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	items, err := listItems(ctx, s.sqlDB, ids)
	if err != nil {
		return nil, err
	}
	for idx := range orders {
		orders[idx].Items = items[orders[idx].ID]
	}
	return orders, nil
}

// UpdateOrder applies a compare-and-swap status change and bumps the version.
func (s *Store) UpdateOrder(ctx context.Context, update domain.OrderUpdate) (domain.Order, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Order{}, err
	}
	if update.Status == "" && update.PaymentStatus == "" {
		return domain.Order{}, fmt.Errorf("order update has no changes")
	}

	var updated domain.Order
	err := s.inTx(ctx, "update order", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
UPDATE orders
SET status = COALESCE(NULLIF(?, ''), status),
    payment_status = COALESCE(NULLIF(?, ''), payment_status),
    version = version + 1,
    updated_at = ?
WHERE id = ? AND version = ?
`, string(update.Status), string(update.PaymentStatus), toMillis(update.UpdatedAt), update.ID, update.ExpectedVersion)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update order rows affected: %w", err)
		}
		if affected == 0 {
			var exists int
			if err := tx.QueryRowContext(ctx, "SELECT 1 FROM orders WHERE id = ?", update.ID).Scan(&exists); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return domain.ErrNotFound
				}
				return fmt.Errorf("check order exists: %w", err)
			}
			return domain.ErrVersionConflict
		}
		updated, err = getOrderWhere(ctx, tx, "o.id = ?", update.ID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

// DeleteOrder removes an order; its items cascade.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func listItems(ctx context.Context, q queryer, orderIDs []int64) (map[int64][]domain.LineItem, error) {
	items := make(map[int64][]domain.LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderIDs)), ",")
	args := make([]any, len(orderIDs))
	for idx, id := range orderIDs {
		args[idx] = id
	}
	rows, err := q.QueryContext(ctx, `
SELECT id, order_id, product_id, product_name, unit_price_cents, quantity
FROM order_items
WHERE order_id IN (`+placeholders+`)
ORDER BY order_id, id
`, args...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.UnitPriceCents, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

func scanOrder(scan func(dest ...any) error) (domain.Order, error) {
	var (
		order         domain.Order
		address       string
		deliveryType  string
		paymentMethod string
		paymentStatus string
		status        string
		sessionID     sql.NullString
		createdAt     int64
		updatedAt     int64
	)
	if err := scan(
		&order.ID,
		&order.CustomerName,
		&order.CustomerPhone,
		&address,
		&deliveryType,
		&paymentMethod,
		&paymentStatus,
		&status,
		&order.TotalCents,
		&order.Notes,
		&sessionID,
		&order.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Fulfillment = domain.FulfillmentFromStorage(domain.DeliveryType(deliveryType), address)
	order.PaymentMethod = domain.PaymentMethod(paymentMethod)
	order.PaymentStatus = domain.PaymentStatus(paymentStatus)
	order.Status = domain.OrderStatus(status)
	order.PaymentSessionID = sessionID.String
	order.CreatedAt = fromMillis(createdAt)
	order.UpdatedAt = fromMillis(updatedAt)
	return order, nil
}
