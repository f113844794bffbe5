package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

type createOrderItemRequest struct {
	ProductID   int64  `json:"productId"`
	Name        string `json:"name"`
	ProductName string `json:"productName"`
	// Price is the unit price in cents.
	Price          int64 `json:"price"`
	UnitPriceCents int64 `json:"unitPriceCents"`
	Quantity       int   `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName    string                   `json:"customerName"`
	CustomerPhone   string                   `json:"customerPhone"`
	CustomerAddress string                   `json:"customerAddress"`
	DeliveryType    string                   `json:"deliveryType"`
	PaymentMethod   string                   `json:"paymentMethod"`
	Notes           string                   `json:"notes"`
	TotalCents      int64                    `json:"totalCents"`
	PaymentSession  string                   `json:"paymentSessionId"`
	Items           []createOrderItemRequest `json:"items"`
}

func (req createOrderRequest) draft() domain.OrderDraft {
	items := make([]domain.LineItemDraft, 0, len(req.Items))
	for _, item := range req.Items {
		name := item.ProductName
		if strings.TrimSpace(name) == "" {
			name = item.Name
		}
		price := item.UnitPriceCents
		if price == 0 {
			price = item.Price
		}
		items = append(items, domain.LineItemDraft{
			ProductID:      item.ProductID,
			ProductName:    name,
			UnitPriceCents: price,
			Quantity:       item.Quantity,
		})
	}
	return domain.OrderDraft{
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		DeliveryType:     req.DeliveryType,
		Address:          req.CustomerAddress,
		PaymentMethod:    req.PaymentMethod,
		Notes:            req.Notes,
		PaymentSessionID: req.PaymentSession,
		TotalCents:       req.TotalCents,
		Items:            items,
	}
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.deps.Orders.Create(r.Context(), req.draft())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", versionTag(order.Version))
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"orderId": order.ID,
		"order":   presentOrder(order),
	})
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	orders, err := h.deps.Orders.ListOrders(r.Context(), domain.ListOrdersInput{
		Status: query.Get("status"),
		Filter: query.Get("filter"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": presentOrders(orders)})
}

func (h *Handler) handleListOrdersByPhone(w http.ResponseWriter, r *http.Request) {
	orders, err := h.deps.Orders.ListOrdersByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": presentOrders(orders)})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.CodeOrderInvalidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.deps.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", versionTag(order.Version))
	writeJSON(w, http.StatusOK, map[string]any{"order": presentOrder(order)})
}

type updateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.CodeOrderInvalidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expected, err := ifMatchVersion(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.deps.Orders.UpdateOrder(r.Context(), domain.UpdateOrderInput{
		ID:              id,
		Status:          req.Status,
		PaymentStatus:   req.PaymentStatus,
		ExpectedVersion: expected,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", versionTag(order.Version))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": presentOrder(order)})
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, apperrors.CodeOrderInvalidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Orders.DeleteOrder(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func versionTag(version int64) string {
	return `"` + strconv.FormatInt(version, 10) + `"`
}

// ifMatchVersion reads an optional If-Match order version. Both 3 and "3"
// are accepted; an absent header means last writer wins.
func ifMatchVersion(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" || raw == "*" {
		return 0, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version <= 0 {
		return 0, apperrors.Validation(apperrors.CodeMalformedRequestBody, "If-Match", "If-Match must carry a positive order version")
	}
	return version, nil
}
