// Package httpapi exposes the restaurant use-cases as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/httpx"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/payment"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxBodyBytes = 1 << 20

// Dependencies wires the use-cases behind the API.
type Dependencies struct {
	Orders       *domain.OrderService
	Reservations *domain.ReservationService
	Stats        *domain.StatsService
	Menu         *domain.MenuService
	// Payments is nil when no webhook secret is configured, which leaves
	// the webhook route unregistered.
	Payments *payment.Processor
	// Ping reports storage readiness for /healthz. Nil means always ready.
	Ping func(context.Context) error
}

// Handler serves the restaurant API.
type Handler struct {
	deps Dependencies
}

// New builds the API handler.
func New(deps Dependencies) *Handler {
	return &Handler{deps: deps}
}

// Routes returns the instrumented HTTP handler tree.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/orders", h.handleCreateOrder)
	mux.HandleFunc("GET /api/orders", h.handleListOrders)
	mux.HandleFunc("GET /api/orders/user", h.handleListOrdersByPhone)
	mux.HandleFunc("GET /api/orders/{id}", h.handleGetOrder)
	mux.HandleFunc("PATCH /api/orders/{id}", h.handleUpdateOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", h.handleDeleteOrder)

	mux.HandleFunc("POST /api/reservations", h.handleCreateReservation)
	mux.HandleFunc("GET /api/reservations", h.handleListReservations)
	mux.HandleFunc("GET /api/reservations/slots", h.handleAvailableSlots)
	mux.HandleFunc("GET /api/reservations/{id}", h.handleGetReservation)
	mux.HandleFunc("PATCH /api/reservations/{id}", h.handleUpdateReservation)

	mux.HandleFunc("GET /api/admin/stats", h.handleStats)

	mux.HandleFunc("GET /api/categories", h.handleListCategories)
	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)
	mux.HandleFunc("POST /api/products", h.handleCreateProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.handleDeleteProduct)

	if h.deps.Payments != nil {
		mux.HandleFunc("POST /api/webhooks/payment", h.handlePaymentWebhook)
	}

	mux.HandleFunc("GET /healthz", h.handleHealth)

	handler := httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		httpx.AccessLog(log.Printf),
	)
	return otelhttp.NewHandler(handler, "restaurant.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.deps.Ping != nil {
		if err := h.deps.Ping(r.Context()); err != nil {
			log.Printf("health check failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpx.WriteJSON(w, status, payload); err != nil {
		log.Printf("write json response: %v", err)
	}
}

// writeError maps err onto the error body. Server-side failures are logged
// with their cause and answered with generic text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	code := apperrors.CodeOf(err)
	if status >= http.StatusInternalServerError && code == apperrors.CodeUnknown {
		log.Printf("request failed method=%s path=%s request_id=%s err=%v",
			r.Method, r.URL.Path, r.Header.Get(httpx.HeaderRequestID), err)
	}
	body := errorResponse{
		Error: apperrors.PublicMessage(err),
		Code:  string(code),
	}
	if appErr, ok := apperrors.As(err); ok {
		body.Field = appErr.Field()
	}
	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target, maxBodyBytes); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.CodeMalformedRequestBody, "request body is required")
		}
		return apperrors.Wrap(apperrors.CodeMalformedRequestBody, "request body is not valid JSON", err)
	}
	return nil
}

func pathID(r *http.Request, code apperrors.Code) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(code, "id", "id must be a positive integer")
	}
	return id, nil
}
