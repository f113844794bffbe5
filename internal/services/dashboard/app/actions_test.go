package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/client"
)

func TestParseStatusChange(t *testing.T) {
	t.Parallel()

	got, err := ParseStatusChange(" 12 = Confirmed ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ID != 12 || got.Status != "confirmed" {
		t.Fatalf("change = %+v", got)
	}
	for _, raw := range []string{"", "12", "x=confirmed", "0=confirmed", "12="} {
		if _, err := ParseStatusChange(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

type recordedRequest struct {
	method  string
	path    string
	ifMatch string
	body    map[string]any
}

type requestRecorder struct {
	mu   sync.Mutex
	last recordedRequest
}

func (r *requestRecorder) get() recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func recordingAPI(t *testing.T, response string) (*httptest.Server, *requestRecorder) {
	t.Helper()
	recorder := &requestRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen := recordedRequest{method: r.Method, path: r.URL.Path, ifMatch: r.Header.Get("If-Match")}
		if err := json.NewDecoder(r.Body).Decode(&seen.body); err != nil && !errors.Is(err, io.EOF) {
			t.Errorf("decode body: %v", err)
		}
		recorder.mu.Lock()
		recorder.last = seen
		recorder.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)
	return server, recorder
}

func TestRunActionUpdatesOrderStatus(t *testing.T) {
	t.Parallel()

	api, requests := recordingAPI(t, `{"order":{"id":7,"status":"confirmed","version":4}}`)
	recorder := &logRecorder{}
	err := RunAction(context.Background(), ActionConfig{
		APIURL:          api.URL,
		OrderStatus:     &StatusChange{ID: 7, Status: "confirmed"},
		ExpectedVersion: 3,
		Logf:            recorder.logf,
	})
	if err != nil {
		t.Fatalf("run action: %v", err)
	}
	seen := requests.get()
	if seen.method != http.MethodPatch || seen.path != "/api/orders/7" {
		t.Fatalf("request = %s %s", seen.method, seen.path)
	}
	if seen.ifMatch != `"3"` || seen.body["status"] != "confirmed" {
		t.Fatalf("if-match = %q body = %v", seen.ifMatch, seen.body)
	}
	if !recorder.contains("order #7 status=confirmed version=4") {
		t.Fatalf("log lines = %v", recorder.lines)
	}
}

func TestRunActionUpdatesReservationStatus(t *testing.T) {
	t.Parallel()

	api, requests := recordingAPI(t, `{"reservation":{"id":5,"name":"Bruno","date":"2025-06-10","status":"confirmed"}}`)
	recorder := &logRecorder{}
	err := RunAction(context.Background(), ActionConfig{
		APIURL:            api.URL,
		ReservationStatus: &StatusChange{ID: 5, Status: "confirmed"},
		Logf:              recorder.logf,
	})
	if err != nil {
		t.Fatalf("run action: %v", err)
	}
	seen := requests.get()
	if seen.method != http.MethodPatch || seen.path != "/api/reservations/5" || seen.ifMatch != "" {
		t.Fatalf("request = %s %s if-match=%q", seen.method, seen.path, seen.ifMatch)
	}
	if !recorder.contains("reservation #5 Bruno on 2025-06-10 status=confirmed") {
		t.Fatalf("log lines = %v", recorder.lines)
	}
}

func TestRunActionPlacesOrderFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "order.yaml")
	content := `customer:
  name: Ana
  phone: "11999990000"
  address: Rua das Flores, 10
  deliveryType: delivery
  paymentMethod: pix
items:
  - productId: 1
    name: Picanha na Brasa
    unitPriceCents: 1000
    quantity: 1
  - productId: 1
    name: Picanha na Brasa
    unitPriceCents: 1000
    quantity: 1
  - productId: 2
    name: Guaraná
    unitPriceCents: 500
    quantity: 1
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write order file: %v", err)
	}

	api, requests := recordingAPI(t, `{"order":{"id":9,"totalCents":2500,"paymentMethod":"pix"}}`)
	recorder := &logRecorder{}
	if err := RunAction(context.Background(), ActionConfig{APIURL: api.URL, OrderFile: path, Logf: recorder.logf}); err != nil {
		t.Fatalf("run action: %v", err)
	}
	seen := requests.get()
	if seen.method != http.MethodPost || seen.path != "/api/orders" {
		t.Fatalf("request = %s %s", seen.method, seen.path)
	}
	if seen.body["totalCents"] != float64(2500) || seen.body["customerPhone"] != "11999990000" {
		t.Fatalf("body = %v", seen.body)
	}
	items, _ := seen.body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %v", seen.body["items"])
	}
	if first := items[0].(map[string]any); first["quantity"] != float64(2) {
		t.Fatalf("merged line = %v", first)
	}
	if !recorder.contains("order #9 placed total_cents=2500") {
		t.Fatalf("log lines = %v", recorder.lines)
	}
}

func TestRunActionRejectsEmptyOrderFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "order.yaml")
	if err := os.WriteFile(path, []byte("customer:\n  name: Ana\n"), 0o600); err != nil {
		t.Fatalf("write order file: %v", err)
	}
	err := RunAction(context.Background(), ActionConfig{APIURL: "http://127.0.0.1:1", OrderFile: path, Logf: func(string, ...any) {}})
	if !errors.Is(err, client.ErrEmptyCart) {
		t.Fatalf("expected empty cart, got %v", err)
	}
}

func TestRunActionSurfacesAPIErrors(t *testing.T) {
	t.Parallel()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
		_, _ = io.WriteString(w, `{"error":"order was modified","code":"ORDER_VERSION_CONFLICT"}`)
	}))
	t.Cleanup(api.Close)

	err := RunAction(context.Background(), ActionConfig{
		APIURL:          api.URL,
		OrderStatus:     &StatusChange{ID: 1, Status: "preparing"},
		ExpectedVersion: 1,
		Logf:            func(string, ...any) {},
	})
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusPreconditionFailed {
		t.Fatalf("expected precondition failure, got %v", err)
	}
}

func TestRunActionValidatesSelection(t *testing.T) {
	t.Parallel()

	change := &StatusChange{ID: 1, Status: "confirmed"}
	tests := []ActionConfig{
		{},
		{OrderStatus: change, ReservationStatus: change},
		{ReservationStatus: change, ExpectedVersion: 2},
		{OrderStatus: change, ExpectedVersion: -1},
	}
	for _, cfg := range tests {
		if err := RunAction(context.Background(), cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
