package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := New(server.URL+"/", server.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := New("  ", nil); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestListOrdersDecodesPayload(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/orders" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"orders":[{"id":7,"status":"pending","totalCents":2500,"items":[{"productName":"Picanha","quantity":2,"unitPriceCents":1000}]}]}`)
	}))

	orders, err := c.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != 7 || orders[0].TotalCents != 2500 {
		t.Fatalf("orders = %+v", orders)
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].ProductName != "Picanha" {
		t.Fatalf("items = %+v", orders[0].Items)
	}
}

func TestUpdateOrderStatusSendsIfMatch(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/orders/3" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("If-Match"); got != `"4"` {
			t.Errorf("If-Match = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["status"] != "preparing" {
			t.Errorf("status = %q", body["status"])
		}
		_, _ = io.WriteString(w, `{"order":{"id":3,"status":"preparing","version":5}}`)
	}))

	order, err := c.UpdateOrderStatus(context.Background(), 3, "preparing", 4)
	if err != nil {
		t.Fatalf("update order: %v", err)
	}
	if order.Version != 5 || order.Status != "preparing" {
		t.Fatalf("order = %+v", order)
	}
}

func TestAPIErrorDecoded(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"slot is full","code":"RESERVATION_SLOT_FULL"}`)
	}))

	_, err := c.UpdateReservationStatus(context.Background(), 1, "pending")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Code != "RESERVATION_SLOT_FULL" {
		t.Fatalf("api error = %+v", apiErr)
	}
}

func TestAPIErrorWithoutBodyUsesStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Stats(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.Message != "502 Bad Gateway" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestCartCheckoutTotals(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	cart.Add(CartItem{ProductID: 1, Name: "Picanha", UnitPriceCents: 1000, Quantity: 1})
	cart.Add(CartItem{ProductID: 2, Name: "Guaraná", UnitPriceCents: 500, Quantity: 1})
	cart.Add(CartItem{ProductID: 1, Name: "Picanha", UnitPriceCents: 1000, Quantity: 1})
	cart.Add(CartItem{ProductID: 3, Name: "Ignored", UnitPriceCents: 100, Quantity: 0})

	if got := cart.Count(); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
	if got := cart.TotalCents(); got != 2500 {
		t.Fatalf("total = %d, want 2500", got)
	}

	request, err := cart.Checkout(Customer{Name: " Ana ", Phone: "119", DeliveryType: "pickup", PaymentMethod: "pix"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if request.TotalCents != 2500 || len(request.Items) != 2 || request.CustomerName != "Ana" {
		t.Fatalf("request = %+v", request)
	}
	if len(cart.Items()) != 2 {
		t.Fatal("checkout should not clear the cart")
	}
}

func TestCartSetQuantityAndClear(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	cart.Add(CartItem{ProductID: 1, UnitPriceCents: 1000, Quantity: 1})
	cart.Add(CartItem{ProductID: 2, UnitPriceCents: 500, Quantity: 1})
	cart.SetQuantity(1, 3)
	cart.SetQuantity(2, 0)

	items := cart.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("items = %+v", items)
	}

	cart.Clear()
	if _, err := cart.Checkout(Customer{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("checkout error = %v, want ErrEmptyCart", err)
	}
}

func TestCartConcurrentAdds(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart.Add(CartItem{ProductID: 9, UnitPriceCents: 100, Quantity: 1})
		}()
	}
	wg.Wait()

	if got := cart.Count(); got != 50 {
		t.Fatalf("count = %d, want 50", got)
	}
}

func TestCreateOrderPostsCartRequest(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode: %v", err)
		}
		if request.TotalCents != 1500 || len(request.Items) != 1 {
			t.Errorf("request = %+v", request)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"orderId":11,"order":{"id":11,"totalCents":1500,"paymentStatus":"paid"}}`)
	}))

	cart := NewCart()
	cart.Add(CartItem{ProductID: 4, Name: "Costela", UnitPriceCents: 750, Quantity: 2})
	request, err := cart.Checkout(Customer{Name: "Ana", Phone: "119", DeliveryType: "pickup", PaymentMethod: "card"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	order, err := c.CreateOrder(context.Background(), request)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != 11 || order.PaymentStatus != "paid" {
		t.Fatalf("order = %+v", order)
	}
}
