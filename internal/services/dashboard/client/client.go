// Package client talks to the restaurant HTTP API on behalf of the staff
// dashboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/timeouts"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client calls the restaurant API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL. A nil httpClient gets an instrumented
// client bounded by timeouts.HTTPRequest.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("restaurant api url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse restaurant api url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeouts.HTTPRequest,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// ListOrders returns every order newest first with items.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var payload struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// ListReservations returns every reservation newest first.
func (c *Client) ListReservations(ctx context.Context) ([]Reservation, error) {
	var payload struct {
		Reservations []Reservation `json:"reservations"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/reservations", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Reservations, nil
}

// Stats returns the admin statistics.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// UpdateOrderStatus moves an order. A positive expectedVersion is sent as
// If-Match so a concurrent edit fails instead of being overwritten.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string, expectedVersion int64) (Order, error) {
	headers := http.Header{}
	if expectedVersion > 0 {
		headers.Set("If-Match", strconv.Quote(strconv.FormatInt(expectedVersion, 10)))
	}
	var payload struct {
		Order Order `json:"order"`
	}
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/orders/"+strconv.FormatInt(id, 10), body, headers, &payload); err != nil {
		return Order{}, err
	}
	return payload.Order, nil
}

// UpdateReservationStatus confirms or cancels a reservation.
func (c *Client) UpdateReservationStatus(ctx context.Context, id int64, status string) (Reservation, error) {
	var payload struct {
		Reservation Reservation `json:"reservation"`
	}
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/reservations/"+strconv.FormatInt(id, 10), body, nil, &payload); err != nil {
		return Reservation{}, err
	}
	return payload.Reservation, nil
}

// CreateOrder submits a new order and returns it.
func (c *Client) CreateOrder(ctx context.Context, request OrderRequest) (Order, error) {
	var payload struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", request, nil, &payload); err != nil {
		return Order{}, err
	}
	return payload.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers http.Header, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
