package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/discovery"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/client"
	"gopkg.in/yaml.v3"
)

// StatusChange moves one order or reservation to a new status.
type StatusChange struct {
	ID     int64
	Status string
}

// ParseStatusChange parses the "id=status" form used by staff flags.
func ParseStatusChange(raw string) (StatusChange, error) {
	idText, status, ok := strings.Cut(strings.TrimSpace(raw), "=")
	if !ok {
		return StatusChange{}, fmt.Errorf("status change %q must look like id=status", raw)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
	if err != nil || id <= 0 {
		return StatusChange{}, fmt.Errorf("status change %q has an invalid id", raw)
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return StatusChange{}, fmt.Errorf("status change %q has no status", raw)
	}
	return StatusChange{ID: id, Status: status}, nil
}

// ActionConfig selects one staff action to run instead of polling.
type ActionConfig struct {
	APIURL            string
	OrderStatus       *StatusChange
	ExpectedVersion   int64
	ReservationStatus *StatusChange
	// OrderFile is a YAML order placed on behalf of a phone customer.
	OrderFile  string
	HTTPClient *http.Client
	// Logf defaults to log.Printf.
	Logf func(string, ...any)
}

// Selected reports whether any action was requested.
func (c ActionConfig) Selected() bool {
	return c.OrderStatus != nil || c.ReservationStatus != nil || c.OrderFile != ""
}

func (c ActionConfig) validate() error {
	count := 0
	for _, set := range []bool{c.OrderStatus != nil, c.ReservationStatus != nil, c.OrderFile != ""} {
		if set {
			count++
		}
	}
	switch {
	case count == 0:
		return errors.New("no staff action selected")
	case count > 1:
		return errors.New("only one staff action may run at a time")
	case c.ExpectedVersion < 0:
		return fmt.Errorf("expected version must not be negative, got %d", c.ExpectedVersion)
	case c.ExpectedVersion > 0 && c.OrderStatus == nil:
		return errors.New("expected version only applies to order status changes")
	}
	return nil
}

// RunAction performs the selected staff action against the restaurant API.
func RunAction(ctx context.Context, cfg ActionConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}
	apiClient, err := client.New(discovery.OrDefaultHTTPBaseURL(cfg.APIURL, discovery.ServiceRestaurant), cfg.HTTPClient)
	if err != nil {
		return err
	}

	switch {
	case cfg.OrderStatus != nil:
		order, err := apiClient.UpdateOrderStatus(ctx, cfg.OrderStatus.ID, cfg.OrderStatus.Status, cfg.ExpectedVersion)
		if err != nil {
			return fmt.Errorf("update order %d: %w", cfg.OrderStatus.ID, err)
		}
		cfg.Logf("order #%d status=%s version=%d", order.ID, order.Status, order.Version)
	case cfg.ReservationStatus != nil:
		reservation, err := apiClient.UpdateReservationStatus(ctx, cfg.ReservationStatus.ID, cfg.ReservationStatus.Status)
		if err != nil {
			return fmt.Errorf("update reservation %d: %w", cfg.ReservationStatus.ID, err)
		}
		cfg.Logf("reservation #%d %s on %s status=%s", reservation.ID, reservation.Name, reservation.Date, reservation.Status)
	default:
		request, err := loadOrderFile(cfg.OrderFile)
		if err != nil {
			return err
		}
		order, err := apiClient.CreateOrder(ctx, request)
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		cfg.Logf("order #%d placed total_cents=%d payment=%s", order.ID, order.TotalCents, order.PaymentMethod)
	}
	return nil
}

type orderFile struct {
	Customer struct {
		Name          string `yaml:"name"`
		Phone         string `yaml:"phone"`
		Address       string `yaml:"address"`
		DeliveryType  string `yaml:"deliveryType"`
		PaymentMethod string `yaml:"paymentMethod"`
		Notes         string `yaml:"notes"`
	} `yaml:"customer"`
	Items []struct {
		ProductID      int64  `yaml:"productId"`
		Name           string `yaml:"name"`
		UnitPriceCents int64  `yaml:"unitPriceCents"`
		Quantity       int    `yaml:"quantity"`
	} `yaml:"items"`
}

func loadOrderFile(path string) (client.OrderRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client.OrderRequest{}, fmt.Errorf("read order file: %w", err)
	}
	var parsed orderFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return client.OrderRequest{}, fmt.Errorf("parse order file %s: %w", path, err)
	}

	cart := client.NewCart()
	for _, item := range parsed.Items {
		cart.Add(client.CartItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}
	request, err := cart.Checkout(client.Customer{
		Name:          parsed.Customer.Name,
		Phone:         parsed.Customer.Phone,
		Address:       parsed.Customer.Address,
		DeliveryType:  parsed.Customer.DeliveryType,
		PaymentMethod: parsed.Customer.PaymentMethod,
		Notes:         parsed.Customer.Notes,
	})
	if err != nil {
		return client.OrderRequest{}, fmt.Errorf("order file %s: %w", path, err)
	}
	return request, nil
}
