package client

import "strconv"

// LineItem is one order line as the API reports it.
type LineItem struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

// Order is an order as the API reports it.
type Order struct {
	ID              int64      `json:"id"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   string     `json:"customerPhone"`
	CustomerAddress string     `json:"customerAddress"`
	DeliveryType    string     `json:"deliveryType"`
	PaymentMethod   string     `json:"paymentMethod"`
	PaymentStatus   string     `json:"paymentStatus"`
	Status          string     `json:"status"`
	TotalCents      int64      `json:"totalCents"`
	Notes           string     `json:"notes,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       string     `json:"createdAt"`
	Items           []LineItem `json:"items"`
}

// Reservation is a reservation as the API reports it.
type Reservation struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time,omitempty"`
	People int    `json:"people"`
	Note   string `json:"note,omitempty"`
	Status string `json:"status"`
}

// Stats is the admin statistics summary.
type Stats struct {
	RevenueLast7DaysCents int64          `json:"revenueLast7DaysCents"`
	TotalRevenueCents     int64          `json:"totalRevenueCents"`
	AverageTicketCents    int64          `json:"averageTicketCents"`
	DailyOrders           int            `json:"dailyOrders"`
	OrdersLast7Days       int            `json:"ordersLast7Days"`
	TotalOrders           int            `json:"totalOrders"`
	StatusCounts          map[string]int `json:"statusCounts"`
	Degraded              bool           `json:"degraded,omitempty"`
}

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	// UnitPriceCents is the price at the time the item was added.
	UnitPriceCents int64 `json:"unitPriceCents"`
	Quantity       int   `json:"quantity"`
}

// OrderRequest is the body of a new order.
type OrderRequest struct {
	CustomerName     string             `json:"customerName"`
	CustomerPhone    string             `json:"customerPhone"`
	CustomerAddress  string             `json:"customerAddress,omitempty"`
	DeliveryType     string             `json:"deliveryType"`
	PaymentMethod    string             `json:"paymentMethod"`
	Notes            string             `json:"notes,omitempty"`
	PaymentSessionID string             `json:"paymentSessionId,omitempty"`
	TotalCents       int64              `json:"totalCents"`
	Items            []OrderItemRequest `json:"items"`
}

// APIError is a non-2xx API answer.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Code       string `json:"code"`
	Field      string `json:"field,omitempty"`
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Code == "" {
		return "restaurant api: status " + strconv.Itoa(e.StatusCode) + ": " + e.Message
	}
	return "restaurant api: " + e.Code + ": " + e.Message
}
