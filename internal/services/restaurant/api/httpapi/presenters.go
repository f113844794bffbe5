package httpapi

import (
	"encoding/json"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
	"github.com/shopspring/decimal"
)

// money renders cents as a JSON number in major units with two places.
func money(cents int64) json.Number {
	return json.Number(decimal.New(cents, -2).StringFixed(2))
}

func timestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

type lineItemJSON struct {
	ID             int64       `json:"id"`
	ProductID      int64       `json:"productId"`
	ProductName    string      `json:"productName"`
	UnitPriceCents int64       `json:"unitPriceCents"`
	Quantity       int         `json:"quantity"`
	SubtotalCents  int64       `json:"subtotalCents"`
	Subtotal       json.Number `json:"subtotal"`
}

type orderJSON struct {
	ID               int64          `json:"id"`
	CustomerName     string         `json:"customerName"`
	CustomerPhone    string         `json:"customerPhone"`
	CustomerAddress  string         `json:"customerAddress"`
	DeliveryType     string         `json:"deliveryType"`
	PaymentMethod    string         `json:"paymentMethod"`
	PaymentStatus    string         `json:"paymentStatus"`
	Status           string         `json:"status"`
	TotalCents       int64          `json:"totalCents"`
	Total            json.Number    `json:"total"`
	Notes            string         `json:"notes,omitempty"`
	PaymentSessionID string         `json:"paymentSessionId,omitempty"`
	Version          int64          `json:"version"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
	Items            []lineItemJSON `json:"items"`
}

func presentOrder(order domain.Order) orderJSON {
	items := make([]lineItemJSON, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemJSON{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			SubtotalCents:  item.SubtotalCents(),
			Subtotal:       money(item.SubtotalCents()),
		})
	}
	return orderJSON{
		ID:               order.ID,
		CustomerName:     order.CustomerName,
		CustomerPhone:    order.CustomerPhone,
		CustomerAddress:  order.Address(),
		DeliveryType:     string(order.DeliveryType()),
		PaymentMethod:    string(order.PaymentMethod),
		PaymentStatus:    string(order.PaymentStatus),
		Status:           string(order.Status.Normalized()),
		TotalCents:       order.TotalCents,
		Total:            money(order.TotalCents),
		Notes:            order.Notes,
		PaymentSessionID: order.PaymentSessionID,
		Version:          order.Version,
		CreatedAt:        timestamp(order.CreatedAt),
		UpdatedAt:        timestamp(order.UpdatedAt),
		Items:            items,
	}
}

func presentOrders(orders []domain.Order) []orderJSON {
	out := make([]orderJSON, 0, len(orders))
	for _, order := range orders {
		out = append(out, presentOrder(order))
	}
	return out
}

type reservationJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	People    int    `json:"people"`
	Note      string `json:"note,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func presentReservation(r domain.Reservation) reservationJSON {
	return reservationJSON{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Date:      r.Date,
		Time:      r.Time,
		People:    r.People,
		Note:      r.Note,
		Status:    string(r.Status),
		CreatedAt: timestamp(r.CreatedAt),
		UpdatedAt: timestamp(r.UpdatedAt),
	}
}

type slotJSON struct {
	Time      string `json:"time"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
}

type statsJSON struct {
	RevenueLast7Days      json.Number    `json:"revenueLast7Days"`
	TotalRevenue          json.Number    `json:"totalRevenue"`
	AverageTicket         json.Number    `json:"averageTicket"`
	RevenueLast7DaysCents int64          `json:"revenueLast7DaysCents"`
	TotalRevenueCents     int64          `json:"totalRevenueCents"`
	AverageTicketCents    int64          `json:"averageTicketCents"`
	DailyOrders           int            `json:"dailyOrders"`
	OrdersLast7Days       int            `json:"ordersLast7Days"`
	TotalOrders           int            `json:"totalOrders"`
	StatusCounts          map[string]int `json:"statusCounts"`
	GeneratedAt           string         `json:"generatedAt"`
	Degraded              bool           `json:"degraded,omitempty"`
}

func presentStats(stats domain.Stats) statsJSON {
	counts := make(map[string]int, len(stats.StatusCounts))
	for status, count := range stats.StatusCounts {
		counts[string(status)] = count
	}
	return statsJSON{
		RevenueLast7Days:      money(stats.RevenueLast7DaysCents),
		TotalRevenue:          money(stats.TotalRevenueCents),
		AverageTicket:         money(stats.AverageTicketCents),
		RevenueLast7DaysCents: stats.RevenueLast7DaysCents,
		TotalRevenueCents:     stats.TotalRevenueCents,
		AverageTicketCents:    stats.AverageTicketCents,
		DailyOrders:           stats.DailyOrders,
		OrdersLast7Days:       stats.OrdersLast7Days,
		TotalOrders:           stats.TotalOrders,
		StatusCounts:          counts,
		GeneratedAt:           timestamp(stats.GeneratedAt),
		Degraded:              stats.Degraded,
	}
}

type categoryJSON struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	DisplayOrder int    `json:"displayOrder"`
}

func presentCategory(c domain.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, Slug: c.Slug, DisplayOrder: c.DisplayOrder}
}

type productJSON struct {
	ID           int64        `json:"id"`
	CategoryID   int64        `json:"categoryId"`
	Category     categoryJSON `json:"category"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	PriceInCents int64        `json:"priceInCents"`
	Price        json.Number  `json:"price"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	Available    bool         `json:"available"`
	Ingredients  string       `json:"ingredients,omitempty"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
}

func presentProduct(p domain.Product) productJSON {
	return productJSON{
		ID:           p.ID,
		CategoryID:   p.CategoryID,
		Category:     presentCategory(p.Category),
		Name:         p.Name,
		Description:  p.Description,
		PriceInCents: p.PriceCents,
		Price:        money(p.PriceCents),
		ImageURL:     p.ImageURL,
		Available:    p.Available,
		Ingredients:  p.Ingredients,
		CreatedAt:    timestamp(p.CreatedAt),
		UpdatedAt:    timestamp(p.UpdatedAt),
	}
}
