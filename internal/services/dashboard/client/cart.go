package client

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyCart is returned by Checkout when nothing has been added.
var ErrEmptyCart = errors.New("cart is empty")

// CartItem is one product line held in a cart.
type CartItem struct {
	ProductID      int64
	Name           string
	UnitPriceCents int64
	Quantity       int
}

// SubtotalCents returns price times quantity.
func (i CartItem) SubtotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// Cart holds the items a customer is about to order. The zero value is
// ready to use and safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add puts quantity units of a product in the cart, merging with an
// existing line for the same product. Non-positive quantities are ignored.
func (c *Cart) Add(item CartItem) {
	if item.Quantity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove drops the line for productID.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of a line; zero or less removes it.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Count returns the number of units in the cart.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalCents returns the sum of line subtotals.
func (c *Cart) TotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, item := range c.items {
		total += item.SubtotalCents()
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Checkout builds an order request from the cart contents. The cart is left
// untouched so a failed submission can be retried.
func (c *Cart) Checkout(customer Customer) (OrderRequest, error) {
	items := c.Items()
	if len(items) == 0 {
		return OrderRequest{}, ErrEmptyCart
	}
	request := OrderRequest{
		CustomerName:     strings.TrimSpace(customer.Name),
		CustomerPhone:    strings.TrimSpace(customer.Phone),
		CustomerAddress:  strings.TrimSpace(customer.Address),
		DeliveryType:     customer.DeliveryType,
		PaymentMethod:    customer.PaymentMethod,
		Notes:            strings.TrimSpace(customer.Notes),
		PaymentSessionID: customer.PaymentSessionID,
		Items:            make([]OrderItemRequest, 0, len(items)),
	}
	for _, item := range items {
		request.Items = append(request.Items, OrderItemRequest{
			ProductID:      item.ProductID,
			ProductName:    item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
		request.TotalCents += item.SubtotalCents()
	}
	return request, nil
}

// Customer carries the checkout form fields.
type Customer struct {
	Name             string
	Phone            string
	Address          string
	DeliveryType     string
	PaymentMethod    string
	Notes            string
	PaymentSessionID string
}
