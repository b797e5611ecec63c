package entities

import "github.com/shopspring/decimal"

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart is the cart state. Items keep insertion order and hold at most one
// line per product id; totals are always derived from Items.
type Cart struct {
	Items  []CartItem `json:"items"`
	IsOpen bool       `json:"isOpen"`
}

type CartResponse struct {
	Items         []CartItem      `json:"items"`
	IsOpen        bool            `json:"isOpen"`
	TotalItems    int             `json:"totalItems"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Changed       bool            `json:"changed"`
	Notifications []Notification  `json:"notifications,omitempty"`
}

type CartRequest struct {
	ProductId string `json:"productId"`
}

func (c *Cart) indexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].Id == id {
			return i
		}
	}
	return -1
}

// AddItem increments the line for p or appends a new line with quantity 1.
func (c *Cart) AddItem(p Product) {
	if i := c.indexOf(p.Id); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1})
}

// RemoveItem deletes the line with the given id and reports whether it existed.
func (c *Cart) RemoveItem(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line.
func (c *Cart) UpdateQuantity(id string, quantity int) bool {
	if quantity <= 0 {
		return c.RemoveItem(id)
	}
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity = quantity
	return true
}

func (c *Cart) Toggle() {
	c.IsOpen = !c.IsOpen
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c Cart) Response() CartResponse {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartResponse{
		Items:      items,
		IsOpen:     c.IsOpen,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
