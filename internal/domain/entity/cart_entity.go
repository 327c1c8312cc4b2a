package entity

import (
	"errors"
	"time"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart never holds an item with a quantity below one.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}

func (c *Cart) indexOf(productID string) int {
	for i, it := range c.Items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add merges qty into an existing line or appends a new one.
func (c *Cart) Add(p Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(p.ID); i >= 0 {
		c.Items[i].Quantity += qty
		c.Items[i].Product = p
	} else {
		c.Items = append(c.Items, CartItem{Product: p, Quantity: qty})
	}
	c.touch()
	return nil
}

// UpdateQuantity sets the quantity of a line; qty <= 0 removes it.
// It reports whether the product was in the cart.
func (c *Cart) UpdateQuantity(productID string, qty int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = qty
	}
	c.touch()
	return true
}

func (c *Cart) Remove(productID string) bool {
	return c.UpdateQuantity(productID, 0)
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.touch()
}

func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Product.Price * float64(it.Quantity)
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Normalize drops lines that could only come from a corrupted stored cart.
func (c *Cart) Normalize() {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.Quantity > 0 && it.Product.ID != "" {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

func (c *Cart) touch() { c.UpdatedAt = time.Now().UTC() }
