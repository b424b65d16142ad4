// Package cart implements the per-session shopping cart and its
// Redis-backed store. Every browser session owns exactly one cart,
// identified by the pos_cart cookie; carts never leak between sessions.
package cart

import (
	"github.com/Blawness/SimplePOS/app/models"
)

// Item is one cart line. Price is a unit price snapshot taken when the
// product was added, in integer currency units.
type Item struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns the line total for this item.
func (i Item) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart holds the lines of one session's cart. Lines keep the order in
// which products were first added.
type Cart struct {
	Items []Item `json:"items"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID uint) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts a product in the cart. Adding a product already present
// increments its quantity instead of creating a second line.
func (c *Cart) Add(p *models.Product) {
	if p == nil {
		return
	}
	if i := c.find(p.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Updating a product not in the cart is a no-op.
func (c *Cart) UpdateQuantity(productID uint, quantity int) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity = quantity
}

// Remove deletes a line regardless of its quantity.
func (c *Cart) Remove(productID uint) {
	c.UpdateQuantity(productID, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count returns the total number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal returns the sum of all line totals.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	return total
}
