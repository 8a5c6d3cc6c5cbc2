package cart

import "github.com/foodvanpos/posd/internal/app/domain/catalog"

// MaxUniqueItems caps the number of distinct product lines a cart may hold.
// Total quantity is unbounded.
const MaxUniqueItems = 5

// Line is a product selection with its accumulated quantity.
type Line struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Price     int              `json:"price"`
	Category  catalog.Category `json:"category"`
	Quantity  int              `json:"quantity"`
}

// Cart is the active, unconfirmed selection. Lines keep first-seen order.
// The zero value is an empty cart ready for use.
type Cart struct {
	lines []Line
}

// Add applies one unit of the product. An existing line is incremented even
// when the cart is at the cap; a new line is rejected at the cap. Returns
// false only for the silent cap rejection.
func (c *Cart) Add(p catalog.Product) bool {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return true
		}
	}
	if len(c.lines) >= MaxUniqueItems {
		return false
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Quantity:  1,
	})
	return true
}

// Clear removes all lines unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total recomputes the sum of price times quantity over all lines.
func (c *Cart) Total() int {
	total := 0
	for _, l := range c.lines {
		total += l.Price * l.Quantity
	}
	return total
}

// UniqueItemCount returns the number of distinct product lines.
func (c *Cart) UniqueItemCount() int {
	return len(c.lines)
}

// Full reports whether the distinct-line cap has been reached.
func (c *Cart) Full() bool {
	return len(c.lines) >= MaxUniqueItems
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a snapshot copy that never aliases live cart state.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity returns the current quantity for a product id, zero if absent.
func (c *Cart) Quantity(productID string) int {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}
