package catalog

// Category groups products for presentation.
type Category string

const (
	CategoryPastries Category = "Pastries"
	CategoryDrinks   Category = "Drinks"
	CategorySnacks   Category = "Snacks"
)

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{CategoryPastries, CategoryDrinks, CategorySnacks}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPastries, CategoryDrinks, CategorySnacks:
		return true
	}
	return false
}

// Currency is the single fixed currency unit for all prices. Amounts are
// whole units, no fractional handling.
const Currency = "LKR"

// Product is an immutable catalog entry. DisplayTag is a presentation hint
// and never influences logic.
type Product struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      int      `json:"price"`
	Category   Category `json:"category"`
	DisplayTag string   `json:"display_tag,omitempty"`
}

// Catalog is a fixed product list with id lookup.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// New builds a catalog from the given products.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[string]Product, len(products)),
	}
	copy(c.products, products)
	for _, p := range products {
		c.byID[p.ID] = p
	}
	return c
}

// Default returns the built-in food van catalog.
func Default() *Catalog {
	return New([]Product{
		{ID: "p1", Name: "Fish Bun", Price: 100, Category: CategoryPastries, DisplayTag: "amber"},
		{ID: "p2", Name: "Roasted Bread", Price: 90, Category: CategoryPastries, DisplayTag: "orange"},
		{ID: "p3", Name: "Fish Roll", Price: 100, Category: CategoryPastries, DisplayTag: "yellow"},
		{ID: "p4", Name: "Egg Bun", Price: 120, Category: CategoryPastries, DisplayTag: "cream"},
		{ID: "d1", Name: "Passion Fruit", Price: 450, Category: CategoryDrinks, DisplayTag: "purple"},
		{ID: "d2", Name: "Amberella", Price: 450, Category: CategoryDrinks, DisplayTag: "green"},
		{ID: "d3", Name: "Mixed Fruit", Price: 500, Category: CategoryDrinks, DisplayTag: "red"},
		{ID: "s1", Name: "Cassava Chips", Price: 150, Category: CategorySnacks, DisplayTag: "slate"},
	})
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByCategory returns the products in the given category, catalog order.
func (c *Catalog) ByCategory(cat Category) []Product {
	var out []Product
	for _, p := range c.products {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// Find looks up a product by id.
func (c *Catalog) Find(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}
