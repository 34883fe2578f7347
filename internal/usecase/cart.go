package usecase

import (
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/inventory"
)

var (
	ErrNotInCart       = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
)

// Cart tracks reserved quantities for one session. Every mutation moves
// stock between the shared catalog and the cart, never copying it: for any
// item, catalog availability plus the cart's reservation always equals the
// stock at session start.
type Cart struct {
	catalog *inventory.Catalog
	lines   map[string]int
}

func NewCart(c *inventory.Catalog) *Cart {
	return &Cart{catalog: c, lines: make(map[string]int)}
}

// Add reserves qty units of the item out of catalog availability.
func (c *Cart) Add(item string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if err := c.catalog.Reserve(item, qty); err != nil {
		return err
	}
	c.lines[item] += qty
	return nil
}

// Remove gives qty reserved units back to the catalog. Removing at least
// the reserved quantity drops the whole line and returns everything it
// held.
func (c *Cart) Remove(item string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	reserved, ok := c.lines[item]
	if !ok {
		return ErrNotInCart
	}
	if qty >= reserved {
		delete(c.lines, item)
		c.catalog.Release(item, reserved)
		return nil
	}
	c.lines[item] -= qty
	c.catalog.Release(item, qty)
	return nil
}

// Clear returns every reservation to the catalog and empties the cart. It
// reports whether there was anything to clear.
func (c *Cart) Clear() bool {
	if len(c.lines) == 0 {
		return false
	}
	for item, qty := range c.lines {
		c.catalog.Release(item, qty)
	}
	c.lines = make(map[string]int)
	return true
}

// consume empties the cart without releasing stock. Used on settlement,
// where the reservation becomes a sale.
func (c *Cart) consume() {
	c.lines = make(map[string]int)
}

// Total prices the cart against the catalog's current prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for item, qty := range c.lines {
		if ci, ok := c.catalog.Item(item); ok {
			total = total.Add(ci.Price.Mul(decimal.NewFromInt(int64(qty))))
		}
	}
	return total
}

// Empty reports whether the cart holds no reservations.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Quantity returns the reserved quantity for an item, zero if absent.
func (c *Cart) Quantity(item string) int {
	return c.lines[item]
}

// Lines returns the cart contents in catalog order.
func (c *Cart) Lines() []domain.CartLine {
	var out []domain.CartLine
	for _, name := range c.catalog.Names() {
		if qty, ok := c.lines[name]; ok {
			out = append(out, domain.CartLine{ItemName: name, Quantity: qty})
		}
	}
	return out
}
