// Package inventory holds the in-memory product catalog. It is loaded once
// per session from the warehouse files and every cart reservation moves
// stock in and out of it.
package inventory

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var (
	ErrUnknownItem       = errors.New("item not found in catalog")
	ErrInsufficientStock = errors.New("not enough stock")
)

// Catalog maps item names to price and available quantity. Iteration order
// is insertion order, so search results come back in the order items were
// loaded.
type Catalog struct {
	names []string
	items map[string]*domain.CatalogItem
}

func New() *Catalog {
	return &Catalog{items: make(map[string]*domain.CatalogItem)}
}

// Load reads every warehouse*.txt file in dir. Each file holds a
// semicolon-separated list of name:price pairs. Malformed entries are
// skipped with a warning, never fatal. Every loaded item is seeded with
// stockPerItem units.
func Load(dir string, stockPerItem int, log *slog.Logger) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	c := New()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "warehouse") || !strings.HasSuffix(name, ".txt") {
			continue
		}
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warn("cannot read warehouse file", "file", path, "error", err)
			continue
		}
		c.parseRecords(string(content), name, stockPerItem, log)
	}
	return c, nil
}

func (c *Catalog) parseRecords(content, file string, stockPerItem int, log *slog.Logger) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	for _, record := range strings.Split(content, ";") {
		name, priceStr, found := strings.Cut(record, ":")
		if !found {
			log.Warn("invalid item format, skipping", "file", file, "record", strings.TrimSpace(record))
			continue
		}
		name = strings.TrimSpace(name)
		price, err := decimal.NewFromString(strings.TrimSpace(priceStr))
		if err != nil || price.IsNegative() {
			log.Warn("invalid price, skipping", "file", file, "item", name)
			continue
		}
		c.Put(name, price, stockPerItem)
	}
}

// Put adds an item or overwrites an existing one, keeping its original
// position in the iteration order.
func (c *Catalog) Put(name string, price decimal.Decimal, qty int) {
	if _, exists := c.items[name]; !exists {
		c.names = append(c.names, name)
	}
	c.items[name] = &domain.CatalogItem{Name: name, Price: price, Quantity: qty}
}

// Item returns a copy of the named item.
func (c *Catalog) Item(name string) (domain.CatalogItem, bool) {
	item, ok := c.items[name]
	if !ok {
		return domain.CatalogItem{}, false
	}
	return *item, true
}

// Names returns item names in insertion order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Available reports the unreserved stock for an item, zero if unknown.
func (c *Catalog) Available(name string) int {
	if item, ok := c.items[name]; ok {
		return item.Quantity
	}
	return 0
}

// Reserve moves qty units out of availability. The caller owns the
// reservation and must give it back through Release if it is not consumed.
func (c *Catalog) Reserve(name string, qty int) error {
	item, ok := c.items[name]
	if !ok {
		return ErrUnknownItem
	}
	if item.Quantity < qty {
		return ErrInsufficientStock
	}
	item.Quantity -= qty
	return nil
}

// Release returns qty previously reserved units to availability. Unknown
// items are ignored so a cart can always be drained.
func (c *Catalog) Release(name string, qty int) {
	if item, ok := c.items[name]; ok {
		item.Quantity += qty
	}
}

// Match is one search hit.
type Match struct {
	Name  string
	Price decimal.Decimal
}

// Search splits the query into whitespace-separated terms and returns the
// items whose names contain every term, case-insensitively, in catalog
// order. Zero-stock items are not filtered here; that is up to the caller.
func (c *Catalog) Search(query string) []Match {
	terms := strings.Fields(strings.ToLower(query))

	var out []Match
	for _, name := range c.names {
		lower := strings.ToLower(name)
		all := true
		for _, term := range terms {
			if !strings.Contains(lower, term) {
				all = false
				break
			}
		}
		if all {
			out = append(out, Match{Name: name, Price: c.items[name].Price})
		}
	}
	return out
}
