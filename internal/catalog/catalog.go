package catalog

import (
	"errors"
	"fmt"

	"github.com/vendo-labs/vendo/internal/money"
)

// ErrNotFound indicates no item carries the requested id.
var ErrNotFound = errors.New("catalog: item not found")

// ErrInvalidPrice is returned when a price edit is not positive.
var ErrInvalidPrice = errors.New("catalog: invalid price")

// ErrInsufficientStock indicates a stock adjustment would drive stock negative.
var ErrInsufficientStock = errors.New("catalog: insufficient stock")

// ErrDuplicateID indicates two seed items share an id.
var ErrDuplicateID = errors.New("catalog: duplicate item id")

// Item is one vending slot: a stable numeric id, a display name, the unit
// price in minor units, and the stock on hand.
type Item struct {
	ID    int
	Name  string
	Price money.Amount
	Stock int
}

// Catalog owns the item records. Stock and price are only mutated through
// AdjustStock and SetPrice.
type Catalog struct {
	items []*Item
	index map[int]*Item
}

// New builds a catalog from seed items, preserving their order.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{index: make(map[int]*Item, len(items))}
	for _, it := range items {
		if _, ok := c.index[it.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, it.ID)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: item %d priced %s", ErrInvalidPrice, it.ID, money.Format(it.Price))
		}
		if it.Stock < 0 {
			return nil, fmt.Errorf("%w: item %d stocked %d", ErrInsufficientStock, it.ID, it.Stock)
		}
		copied := it
		c.items = append(c.items, &copied)
		c.index[it.ID] = &copied
	}
	return c, nil
}

// FindByID returns a copy of the item with the given id.
func (c *Catalog) FindByID(id int) (Item, error) {
	it, ok := c.index[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return *it, nil
}

// AdjustStock applies delta to the item's stock. A delta that would drive
// stock negative fails with ErrInsufficientStock and leaves stock unchanged.
func (c *Catalog) AdjustStock(id, delta int) error {
	it, ok := c.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if it.Stock+delta < 0 {
		return fmt.Errorf("%w: item %d has %d, delta %d", ErrInsufficientStock, id, it.Stock, delta)
	}
	it.Stock += delta
	return nil
}

// SetPrice replaces the item's unit price. The new price must be positive.
func (c *Catalog) SetPrice(id int, price money.Amount) error {
	it, ok := c.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if price <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, money.Format(price))
	}
	it.Price = price
	return nil
}

// ListAll returns a read-only snapshot of every item in seed order.
func (c *Catalog) ListAll() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	return out
}
