// Package cart is the client-held working set of items a user intends to
// order. It never talks to the backend: stock checks run against whatever menu
// snapshot the caller passes in and are advisory only.
package cart

import (
	"errors"
	"fmt"

	"github.com/campushub/cafe/internal/backend"
	"github.com/shopspring/decimal"
)

// ErrOutOfStock is returned when adding an item that has no stock at all.
var ErrOutOfStock = errors.New("out of stock")

// StockError is returned when an increment would exceed the item's stock.
type StockError struct {
	Name string
}

func (e *StockError) Error() string {
	return "not enough stock for " + e.Name
}

// Line is one cart entry. Quantity never exceeds StockAtAdd.
type Line struct {
	ItemID     int             `json:"item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	StockAtAdd int             `json:"stock_at_add"`
}

// Subtotal is price × quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an immutable value: every operation returns the resulting cart and
// leaves the receiver untouched, so a rejected action can never half-apply.
type Cart struct {
	lines []Line
}

// Lines returns a copy of the cart lines in insertion order.
func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of distinct items in the cart.
func (c Cart) Len() int { return len(c.lines) }

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Line returns the line for itemID.
func (c Cart) Line(itemID int) (Line, bool) {
	if i := c.index(itemID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Add puts one more unit of item in the cart, checked against item.Stock.
func (c Cart) Add(item backend.MenuItem) (Cart, error) {
	i := c.index(item.ID)
	if i < 0 {
		if item.Stock < 1 {
			return c, ErrOutOfStock
		}
		lines := append(c.Lines(), Line{
			ItemID:     item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   1,
			StockAtAdd: item.Stock,
		})
		return Cart{lines: lines}, nil
	}

	newQty := c.lines[i].Quantity + 1
	if newQty > item.Stock {
		return c, &StockError{Name: item.Name}
	}
	lines := c.Lines()
	lines[i].Quantity = newQty
	lines[i].StockAtAdd = item.Stock
	lines[i].Price = item.Price
	return Cart{lines: lines}, nil
}

// SetQuantity sets the quantity of an existing line, clamped to
// [1, StockAtAdd]. Lines that still end up non-positive are dropped. Unknown
// ids leave the cart as it is.
func (c Cart) SetQuantity(itemID, qty int) Cart {
	i := c.index(itemID)
	if i < 0 {
		return c
	}
	if qty < 1 {
		qty = 1
	}
	if qty > c.lines[i].StockAtAdd {
		qty = c.lines[i].StockAtAdd
	}
	if qty <= 0 {
		return c.Remove(itemID)
	}
	lines := c.Lines()
	lines[i].Quantity = qty
	return Cart{lines: lines}
}

// Remove deletes the line for itemID.
func (c Cart) Remove(itemID int) Cart {
	lines := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		if l.ItemID != itemID {
			lines = append(lines, l)
		}
	}
	return Cart{lines: lines}
}

// Total is the sum of line subtotals. It is derived on every call.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Stale returns the lines whose item no longer exists in the snapshot that
// lookup resolves against.
func (c Cart) Stale(lookup func(id int) (backend.MenuItem, bool)) []Line {
	var stale []Line
	for _, l := range c.lines {
		if _, ok := lookup(l.ItemID); !ok {
			stale = append(stale, l)
		}
	}
	return stale
}

// OrderLines maps the cart to the outbound order payload. Name and price are
// dropped; the backend prices the order itself.
func (c Cart) OrderLines() []backend.OrderLine {
	out := make([]backend.OrderLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = backend.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return out
}

// StaleError reports cart lines whose item vanished from the menu.
type StaleError struct {
	Lines []Line
}

func (e *StaleError) Error() string {
	if len(e.Lines) == 1 {
		return fmt.Sprintf("%s is no longer available", e.Lines[0].Name)
	}
	return fmt.Sprintf("%s and %d more items are no longer available", e.Lines[0].Name, len(e.Lines)-1)
}

func (c Cart) index(itemID int) int {
	for i, l := range c.lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}
