package service

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/campushub/cafe/internal/backend"
)

// StockUpdater overwrites an item's stock. Satisfied by *backend.Client.
type StockUpdater interface {
	UpdateStock(ctx context.Context, itemID, stock int) error
}

// StockEdit is the state of the stock edit surface.
type StockEdit struct {
	Open   bool   `json:"open"`
	ItemID int    `json:"item_id"`
	Value  string `json:"value"`
}

// AdminMenu is the full admin catalog, sold out items included.
// Satisfied by *menu.Catalog.
type AdminMenu interface {
	MenuSnapshot
	All() []backend.MenuItem
}

// StockEditor handles admin edits of a single item's stock.
type StockEditor struct {
	updater StockUpdater
	catalog AdminMenu
}

// NewStockEditor creates a new StockEditor.
func NewStockEditor(updater StockUpdater, catalog AdminMenu) *StockEditor {
	return &StockEditor{updater: updater, catalog: catalog}
}

// Open opens the edit surface on itemID, or on the first catalog item when
// itemID is not in the snapshot.
func (e *StockEditor) Open(itemID int) StockEdit {
	edit := StockEdit{Open: true}
	if it, ok := e.catalog.Lookup(itemID); ok {
		return e.Select(edit, it.ID)
	}
	if items := e.catalog.All(); len(items) > 0 {
		return e.Select(edit, items[0].ID)
	}
	return edit
}

// Select switches the edit surface to itemID and prefills its current stock.
func (e *StockEditor) Select(edit StockEdit, itemID int) StockEdit {
	edit.ItemID = itemID
	if it, ok := e.catalog.Lookup(itemID); ok {
		edit.Value = strconv.Itoa(it.Stock)
	}
	return edit
}

// Save writes the edited stock. It returns the new edit state and the message
// to show. The surface closes only on success.
func (e *StockEditor) Save(ctx context.Context, edit StockEdit) (StockEdit, string, error) {
	if _, ok := e.catalog.Lookup(edit.ItemID); !ok {
		return edit, ErrNoItemSelected.Error(), ErrNoItemSelected
	}

	stock := CoerceStock(edit.Value)
	if err := e.updater.UpdateStock(ctx, edit.ItemID, stock); err != nil {
		log.Printf("ERROR: update stock for item %d: %v", edit.ItemID, err)
		fail := actionFailed(err, msgStockFailed)
		return edit, fail.Message, fail
	}

	if _, err := e.catalog.Refresh(ctx); err != nil {
		log.Printf("ERROR: refresh menu after stock update: %v", err)
	}
	return StockEdit{}, msgStockUpdated, nil
}

// CoerceStock turns free-form input into a stock count. Anything that is not
// a finite non-negative number becomes 0 rather than being rejected; fractions
// are truncated.
func CoerceStock(input string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
