// Package menu holds the last fetched snapshot of the café menu.
package menu

import (
	"context"
	"sync"

	"github.com/campushub/cafe/internal/backend"
)

// Source fetches the full menu. Satisfied by *backend.Client.
type Source interface {
	ListMenu(ctx context.Context) ([]backend.MenuItem, error)
}

// Catalog is a read-only snapshot of the menu with live stock counts. Each
// successful Refresh replaces the snapshot wholesale; nothing is merged.
type Catalog struct {
	src Source

	mu    sync.RWMutex
	items []backend.MenuItem
}

// NewCatalog creates an empty Catalog. Nothing is fetched until Refresh.
func NewCatalog(src Source) *Catalog {
	return &Catalog{src: src}
}

// Refresh fetches the menu and replaces the snapshot. On failure the previous
// snapshot is kept.
func (c *Catalog) Refresh(ctx context.Context) ([]backend.MenuItem, error) {
	items, err := c.src.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []backend.MenuItem{}
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return All(items), nil
}

// All returns every item in the snapshot, zero-stock ones included. This is
// the admin view: sold out items are still there to be restocked.
func (c *Catalog) All() []backend.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return All(c.items)
}

// Available returns the items a customer may order. Items with no stock do
// not exist on the ordering surface.
func (c *Catalog) Available() []backend.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Available(c.items)
}

// Lookup resolves an item by id in the current snapshot.
func (c *Catalog) Lookup(id int) (backend.MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return backend.MenuItem{}, false
}

// All copies items.
func All(items []backend.MenuItem) []backend.MenuItem {
	out := make([]backend.MenuItem, len(items))
	copy(out, items)
	return out
}

// Available filters out items whose stock is exhausted.
func Available(items []backend.MenuItem) []backend.MenuItem {
	out := make([]backend.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Stock > 0 {
			out = append(out, it)
		}
	}
	return out
}
