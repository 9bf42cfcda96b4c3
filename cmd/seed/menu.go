package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/campushub/cafe/internal/backend"
	"github.com/shopspring/decimal"
)

// MenuAdmin is the part of the backend the seed needs. Satisfied by
// *backend.Client; narrow interface for testability.
type MenuAdmin interface {
	ListMenu(ctx context.Context) ([]backend.MenuItem, error)
	CreateMenuItem(ctx context.Context, item backend.NewMenuItem) error
	DeleteMenuItem(ctx context.Context, itemID int) error
}

type seedResult struct {
	created, replaced, skipped int
}

// defaultMenu is the café's standard menu, in display order.
func defaultMenu(stock int) []backend.NewMenuItem {
	item := func(name, category, price string) backend.NewMenuItem {
		return backend.NewMenuItem{Name: name, Category: category, Price: decimal.RequireFromString(price), Stock: stock}
	}
	return []backend.NewMenuItem{
		item("Iced Latte", "Coffee", "350"),
		item("Latte", "Coffee", "320"),
		item("Cold Coffee", "Coffee", "300"),
		item("Mint Margarita", "Drinks", "250"),
		item("Fries", "Snacks", "150"),
		item("Cheese Fries", "Snacks", "220"),
		item("Club Sandwich", "Meals", "380"),
		item("Zinger Burger", "Meals", "450"),
		item("Student Deal", "Deals", "500"),
		item("Grilled Chicken", "Meals", "550"),
		item("Brownie", "Dessert", "200"),
		item("Ice Cream", "Dessert", "180"),
	}
}

// seedMenu creates every item in items whose name is not on the menu yet.
// With reset, existing items of the same name are deleted and recreated.
// Names match case-insensitively.
func seedMenu(ctx context.Context, api MenuAdmin, items []backend.NewMenuItem, reset bool) (seedResult, error) {
	var res seedResult

	current, err := api.ListMenu(ctx)
	if err != nil {
		return res, fmt.Errorf("list menu: %w", err)
	}
	existing := make(map[string]backend.MenuItem, len(current))
	for _, it := range current {
		existing[strings.ToLower(it.Name)] = it
	}

	for _, item := range items {
		old, found := existing[strings.ToLower(item.Name)]
		if found && !reset {
			log.Printf("Item '%s' already exists (ID: %d), skipping", item.Name, old.ID)
			res.skipped++
			continue
		}
		if found {
			if err := api.DeleteMenuItem(ctx, old.ID); err != nil {
				return res, fmt.Errorf("delete %s: %w", item.Name, err)
			}
		}
		if err := api.CreateMenuItem(ctx, item); err != nil {
			return res, fmt.Errorf("create %s: %w", item.Name, err)
		}
		if found {
			log.Printf("Replaced item '%s'", item.Name)
			res.replaced++
		} else {
			log.Printf("Created item '%s'", item.Name)
			res.created++
		}
	}
	return res, nil
}
