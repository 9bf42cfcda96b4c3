package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/backend/backendtest"
	"github.com/campushub/cafe/internal/menu"
	"github.com/shopspring/decimal"
)

// --- Test fixtures ---

func friesItem() backend.MenuItem {
	return backend.MenuItem{ID: 5, Name: "Fries", Category: "Snacks", Price: decimal.NewFromInt(150), Stock: 2}
}

// newFixture starts a fake backend with a small menu and returns a logged-in
// client plus a refreshed catalog.
func newFixture(t *testing.T, role string) (*backendtest.Server, *backend.Client, *menu.Catalog) {
	t.Helper()
	srv := backendtest.New(t)
	srv.Menu = []backend.MenuItem{
		{ID: 1, Name: "Iced Latte", Category: "Coffee", Price: decimal.NewFromInt(350), Stock: 4},
		friesItem(),
		{ID: 11, Name: "Brownie", Category: "Dessert", Price: decimal.NewFromInt(200), Stock: 0},
	}
	srv.AddUser("sara", "pw", role)

	client := backend.NewClient(srv.URL, 5*time.Second)
	if _, err := client.Login(context.Background(), "sara", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	catalog := menu.NewCatalog(client)
	if _, err := catalog.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh catalog: %v", err)
	}
	return srv, client, catalog
}

type countingRecorder struct {
	sections []string
}

func (c *countingRecorder) SourceFailed(section string) {
	c.sections = append(c.sections, section)
}
