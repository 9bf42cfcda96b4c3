package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/campushub/cafe/internal/backend"
	"github.com/campushub/cafe/internal/config"
	"github.com/campushub/cafe/internal/enum"
)

func main() {
	// CLI flags
	username := flag.String("username", "", "Admin username")
	password := flag.String("password", "", "Admin password")
	stock := flag.Int("stock", 20, "Initial stock for every created item")
	reset := flag.Bool("reset", false, "Delete and recreate items that already exist")
	flag.Parse()

	// Fall back to environment variables
	if *username == "" {
		*username = os.Getenv("SEED_USERNAME")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}

	// Fall back to defaults
	if *username == "" {
		*username = "admin"
	}
	if *password == "" {
		*password = "admin123"
		log.Println("WARNING: Using default password 'admin123'. Pass -password for a real backend!")
	}

	cfg := config.Load()
	client := backend.NewClient(cfg.CafeAPIURL, cfg.APITimeout)
	ctx := context.Background()

	result, err := seedAs(ctx, client, *username, *password, defaultMenu(*stock), *reset)
	if err != nil {
		log.Fatalf("Failed to seed menu: %v", err)
	}

	log.Println("Seed completed successfully")
	log.Printf("Created %d items, replaced %d, skipped %d", result.created, result.replaced, result.skipped)
}

// seedAs logs in as an admin, seeds the menu and always ends the backend
// session it opened before returning.
func seedAs(ctx context.Context, client *backend.Client, username, password string, items []backend.NewMenuItem, reset bool) (seedResult, error) {
	res, err := client.Login(ctx, username, password)
	if err != nil {
		return seedResult{}, fmt.Errorf("log in as %s: %w", username, err)
	}
	defer func() {
		if err := client.Logout(ctx); err != nil {
			log.Printf("ERROR: backend logout: %v", err)
		}
	}()

	if role, err := enum.ParseRole(res.Role); err != nil || role != enum.RoleAdmin {
		return seedResult{}, fmt.Errorf("user %s is not an admin (role %q)", username, res.Role)
	}
	return seedMenu(ctx, client, items, reset)
}
