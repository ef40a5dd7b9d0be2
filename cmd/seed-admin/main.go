// seed-admin creates the default admin account (staff id: admin) when
// the staff table is empty. Safe to run repeatedly.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/models"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.Staff{}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate staff table: %v\n", err)
		os.Exit(1)
	}

	created, err := models.SeedDefaultAdmin(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed admin: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Println("Created default admin account (staff id: admin)")
		return
	}
	fmt.Println("Staff accounts already exist; nothing to do")
}
