package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/database"
)

// 用法: go run scripts/setup_db.go [--no-seed]
func main() {
	seed := true
	for _, arg := range os.Args[1:] {
		if arg == "--no-seed" {
			seed = false
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fmt.Printf("🔗 Connecting to %s database\n", cfg.DatabaseDriver)
	db, err := database.NewDatabase(database.FromAppConfig(cfg))
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.HealthCheck(ctx); err != nil {
		log.Fatalf("❌ Failed to ping database: %v", err)
	}
	fmt.Println("✅ Database connection successful")

	fmt.Println("📄 Creating tables...")
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("❌ Failed to migrate: %v", err)
	}

	pages, err := db.FetchInvoicePages(ctx, "", "")
	if err != nil {
		log.Fatalf("❌ Failed to count invoices: %v", err)
	}
	if !seed || pages > 0 {
		fmt.Println("⏭️  Skipping demo data")
	} else {
		n, err := database.SeedDemoData(ctx, db)
		if err != nil {
			log.Fatalf("❌ Failed to seed demo data after %d invoices: %v", n, err)
		}
		fmt.Printf("🌱 Seeded %d demo invoices\n", n)
	}

	fmt.Println("🎉 Database setup completed! Run 'go run ./cmd/server' to start the dashboard.")
}
