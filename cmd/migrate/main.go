package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/notifications"
)

func main() {
	withSeed := flag.Bool("seed", false, "insert the demo notifications")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Load configuration
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URL == "" {
		fmt.Println("DB_URL is not set. Nothing to migrate.")
		return
	}

	dbConfig := config.DBConfigFrom(cfg.Database, logger)
	dbConfig.MaxConns = 2
	dbConfig.MinConns = 1
	dbConfig.ConnectTimeout = 5 * time.Second

	db, err := config.NewPool(dbConfig)
	if err != nil {
		fmt.Println("Failed to connect to database:", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inserted, err := notifications.Migrate(ctx, db, *withSeed)
	if err != nil {
		fmt.Println("Migration failed:", err)
		return
	}

	fmt.Println("Notifications table is ready.")
	if *withSeed {
		fmt.Printf("Seeded %d demo notifications.\n", inserted)
	}
}
