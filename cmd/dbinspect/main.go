// Package main prints row counts for a catalog database.
//
// Usage:
//
//	DATA_PATH=~/CatalogServer go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/CatalogServer")
	}

	dbPath := config.DataConfig{Path: dataPath}.DatabasePath()
	if _, err := os.Stat(dbPath); err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	st, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	stats, err := st.Stats(context.Background(), time.Now())
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}

	fmt.Println("=== Database Inspection ===")
	fmt.Printf("Path: %s\n\n", dbPath)

	fmt.Println("Users:")
	fmt.Printf("  Total:      %d\n", stats.Users)
	fmt.Printf("  Privileged: %d\n", stats.PrivilegedUsers)

	fmt.Println("\nSessions:")
	fmt.Printf("  Active:  %d\n", stats.ActiveSessions)
	fmt.Printf("  Expired: %d\n", stats.ExpiredSessions)

	fmt.Println("\nCatalog:")
	fmt.Printf("  Items:   %d\n", stats.CatalogItems)
	fmt.Printf("  Ratings: %d\n", stats.Ratings)

	fmt.Println("\nSaved lists:")
	fmt.Printf("  Entries:  %d\n", stats.SavedEntries)
	fmt.Printf("  Orphaned: %d\n", stats.OrphanedSavedEntries)

	if stats.PrivilegedUsers == 0 {
		fmt.Println("\nWarning: no privileged account exists. Set ADMIN_EMAIL and ADMIN_PASSWORD to bootstrap one.")
	}
}
