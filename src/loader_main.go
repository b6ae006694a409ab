//go:build loader

package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/chlehdwls94/agent-test/src/catalog"
)

// One-shot batch job: read the product catalog file and insert one row per
// record into the table store. Build with -tags loader.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	ctx := context.Background()

	path := "products.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	} else if env := os.Getenv("CATALOG_FILE"); env != "" {
		path = env
	}

	store, err := catalog.Open(ctx)
	if err != nil {
		log.Fatalf("Failed to open product catalog: %v", err)
	}
	defer store.Close()

	cache, err := catalog.CacheFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to connect product cache: %v", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	rows, err := catalog.Load(ctx, store, cache, path)
	if err != nil {
		log.Fatalf("Catalog load failed: %v", err)
	}
	log.Printf("%d new rows have been added from %s", rows, path)
}
