//go:build function

package main

import (
	"log"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/joho/godotenv"

	// Importing the package registers the AnalyzeImageProperties function.
	_ "github.com/chlehdwls94/agent-test/src/analysis"
)

// Local functions-framework server for the image analysis function.
// Build with -tags function.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v", err)
	}
}
