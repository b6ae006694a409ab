//go:build !loader && !function

package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/cmd/launcher"
	"google.golang.org/adk/cmd/launcher/full"

	"github.com/chlehdwls94/agent-test/src/catalog"
	"github.com/chlehdwls94/agent-test/src/recommend"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	} else {
		log.Println("config: loaded .env file")
	}

	ctx := context.Background()

	store, err := catalog.Open(ctx)
	if err != nil {
		log.Fatalf("Failed to open product catalog: %v", err)
	}
	cache, err := catalog.CacheFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to connect product cache: %v", err)
	}
	if cache != nil {
		store = catalog.NewCachedStore(store, cache)
	}
	defer store.Close()

	root, err := recommend.NewRootAgent(ctx, recommend.ConfigFromEnv(), store)
	if err != nil {
		log.Fatalf("Failed to create recommendation agent: %v", err)
	}

	config := &launcher.Config{
		AgentLoader: agent.NewSingleLoader(root),
	}

	l := full.NewLauncher()
	err = l.Execute(ctx, config, os.Args[1:])
	if err != nil {
		log.Fatalf("run failed: %v\n\n%s", err, l.CommandLineSyntax())
	}
}
