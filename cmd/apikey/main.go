package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/mjaros/listkeeper/internal/auth"
	"github.com/mjaros/listkeeper/internal/config"
	"github.com/mjaros/listkeeper/internal/docstore"
	fsstore "github.com/mjaros/listkeeper/internal/docstore/fs"
	gcsstore "github.com/mjaros/listkeeper/internal/docstore/gcs"
	pgstore "github.com/mjaros/listkeeper/internal/docstore/postgres"
)

// Command-line tool to mint an API key for an owner and register it in the
// configured document store. A development utility, not a production-grade
// key management system.
func main() {
	owner := flag.String("owner", "", "Owner id the key belongs to (required)")
	flag.Parse()

	if *owner == "" {
		flag.Usage()
		log.Fatal("owner is required")
	}

	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	store, closeStore, err := newStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	defer closeStore()

	key, err := auth.NewAuthenticator(store).Register(ctx, *owner)
	if err != nil {
		log.Fatalf("Failed to register API key: %v", err)
	}

	fmt.Printf("API key for %s (store it now, it is not retrievable later):\n%s\n", *owner, key.FullKey)
	fmt.Printf("Display form: %s\n", key.GetDisplayKey())
}

func newStore(ctx context.Context, cfg config.StorageConfig) (docstore.Store, func(), error) {
	switch cfg.Type {
	case "fs":
		store, err := fsstore.NewStore(cfg.FSDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "postgres":
		store, err := pgstore.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "gcs":
		store, err := gcsstore.NewStore(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("storage type %q cannot hold persistent API keys", cfg.Type)
	}
}
