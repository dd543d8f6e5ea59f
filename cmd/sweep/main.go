package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"apistarter/internal/config"
	"apistarter/internal/database"
	"apistarter/internal/repository"
)

// One-shot session sweep, meant to run from cron. Deletes every
// expired or revoked session row in one batch.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	sessions := repository.NewSessionRepository(db)
	deleted, err := sessions.Sweep(context.Background())
	if err != nil {
		log.Fatalf("session sweep failed: %v", err)
	}

	log.Printf("session sweep completed: deleted=%d", deleted)
}
