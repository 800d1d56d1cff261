package main

import (
	"log"

	"ai-blog-summarizer-be/internal/config"
	"ai-blog-summarizer-be/internal/model"
	"ai-blog-summarizer-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	// gen_random_uuid() lives in pgcrypto before Postgres 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to enable pgcrypto: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate for documents and vector points...")
	if err := database.Migrate(db, &model.Document{}, &model.VectorPoint{}); err != nil {
		log.Fatalf("Error: Migration failed: %v", err)
	}

	log.Println("✅ Migration completed")
}
