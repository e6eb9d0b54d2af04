package main

import (
	"log"
	"os"

	"content-engine-be/internal/bootstrap"
	"content-engine-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running migration...")
	if err := bootstrap.MigrateSchema(db); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}
	log.Println("Success: Database migration completed")
}
