package initializers

import (
	"fmt"
	"log"
	"os"

	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenStore builds the storage backend named by STORAGE_BACKEND: "postgres"
// (default) or "csv". The handle is passed down explicitly and closed at
// shutdown; nothing here is kept as package state.
func OpenStore() (store.Store, error) {
	var s store.Store

	switch backend := os.Getenv("STORAGE_BACKEND"); backend {
	case "", "postgres":
		db, err := openPostgres()
		if err != nil {
			return nil, err
		}
		if err := syncDatabase(db); err != nil {
			return nil, err
		}
		s = store.NewGormStore(db)
	case "csv":
		dir := os.Getenv("DATA_DIR")
		if dir == "" {
			dir = "data"
		}
		log.Println("Using CSV storage in", dir, "- not safe under concurrent writer processes.")
		var err error
		s, err = store.NewCSVStore(dir)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}

	if err := seedAdmin(s); err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "onlineshopping"),
			envOr("DB_PORT", "5432"),
		)
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
