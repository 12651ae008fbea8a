package initializers

import (
	"errors"
	"log"
	"os"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"gorm.io/gorm"
)

func syncDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ResetCode{},
	)
	if err != nil {
		return err
	}
	log.Println("Database synced successfully.")
	return nil
}

// seedAdmin creates the configured admin account on first start so the admin
// surface is usable out of the box.
func seedAdmin(s store.Store) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	_, err := s.GetAdmin(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if err := s.CreateAdmin(&models.Admin{Email: email, Password: password}); err != nil {
		return err
	}
	log.Println("Seeded admin account:", email)
	return nil
}
