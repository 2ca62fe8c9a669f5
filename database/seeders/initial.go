package seeders

import (
	"gorm.io/gorm"

	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("sample_products", SeedSampleProducts)
}

// SeedAdminUser creates the default administrator account if no user with
// its email exists yet.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", "admin@almacen.test").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Administrador",
		Email:    "admin@almacen.test",
		Password: hash,
		Role:     "admin",
	}).Error
}

// SeedSampleProducts loads a small starter catalog into an empty database.
func SeedSampleProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Arroz 1kg", Description: "Bolsa de arroz blanco", Stock: 50, Price: 2.5},
		{Name: "Aceite 900ml", Description: "Aceite de girasol", Stock: 30, Price: 4.75},
		{Name: "Azúcar 1kg", Description: "Azúcar refinada", Stock: 40, Price: 1.9},
	}
	return db.Create(&products).Error
}
