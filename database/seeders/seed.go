package seeders

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/auth"
)

func init() {
	Register("rbac", SeedRBAC)
	Register("users", SeedUsers)
	Register("catalog", SeedCatalog)
}

var rolePermissions = map[string][]string{
	"Administrator": {
		"product.read", "product.create", "product.update", "product.delete",
		"category.read", "category.create", "category.update", "category.delete",
		"transaction.read", "transaction.create", "transaction.update", "transaction.delete",
		"user.read", "user.create", "user.update", "user.delete",
	},
	"Cashier": {
		"transaction.create", "transaction.read", "product.read",
	},
	"Warehouse Staff": {
		"product.read", "product.update", "category.read",
	},
}

// SeedRBAC creates the permission catalog and the default roles. Safe to
// run repeatedly.
func SeedRBAC(db *gorm.DB) error {
	for roleName, permNames := range rolePermissions {
		perms := make([]models.Permission, 0, len(permNames))
		for _, name := range permNames {
			var p models.Permission
			if err := db.Where("name = ?", name).FirstOrCreate(&p, models.Permission{Name: name}).Error; err != nil {
				return err
			}
			perms = append(perms, p)
		}

		var role models.Role
		if err := db.Where("name = ?", roleName).FirstOrCreate(&role, models.Role{Name: roleName}).Error; err != nil {
			return err
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers creates one administrator and one cashier with known passwords
// for local development.
func SeedUsers(db *gorm.DB) error {
	accounts := []struct {
		name, email, username, password, role string
	}{
		{"Administrator", "admin@simplepos.local", "admin", "password", "Administrator"},
		{"Budi Santoso", "budi@simplepos.local", "budi", "password", "Cashier"},
	}

	for _, a := range accounts {
		var role models.Role
		if err := db.Where("name = ?", a.role).First(&role).Error; err != nil {
			return fmt.Errorf("role %q missing, run the rbac seeder first: %w", a.role, err)
		}

		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return err
		}
		user := models.User{
			Name:         a.name,
			Email:        a.email,
			Username:     a.username,
			PasswordHash: hash,
			Status:       models.StatusActive,
			RoleID:       role.ID,
		}
		if err := db.Where("email = ?", a.email).FirstOrCreate(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

var catalog = map[string][]struct {
	name  string
	price int64
	stock int
}{
	"Drinks": {
		{"Espresso", 25000, 100},
		{"Cappuccino", 30000, 100},
		{"Iced Tea", 15000, 150},
	},
	"Snacks": {
		{"Croissant", 15000, 40},
		{"French Fries", 20000, 80},
		{"Spring Rolls", 18000, 50},
	},
	"Main Course": {
		{"Nasi Goreng", 35000, 60},
		{"Chicken Katsu", 45000, 50},
		{"Beef Burger", 50000, 40},
		{"Chicken Wings", 60000, 60},
	},
	"Desserts": {
		{"Chocolate Cake", 28000, 30},
		{"Ice Cream Sundae", 22000, 45},
	},
}

// SeedCatalog creates the demo categories and products.
func SeedCatalog(db *gorm.DB) error {
	for categoryName, products := range catalog {
		var category models.Category
		if err := db.Where("name = ?", categoryName).
			FirstOrCreate(&category, models.Category{Name: categoryName}).Error; err != nil {
			return err
		}
		for _, p := range products {
			product := models.Product{
				Name:       p.name,
				Price:      p.price,
				Stock:      p.stock,
				CategoryID: category.ID,
			}
			if err := db.Where("name = ?", p.name).FirstOrCreate(&product).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
