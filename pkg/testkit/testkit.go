// Package testkit provides shared fixtures for app-layer tests: an
// in-memory database with the full schema, and seed helpers for the
// RBAC and catalog tables.
package testkit

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/config"
	"github.com/Blawness/SimplePOS/pkg/auth"
	"github.com/Blawness/SimplePOS/pkg/database"
)

var dbSeq atomic.Int64

// NewDB opens a fresh in-memory SQLite database with the full schema and
// installs it as the global connection for the duration of the test.
// Each call gets its own named memory database so tests stay isolated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testkit_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("testkit: open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Transaction{},
		&models.PasswordResetToken{},
	)
	if err != nil {
		t.Fatalf("testkit: migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		database.DB = prev
	})

	return db
}

// SetJWTSecret configures a signing secret for the test and clears it after.
func SetJWTSecret(t *testing.T) {
	t.Helper()
	config.Set("JWT_SECRET", "testkit-secret")
	t.Cleanup(func() { config.Set("JWT_SECRET", "") })
}

// SeedRole creates a role carrying the named permissions.
func SeedRole(t *testing.T, db *gorm.DB, name string, perms ...string) *models.Role {
	t.Helper()

	role := &models.Role{Name: name}
	for _, p := range perms {
		var perm models.Permission
		if err := db.Where("name = ?", p).FirstOrCreate(&perm, models.Permission{Name: p}).Error; err != nil {
			t.Fatalf("testkit: seed permission %s: %v", p, err)
		}
		role.Permissions = append(role.Permissions, perm)
	}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("testkit: seed role %s: %v", name, err)
	}
	return role
}

// SeedUser creates an active user with the given role and password.
func SeedUser(t *testing.T, db *gorm.DB, name, email, username, password string, role *models.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("testkit: hash password: %v", err)
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Status:       models.StatusActive,
		RoleID:       role.ID,
		Role:         *role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("testkit: seed user %s: %v", username, err)
	}
	return u
}

// SeedCategory creates a category.
func SeedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("testkit: seed category %s: %v", name, err)
	}
	return c
}

// SeedProduct creates a product in the given category.
func SeedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int, cat *models.Category) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: cat.ID,
		Category:   *cat,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("testkit: seed product %s: %v", name, err)
	}
	return p
}
