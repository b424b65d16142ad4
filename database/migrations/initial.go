package migrations

import (
	"gorm.io/gorm"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/migration"
)

func init() {
	migration.Register("20260801000000_create_permissions_table", &CreatePermissionsTable{})
	migration.Register("20260801000001_create_roles_table", &CreateRolesTable{})
	migration.Register("20260801000002_create_users_table", &CreateUsersTable{})
	migration.Register("20260801000003_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260801000004_create_products_table", &CreateProductsTable{})
	migration.Register("20260801000005_create_transactions_table", &CreateTransactionsTable{})
	migration.Register("20260801000006_create_password_reset_tokens_table", &CreatePasswordResetTokensTable{})
}

// -------- 0001: permissions --------

type CreatePermissionsTable struct{}

func (m *CreatePermissionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Permission{})
}

func (m *CreatePermissionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("permissions")
}

// -------- 0002: roles (and the role_permissions join table) --------

type CreateRolesTable struct{}

func (m *CreateRolesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Role{})
}

func (m *CreateRolesTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("role_permissions"); err != nil {
		return err
	}
	return db.Migrator().DropTable("roles")
}

// -------- 0003: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0004: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- 0005: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0006: transactions --------

type CreateTransactionsTable struct{}

func (m *CreateTransactionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Transaction{})
}

func (m *CreateTransactionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("transactions")
}

// -------- 0007: password reset tokens --------

type CreatePasswordResetTokensTable struct{}

func (m *CreatePasswordResetTokensTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.PasswordResetToken{})
}

func (m *CreatePasswordResetTokensTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("password_reset_tokens")
}
