package models

import "gorm.io/gorm"

// User statuses. Disabled accounts are kept on record rather than deleted,
// so past transactions keep a valid owner.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// User is an operator account (cashier, manager, admin).
type User struct {
	gorm.Model
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username     string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // bcrypt, never serialised
	Status       string `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	RoleID       uint   `gorm:"not null;index" json:"role_id"`
	Role         Role   `json:"role"`
}

// Role is a named permission bundle (Admin, Cashier, Manager, Warehouse Staff).
type Role struct {
	gorm.Model
	Name        string       `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// Permission is an atomic named capability, e.g. "product.read" or
// "transaction.create".
type Permission struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}
