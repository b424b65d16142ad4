package repositories

import (
	"context"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/orm"
)

// UserRepository handles database operations for users and their RBAC
// associations.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByID loads a user with role and permissions preloaded. Satisfies
// middleware.UserLoader so authorization checks never hit the database again.
func (r *UserRepository) FindByID(_ context.Context, id uint) (*models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).
		Preload("Role.Permissions").
		Where("id = ?", id).
		First(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier looks a user up by email or username, whichever matches.
func (r *UserRepository) FindByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).
		Preload("Role.Permissions").
		Where("email = ? OR username = ?", identifier, identifier).
		First(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindRoleByName loads a role by its unique name.
func (r *UserRepository) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	err := orm.DB().Model(&models.Role{}).
		Preload("Permissions").
		Where("name = ?", name).
		First(&role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// Delete removes a user.
func (r *UserRepository) Delete(id uint) error {
	return orm.DB().Where("id = ?", id).Delete(&models.User{})
}

// All returns users with their roles, paginated.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := orm.DB().Model(&models.User{}).
		Preload("Role").
		Order("name asc").
		GetWithPagination(&users, page, limit)
	return users, pagination, err
}

// CountActive returns the number of ACTIVE users.
func (r *UserRepository) CountActive() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.User{}).
		Where("status = ?", models.StatusActive).
		Count(&n)
	return n, err
}
