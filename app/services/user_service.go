package services

import (
	"context"
	"errors"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/pkg/auth"
	"github.com/Blawness/SimplePOS/pkg/event"
	"github.com/Blawness/SimplePOS/pkg/orm"
)

var ErrUnknownRole = errors.New("unknown role")

// UserInput is what management endpoints supply when creating or editing a
// user account.
type UserInput struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     string
	Status   string
}

// UserService manages user accounts for the administration screens.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create hashes the password, resolves the role by name and persists the new
// account. Accounts start ACTIVE unless a status is given.
func (s *UserService) Create(in UserInput) (*models.User, error) {
	role, err := s.users.FindRoleByName(in.Role)
	if err != nil {
		return nil, ErrUnknownRole
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusActive
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		Status:       status,
		RoleID:       role.ID,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	user.Role = *role
	event.FireAsync(event.UserCreated, user.ID)
	return user, nil
}

// Update applies the given fields to an existing account. Empty password
// leaves the current hash untouched.
func (s *UserService) Update(id uint, in UserInput) (*models.User, error) {
	user, err := s.users.FindByID(context.Background(), id)
	if err != nil {
		return nil, err
	}

	if in.Role != "" && in.Role != user.Role.Name {
		role, err := s.users.FindRoleByName(in.Role)
		if err != nil {
			return nil, ErrUnknownRole
		}
		user.RoleID = role.ID
		user.Role = *role
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Status != "" {
		user.Status = in.Status
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account.
func (s *UserService) Delete(id uint) error {
	return s.users.Delete(id)
}

// List returns one page of accounts with their roles.
func (s *UserService) List(page, limit int) ([]models.User, orm.Pagination, error) {
	return s.users.All(page, limit)
}
