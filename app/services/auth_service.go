package services

import (
	"errors"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/pkg/auth"
	"github.com/Blawness/SimplePOS/pkg/logger"
)

// ErrInvalidCredentials covers every login failure: unknown identifier,
// wrong password, inactive account. Callers must not distinguish them.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService implements the login flow.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login authenticates by email or username and returns a signed session
// token plus the user. Only ACTIVE users can log in.
func (s *AuthService) Login(identifier, password string, remember bool) (string, *models.User, error) {
	user, err := s.users.FindByIdentifier(identifier)
	if err != nil {
		// Burn a bcrypt comparison so response timing does not reveal
		// whether the identifier exists.
		auth.CheckPassword("$2a$10$invalidinvalidinvalidinvalideuNvPkTzXYxWjYpJpT7Y1e2a6rC6u", password)
		return "", nil, ErrInvalidCredentials
	}

	if user.Status != models.StatusActive {
		return "", nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.Issue(user.ID, remember)
	if err != nil {
		logger.Error("auth: issue token", "error", err)
		return "", nil, err
	}

	return token, user, nil
}
