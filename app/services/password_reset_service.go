package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/pkg/auth"
	"github.com/Blawness/SimplePOS/pkg/crypt"
	"github.com/Blawness/SimplePOS/pkg/logger"
	"github.com/Blawness/SimplePOS/pkg/mail"
	"github.com/Blawness/SimplePOS/pkg/orm"
	"github.com/Blawness/SimplePOS/pkg/queue"
)

// ResetTokenTTL is how long a password reset token stays usable.
const ResetTokenTTL = 30 * time.Minute

// ErrInvalidResetToken covers unknown, expired, and already-used tokens.
// Callers must not distinguish them.
var ErrInvalidResetToken = errors.New("invalid or expired token")

// ResetEmailJob delivers the reset link in the background.
type ResetEmailJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// Handle sends the reset email via SMTP.
func (j ResetEmailJob) Handle() error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Use this token to reset your password: <b>%s</b></p>"+
			"<p>It expires in 30 minutes. If you did not request a reset, ignore this email.</p>",
		j.Name, j.Token)
	return mail.To(j.Email).
		Subject("Reset your password").
		Body(body).
		Send()
}

// RegisterJobs makes the queue able to deserialize this package's job
// types. Call once at boot.
func RegisterJobs() {
	queue.Register("services.ResetEmailJob", func() queue.Job { return &ResetEmailJob{} })
}

// PasswordResetService implements the forgot-password flow.
type PasswordResetService struct {
	users  *repositories.UserRepository
	tokens *repositories.ResetTokenRepository
}

func NewPasswordResetService(users *repositories.UserRepository, tokens *repositories.ResetTokenRepository) *PasswordResetService {
	return &PasswordResetService{users: users, tokens: tokens}
}

// RequestReset creates a 30-minute single-use token and queues the email.
// It always succeeds from the caller's point of view so the endpoint never
// reveals whether an account exists.
func (s *PasswordResetService) RequestReset(identifier string) error {
	user, err := s.users.FindByIdentifier(identifier)
	if err != nil {
		return nil
	}

	token, err := crypt.RandomHex(32)
	if err != nil {
		return err
	}

	rec := &models.PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(ResetTokenTTL),
	}
	if err := s.tokens.Create(rec); err != nil {
		return err
	}

	if err := queue.Dispatch(ResetEmailJob{Email: user.Email, Name: user.Name, Token: token}); err != nil {
		logger.Error("password reset: queue email", "error", err)
	}
	return nil
}

// ResetPassword consumes a token and sets the new password. The token
// lookup, password update, and consumption happen in one database
// transaction so a token can never be spent without the password changing.
func (s *PasswordResetService) ResetPassword(token, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = orm.Transaction(func(tx *gorm.DB) error {
		var rec models.PasswordResetToken
		if err := tx.Where("token = ?", token).First(&rec).Error; err != nil {
			return ErrInvalidResetToken
		}
		if !rec.Usable(time.Now()) {
			return ErrInvalidResetToken
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", rec.UserID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&rec).Update("used_at", &now).Error
	})
	return err
}

// PurgeExpiredTokens removes tokens past their expiry. Wired into the
// scheduler at boot.
func (s *PasswordResetService) PurgeExpiredTokens() {
	n, err := s.tokens.PurgeExpired(time.Now())
	if err != nil {
		logger.Error("password reset: purge expired tokens", "error", err)
		return
	}
	if n > 0 {
		logger.Info("password reset: purged expired tokens", "count", n)
	}
}
