package repositories

import (
	"time"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/orm"
)

// ResetTokenRepository handles password reset tokens.
type ResetTokenRepository struct{}

func NewResetTokenRepository() *ResetTokenRepository {
	return &ResetTokenRepository{}
}

// Create persists a new reset token.
func (r *ResetTokenRepository) Create(t *models.PasswordResetToken) error {
	return orm.DB().Create(t)
}

// Find loads a token by its raw value.
func (r *ResetTokenRepository) Find(token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := orm.DB().Model(&models.PasswordResetToken{}).
		Where("token = ?", token).
		First(&t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// PurgeExpired deletes tokens whose expiry has passed. Consumed tokens are
// kept until they expire so replays keep failing for the same reason.
func (r *ResetTokenRepository) PurgeExpired(now time.Time) (int64, error) {
	res := orm.DB().Gorm().
		Where("expires_at < ?", now).
		Delete(&models.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
