package controllers

import (
	"errors"
	"net/http"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/pkg/auth"
	"github.com/Blawness/SimplePOS/pkg/bind"
	"github.com/Blawness/SimplePOS/pkg/collection"
	"github.com/Blawness/SimplePOS/pkg/logger"
	"github.com/Blawness/SimplePOS/pkg/middleware"
	"github.com/Blawness/SimplePOS/pkg/response"
)

type AuthController struct {
	auth  *services.AuthService
	reset *services.PasswordResetService
}

func NewAuthController() *AuthController {
	users := repositories.NewUserRepository()
	return &AuthController{
		auth:  services.NewAuthService(users),
		reset: services.NewPasswordResetService(users, repositories.NewResetTokenRepository()),
	}
}

// Login authenticates by email or username and sets the session cookie.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
		RememberMe bool   `json:"remember_me"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, user, err := c.auth.Login(body.Identifier, body.Password, body.RememberMe)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logger.Error("login failed", "error", err)
		response.ServerError(w)
		return
	}

	auth.SetCookie(w, token, body.RememberMe)
	response.Success(w, sessionPayload(user))
}

// Logout clears the session cookie. Always succeeds.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	response.Success(w, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user, or a null user for anonymous visitors.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromCtx(r)
	if !ok {
		response.Success(w, map[string]interface{}{"user": nil})
		return
	}
	response.Success(w, map[string]interface{}{"user": sessionPayload(user)})
}

// RequestReset accepts an email or username and always responds OK so the
// endpoint cannot be used to probe which accounts exist.
func (c *AuthController) RequestReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Identifier string `json:"identifier" validate:"required"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.reset.RequestReset(body.Identifier); err != nil {
		logger.Error("reset request failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, map[string]string{
		"message": "if the account exists, a reset link has been sent",
	})
}

// ResetPassword consumes a reset token and sets the new password.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token                string `json:"token" validate:"required"`
		Password             string `json:"password" validate:"required,min=8,confirmed"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.reset.ResetPassword(body.Token, body.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			response.BadRequest(w, "invalid or expired token")
			return
		}
		logger.Error("password reset failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, map[string]string{"message": "password updated"})
}

// sessionPayload is the user shape the frontend session consumes.
func sessionPayload(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"username": u.Username,
		"role":     u.Role.Name,
		"permissions": collection.Map(u.Role.Permissions, func(p models.Permission) string {
			return p.Name
		}),
	}
}
