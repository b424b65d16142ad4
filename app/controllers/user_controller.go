package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/pkg/bind"
	"github.com/Blawness/SimplePOS/pkg/logger"
	"github.com/Blawness/SimplePOS/pkg/middleware"
	"github.com/Blawness/SimplePOS/pkg/resource"
	"github.com/Blawness/SimplePOS/pkg/response"
)

type UserController struct {
	service *services.UserService
}

func NewUserController() *UserController {
	return &UserController{
		service: services.NewUserService(repositories.NewUserRepository()),
	}
}

// Index lists accounts with their roles.
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, pagination, err := c.service.List(page, limit)
	if err != nil {
		logger.Error("user list failed", "error", err)
		response.ServerError(w)
		return
	}
	resource.CollectionOf(&UserResource{}, users).
		WithPagination(pagination).
		Respond(w)
}

// Store creates an account.
func (c *UserController) Store(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"required"`
		Status   string `json:"status" validate:"nullable,in=ACTIVE,INACTIVE"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Create(services.UserInput{
		Name:     body.Name,
		Email:    body.Email,
		Username: body.Username,
		Password: body.Password,
		Role:     body.Role,
		Status:   body.Status,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownRole) {
			response.ValidationError(w, map[string]string{"role": "unknown role"})
			return
		}
		logger.Error("user create failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Created(w, (&UserResource{}).ToArray(*user))
}

// Update edits an account. An empty password keeps the current one.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}

	var body struct {
		Name     string `json:"name" validate:"nullable,min=2,max=100"`
		Email    string `json:"email" validate:"nullable,email"`
		Username string `json:"username" validate:"nullable,alpha_dash,min=3,max=50"`
		Password string `json:"password" validate:"nullable,min=8"`
		Role     string `json:"role"`
		Status   string `json:"status" validate:"nullable,in=ACTIVE,INACTIVE"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Update(id, services.UserInput{
		Name:     body.Name,
		Email:    body.Email,
		Username: body.Username,
		Password: body.Password,
		Role:     body.Role,
		Status:   body.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownRole):
			response.ValidationError(w, map[string]string{"role": "unknown role"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		default:
			logger.Error("user update failed", "error", err)
			response.ServerError(w)
		}
		return
	}
	response.Success(w, (&UserResource{}).ToArray(*user))
}

// Destroy removes an account. Users cannot delete themselves.
func (c *UserController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}
	if actor, ok := middleware.UserFromCtx(r); ok && actor.ID == id {
		response.BadRequest(w, "cannot delete your own account")
		return
	}
	if err := c.service.Delete(id); err != nil {
		logger.Error("user delete failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, map[string]string{"message": "user deleted"})
}
