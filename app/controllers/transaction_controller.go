package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/pkg/bind"
	"github.com/Blawness/SimplePOS/pkg/logger"
	"github.com/Blawness/SimplePOS/pkg/middleware"
	"github.com/Blawness/SimplePOS/pkg/resource"
	"github.com/Blawness/SimplePOS/pkg/response"
)

type TransactionController struct {
	service *services.TransactionService
}

func NewTransactionController() *TransactionController {
	return &TransactionController{
		service: services.NewTransactionService(repositories.NewTransactionRepository()),
	}
}

// Index lists the sales ledger, newest first.
func (c *TransactionController) Index(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	txs, pagination, err := c.service.List(page, limit)
	if err != nil {
		logger.Error("transaction list failed", "error", err)
		response.ServerError(w)
		return
	}
	resource.CollectionOf(&TransactionResource{}, txs).
		WithPagination(pagination).
		Respond(w)
}

// Store appends a sale directly to the ledger. The checkout flow is the
// usual path; this endpoint covers manual entries.
func (c *TransactionController) Store(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body struct {
		Total int64 `json:"total" validate:"required,gte=1"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tx, err := c.service.Create(body.Total, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTotal) {
			response.ValidationError(w, map[string]string{"total": "must be positive"})
			return
		}
		logger.Error("transaction create failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Created(w, tx)
}
