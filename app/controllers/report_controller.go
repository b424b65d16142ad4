package controllers

import (
	"net/http"

	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/pkg/logger"
	"github.com/Blawness/SimplePOS/pkg/response"
)

type ReportController struct {
	service *services.ReportService
}

func NewReportController() *ReportController {
	return &ReportController{
		service: services.NewReportService(
			repositories.NewProductRepository(),
			repositories.NewTransactionRepository(),
			repositories.NewUserRepository(),
		),
	}
}

// Summary returns the dashboard headline block.
func (c *ReportController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.service.Summary()
	if err != nil {
		logger.Error("summary report failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, summary)
}

// Monthly returns revenue per month for the past year.
func (c *ReportController) Monthly(w http.ResponseWriter, r *http.Request) {
	months, err := c.service.Monthly()
	if err != nil {
		logger.Error("monthly report failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, months)
}

// Products returns the inventory-value listing.
func (c *ReportController) Products(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.Products()
	if err != nil {
		logger.Error("product report failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, products)
}

// Categories returns the per-category catalog breakdown.
func (c *ReportController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.Categories()
	if err != nil {
		logger.Error("category report failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, categories)
}
