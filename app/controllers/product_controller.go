package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/pkg/bind"
	"github.com/Blawness/SimplePOS/pkg/logger"
	"github.com/Blawness/SimplePOS/pkg/resource"
	"github.com/Blawness/SimplePOS/pkg/response"
	"github.com/Blawness/SimplePOS/pkg/storage"
)

// maxImageBytes caps product image uploads at 5 MB.
const maxImageBytes = 5 << 20

type productInput struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Price      int64  `json:"price" validate:"required,gte=0"`
	Stock      int    `json:"stock" validate:"gte=0"`
	CategoryID uint   `json:"category_id" validate:"required"`
	Image      string `json:"image" validate:"nullable,max=255"`
}

type ProductController struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewProductController() *ProductController {
	return &ProductController{
		products:   repositories.NewProductRepository(),
		categories: repositories.NewCategoryRepository(),
	}
}

// Index lists products. Without query parameters the full cached catalog is
// returned; ?page=N switches to pagination.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	if page := r.URL.Query().Get("page"); page != "" {
		n, _ := strconv.Atoi(page)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		products, pagination, err := c.products.Paginated(n, limit)
		if err != nil {
			logger.Error("product list failed", "error", err)
			response.ServerError(w)
			return
		}
		resource.CollectionOf(&ProductResource{}, products).
			WithPagination(pagination).
			Respond(w)
		return
	}

	products, err := c.products.All()
	if err != nil {
		logger.Error("product list failed", "error", err)
		response.ServerError(w)
		return
	}
	resource.CollectionOf(&ProductResource{}, products).Respond(w)
}

// Show returns one product.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}
	product, err := c.products.Find(id)
	if err != nil {
		response.NotFound(w)
		return
	}
	resource.New(&ProductResource{}, *product).Respond(w)
}

// Store creates a product.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var body productInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if _, err := c.categories.Find(body.CategoryID); err != nil {
		response.ValidationError(w, map[string]string{"category_id": "unknown category"})
		return
	}

	product := &models.Product{
		Name:       body.Name,
		Price:      body.Price,
		Stock:      body.Stock,
		CategoryID: body.CategoryID,
		Image:      body.Image,
	}
	if err := c.products.Create(product); err != nil {
		logger.Error("product create failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Created(w, product)
}

// Update edits a product.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}
	product, err := c.products.Find(id)
	if err != nil {
		response.NotFound(w)
		return
	}

	var body productInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if _, err := c.categories.Find(body.CategoryID); err != nil {
		response.ValidationError(w, map[string]string{"category_id": "unknown category"})
		return
	}

	product.Name = body.Name
	product.Price = body.Price
	product.Stock = body.Stock
	product.CategoryID = body.CategoryID
	if body.Image != "" {
		product.Image = body.Image
	}
	if err := c.products.Update(product); err != nil {
		logger.Error("product update failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, product)
}

// Destroy deletes a product.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}
	if _, err := c.products.Find(id); err != nil {
		response.NotFound(w)
		return
	}
	if err := c.products.Delete(id); err != nil {
		logger.Error("product delete failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, map[string]string{"message": "product deleted"})
}

// UploadImage accepts a multipart "image" file, stores it on the configured
// disk and records its URL on the product.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid product id")
		return
	}
	product, err := c.products.Find(id)
	if err != nil {
		response.NotFound(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.BadRequest(w, "image too large or malformed")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		response.ValidationError(w, map[string]string{"image": "must be a jpg, png or webp file"})
		return
	}

	path := fmt.Sprintf("products/%d%s", product.ID, ext)
	if err := storage.PutStream(path, file); err != nil {
		logger.Error("image upload failed", "error", err, "product", product.ID)
		response.ServerError(w)
		return
	}

	product.Image = storage.URL(path)
	if err := c.products.Update(product); err != nil {
		logger.Error("product update failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Success(w, map[string]string{"image": product.Image})
}

// Categories lists all categories.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.All()
	if err != nil {
		logger.Error("category list failed", "error", err)
		response.ServerError(w)
		return
	}
	resource.CollectionOf(&CategoryResource{}, categories).Respond(w)
}

// StoreCategory creates a category.
func (c *ProductController) StoreCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name" validate:"required,min=2,max=100"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category := &models.Category{Name: body.Name}
	if err := c.categories.Create(category); err != nil {
		logger.Error("category create failed", "error", err)
		response.ServerError(w)
		return
	}
	response.Created(w, category)
}

// uintParam parses a positive integer URL parameter.
func uintParam(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
