package repositories

import (
	"time"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/cache"
	"github.com/Blawness/SimplePOS/pkg/orm"
)

const (
	productListKey = "pos:products:list"
	productListTTL = 5 * time.Minute
)

// CategoryRepository handles the category table.
type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// All returns every category sorted by name.
func (r *CategoryRepository) All() ([]models.Category, error) {
	var cats []models.Category
	err := orm.DB().Model(&models.Category{}).Order("name asc").Get(&cats)
	return cats, err
}

// Find loads one category by ID.
func (r *CategoryRepository) Find(id uint) (*models.Category, error) {
	var cat models.Category
	if err := orm.DB().Model(&models.Category{}).Where("id = ?", id).First(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create persists a new category.
func (r *CategoryRepository) Create(cat *models.Category) error {
	return orm.DB().Create(cat)
}

// ProductRepository handles the product table. The full listing is cached;
// every write invalidates the cache.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// All returns every product with its category, cached for a few minutes.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).
		Preload("Category").
		Order("name asc").
		Cached(productListKey, productListTTL, &products)
	return products, err
}

// Paginated returns one page of products with their categories.
func (r *ProductRepository) Paginated(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := orm.DB().Model(&models.Product{}).
		Preload("Category").
		Order("name asc").
		GetWithPagination(&products, page, limit)
	return products, pagination, err
}

// Find loads one product by ID with its category.
func (r *ProductRepository) Find(id uint) (*models.Product, error) {
	var p models.Product
	err := orm.DB().Model(&models.Product{}).
		Preload("Category").
		Where("id = ?", id).
		First(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persists a new product and invalidates the listing cache.
func (r *ProductRepository) Create(p *models.Product) error {
	if err := orm.DB().Create(p); err != nil {
		return err
	}
	return cache.Forget(productListKey)
}

// Update persists product changes and invalidates the listing cache.
func (r *ProductRepository) Update(p *models.Product) error {
	if err := orm.DB().Save(p); err != nil {
		return err
	}
	return cache.Forget(productListKey)
}

// Delete removes a product and invalidates the listing cache.
func (r *ProductRepository) Delete(id uint) error {
	if err := orm.DB().Where("id = ?", id).Delete(&models.Product{}); err != nil {
		return err
	}
	return cache.Forget(productListKey)
}

// Count returns the total number of products.
func (r *ProductRepository) Count() (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Product{}).Count(&n)
	return n, err
}

// LowStock returns products whose stock is below threshold.
func (r *ProductRepository) LowStock(threshold int) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).
		Where("stock < ?", threshold).
		Order("stock asc").
		Get(&products)
	return products, err
}
